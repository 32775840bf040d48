package pvp

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Sparksx/forge-arena/config"
	"github.com/Sparksx/forge-arena/db"
	"github.com/Sparksx/forge-arena/model"
	"github.com/topfreegames/pitaya/v2"
	"github.com/topfreegames/pitaya/v2/component"
	"github.com/topfreegames/pitaya/v2/constants"
	"go.uber.org/zap"
)

// Room is the pitaya component exposing the arena. Routes follow the
// component name: pvp.join, pvp.queue, pvp.cancel, pvp.action,
// pvp.leaderboard, pvp.combatlog.
type Room struct {
	component.Base
	app pitaya.Pitaya
	cfg *config.Config
	db  *db.Client
	log *zap.Logger

	manager *Manager
}

func RegistRoom(app pitaya.Pitaya, database *db.Client, cfg *config.Config, logger *zap.Logger) *Room {
	err := app.GroupCreate(context.Background(), config.PvpRoomName)
	if err != nil {
		panic(err)
	}

	r := &Room{
		app: app,
		cfg: cfg,
		db:  database,
		log: logger,
	}
	stats := NewStatsProvider(database)
	board := NewLeaderboard(database.Player, stats, cfg.LeaderboardSize, cfg.LeaderboardTTL())
	r.manager = NewManager(cfg, logger, stats, database.Rating, database.Match, board, r)

	app.Register(r,
		component.WithName(config.PvpRoomName),
		component.WithNameFunc(strings.ToLower),
	)
	return r
}

func (r *Room) Shutdown() {
	r.manager.Close()
}

// Push implements Notifier over pitaya's frontend push path. A failed push
// usually just means the session dropped between resolution and delivery.
func (r *Room) Push(uid string, route string, payload interface{}) {
	if _, err := r.app.SendPushToUsers(route, payload, []string{uid}, r.cfg.FrontendType); err != nil {
		r.log.Debug("push failed", zap.String("uid", uid), zap.String("route", route), zap.Error(err))
	}
}

type JoinRequest struct {
	PlayerID uint64 `json:"player_id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
}

type JoinResponse struct {
	Code   int    `json:"code"`
	Result string `json:"result"`
}

// Join binds the session to the player identity and adds it to the arena
// group. Rejoining after a reconnect is allowed.
func (r *Room) Join(ctx context.Context, msg *JoinRequest) (*JoinResponse, error) {
	if msg == nil || msg.PlayerID == 0 {
		return nil, pitaya.Error(errors.New("player_id is required"), "PVP-400", nil)
	}
	s := r.app.GetSessionFromCtx(ctx)
	uid := strconv.FormatUint(msg.PlayerID, 10)
	if err := s.Bind(ctx, uid); err != nil && err != constants.ErrSessionAlreadyBound {
		return nil, pitaya.Error(err, "PVP-000", map[string]string{"failed": "bind"})
	}

	if err := r.db.Player.Upsert(&model.Player{
		PlayerID: msg.PlayerID,
		Name:     msg.Name,
		Avatar:   msg.Avatar,
		Rating:   1000,
	}); err != nil {
		r.log.Warn("player upsert failed", zap.Uint64("player_id", msg.PlayerID), zap.Error(err))
	}

	r.app.GroupAddMember(ctx, config.PvpRoomName, s.UID())

	s.OnClose(func() {
		r.app.GroupRemoveMember(context.Background(), config.PvpRoomName, uid)
		r.manager.Disconnect(uid)
		r.broadcastOnline(context.Background())
	})

	r.broadcastOnline(ctx)
	return &JoinResponse{Result: "success"}, nil
}

type QueueResponse struct {
	Code   int    `json:"code"`
	Result string `json:"result"`
	Power  int    `json:"power"`
}

// Queue admits the player into matchmaking. Rejections are surfaced to the
// requester instead of silently dropping them.
func (r *Room) Queue(ctx context.Context, msg []byte) (*QueueResponse, error) {
	uid, playerID, err := r.sessionPlayer(ctx)
	if err != nil {
		return nil, err
	}
	power, err := r.manager.Enqueue(uid, playerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyQueued):
			return nil, pitaya.Error(err, "PVP-409", nil)
		case errors.Is(err, ErrStatsUnavailable):
			return nil, pitaya.Error(err, "PVP-424", nil)
		default:
			return nil, pitaya.Error(err, "PVP-500", nil)
		}
	}
	return &QueueResponse{Result: "success", Power: power}, nil
}

type CancelResponse struct {
	Code   int    `json:"code"`
	Result string `json:"result"`
}

// Cancel leaves the queue. Cancelling while not queued is fine.
func (r *Room) Cancel(ctx context.Context, msg []byte) (*CancelResponse, error) {
	uid, _, err := r.sessionPlayer(ctx)
	if err != nil {
		return nil, err
	}
	r.manager.Dequeue(uid)
	return &CancelResponse{Result: "success"}, nil
}

type ActionMessage struct {
	Type string `json:"type"`
}

// Action submits a combat action. Invalid or out-of-turn submissions are
// deliberately ignored; the server does not trust client-side gating.
func (r *Room) Action(ctx context.Context, msg *ActionMessage) {
	s := r.app.GetSessionFromCtx(ctx)
	uid := s.UID()
	if uid == "" || msg == nil {
		return
	}
	if err := r.manager.SubmitAction(uid, Action(msg.Type)); err != nil {
		r.log.Debug("action ignored",
			zap.String("uid", uid),
			zap.String("type", msg.Type),
			zap.Error(err))
	}
}

type LeaderboardResponse struct {
	Players []LeaderboardRow `json:"players"`
}

func (r *Room) Leaderboard(ctx context.Context, msg []byte) (*LeaderboardResponse, error) {
	rows, err := r.manager.Leaderboard()
	if err != nil {
		return nil, pitaya.Error(err, "PVP-500", nil)
	}
	return &LeaderboardResponse{Players: rows}, nil
}

type CombatLogRequest struct {
	MatchID string `json:"match_id"`
}

type CombatLogResponse struct {
	Entry CombatLogEntry `json:"entry"`
}

// CombatLog fetches a recent match's turn history for replay or sharing.
func (r *Room) CombatLog(ctx context.Context, msg *CombatLogRequest) (*CombatLogResponse, error) {
	if msg == nil || msg.MatchID == "" {
		return nil, pitaya.Error(errors.New("match_id is required"), "PVP-400", nil)
	}
	entry, ok := r.manager.CombatLog(msg.MatchID)
	if !ok {
		return nil, pitaya.Error(errors.New("combat log not found"), "PVP-404", nil)
	}
	return &CombatLogResponse{Entry: entry}, nil
}

func (r *Room) sessionPlayer(ctx context.Context) (string, uint64, error) {
	s := r.app.GetSessionFromCtx(ctx)
	uid := s.UID()
	if uid == "" {
		return "", 0, pitaya.Error(errors.New("join the arena first"), "PVP-401", nil)
	}
	playerID, err := strconv.ParseUint(uid, 10, 64)
	if err != nil {
		return "", 0, pitaya.Error(err, "PVP-401", nil)
	}
	return uid, playerID, nil
}

func (r *Room) broadcastOnline(ctx context.Context) {
	count, err := r.app.GroupCountMembers(ctx, config.PvpRoomName)
	if err != nil {
		return
	}
	r.app.GroupBroadcast(ctx, r.cfg.FrontendType, config.PvpRoomName, routeOnline, OnlinePayload{Count: count})
}
