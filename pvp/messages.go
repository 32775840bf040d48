package pvp

// Push routes sent to clients. Request handlers live on the Room component;
// everything here is a payload shape.
const (
	routeMatched    = "onMatched"
	routeTurn       = "onTurn"
	routeTurnResult = "onTurnResult"
	routeMatchEnd   = "onMatchEnd"
	routeOnline     = "onOnline"
)

type FighterSummary struct {
	PlayerID uint64 `json:"player_id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	MaxHP    int    `json:"max_hp"`
	Damage   int    `json:"damage"`
	Rating   int    `json:"rating"`
	Power    int    `json:"power"`
}

func summarize(f *Fighter) FighterSummary {
	return FighterSummary{
		PlayerID: f.PlayerID,
		Name:     f.Name,
		Avatar:   f.Avatar,
		MaxHP:    f.MaxHP,
		Damage:   f.Damage,
		Rating:   f.Rating,
		Power:    f.Power,
	}
}

type MatchedPayload struct {
	MatchID  string         `json:"match_id"`
	You      FighterSummary `json:"you"`
	Opponent FighterSummary `json:"opponent"`
}

type TurnPayload struct {
	Turn        int   `json:"turn"`
	TimeLimitMs int64 `json:"time_limit_ms"`
}

// FighterOutcome is one side of a resolved turn.
type FighterOutcome struct {
	Action    Action `json:"action"`
	Damage    int    `json:"damage"`
	IsCrit    bool   `json:"is_crit"`
	Healed    int    `json:"healed"`
	CurrentHP int    `json:"current_hp"`
	MaxHP     int    `json:"max_hp"`
}

// TurnResult is the canonical record of one turn, fighter1/fighter2 ordered.
// Immutable once appended to the match log.
type TurnResult struct {
	Turn     int            `json:"turn"`
	Fighter1 FighterOutcome `json:"fighter1"`
	Fighter2 FighterOutcome `json:"fighter2"`
}

// TurnResultPayload is the per-viewer projection of a TurnResult.
type TurnResultPayload struct {
	Turn     int            `json:"turn"`
	You      FighterOutcome `json:"you"`
	Opponent FighterOutcome `json:"opponent"`
}

func turnResultFor(tr TurnResult, viewerIsFighter1 bool) TurnResultPayload {
	if viewerIsFighter1 {
		return TurnResultPayload{Turn: tr.Turn, You: tr.Fighter1, Opponent: tr.Fighter2}
	}
	return TurnResultPayload{Turn: tr.Turn, You: tr.Fighter2, Opponent: tr.Fighter1}
}

type EndReason string

const (
	EndKO      EndReason = "ko"
	EndTimeout EndReason = "timeout"
	EndDraw    EndReason = "draw"
	EndForfeit EndReason = "forfeit"
)

type EndSide struct {
	PlayerID     uint64 `json:"player_id"`
	Name         string `json:"name"`
	RatingChange int    `json:"rating_change"`
}

type MatchEndPayload struct {
	MatchID  string    `json:"match_id"`
	WinnerID uint64    `json:"winner_id"` // 0 on a draw
	Reason   EndReason `json:"reason"`
	You      EndSide   `json:"you"`
	Opponent EndSide   `json:"opponent"`
}

type LeaderboardRow struct {
	PlayerID uint64 `json:"player_id"`
	Name     string `json:"name"`
	Rating   int    `json:"rating"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Power    int    `json:"power"`
}

type OnlinePayload struct {
	Count int `json:"count"`
}
