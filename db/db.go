package db

import (
	"fmt"

	"github.com/Sparksx/forge-arena/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
}

func (c Config) dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.DBName)
}

type db struct {
	db *gorm.DB
}

type Client struct {
	db

	Player    *player
	Equipment *equipment
	Match     *match
	Rating    *rating
}

func NewClient(cfg Config) *Client {
	d, err := gorm.Open(postgres.Open(cfg.dsn()), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	if err := d.AutoMigrate(&model.Player{}, &model.Equipment{}, &model.Match{}, &model.RatingEvent{}); err != nil {
		panic(err)
	}
	c := &Client{db: db{db: d}}
	c.Player = (*player)(&c.db)
	c.Equipment = (*equipment)(&c.db)
	c.Match = (*match)(&c.db)
	c.Rating = (*rating)(&c.db)
	return c
}
