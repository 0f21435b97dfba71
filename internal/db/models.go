package db

import (
	"time"
)

type League struct {
	ID        string
	Name      string
	Season    int64
	Phase     string
	Version   int64
	State     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LeagueSnapshot struct {
	ID        string
	LeagueID  string
	Version   int64
	Phase     string
	State     []byte
	CreatedAt time.Time
}
