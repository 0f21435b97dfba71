package constants

import "time"

const (
	ClientTimeout   = 30 * time.Second
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	LeagueListLimit   = 50
	CheckpointBuffer  = 8
	LeagueIDLength    = 12
	SnapshotIDLength  = 16
	MaxRequestBodyLen = 1 << 20
)
