package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// AIStatus reports whether the AI gateway can reach a model.
type AIStatus interface {
	Configured() bool
}

// Service encapsulates health-related checks.
type Service struct {
	DB Pinger
	AI AIStatus
}

// NewService constructs a new health service. db may be nil when running on
// in-memory repositories.
func NewService(db Pinger, ai AIStatus) *Service {
	return &Service{DB: db, AI: ai}
}

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	AI       bool   `json:"ai"`
}

// Status reports database reachability and AI configuration. OK is false only
// when a configured database cannot be reached.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory"}
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			st.OK = false
			st.Database = "down"
		} else {
			st.Database = "up"
		}
	}
	if s.AI != nil {
		st.AI = s.AI.Configured()
	}
	return st
}
