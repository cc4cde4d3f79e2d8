package domain

import (
	"fmt"
	"strings"
	"time"
)

type SessionID string

// Session is one simulated visitor. It is created, mutated and removed by the
// scheduler only.
type Session struct {
	ID         SessionID
	ClientID   string
	SessionKey string

	CreatedAt       time.Time
	LastActivityAt  time.Time
	TotalEngagement time.Duration
	MinDwell        time.Duration

	CurrentPath  string
	PagesVisited int
	TargetPages  int
	Hits         int

	Region    string
	Lat       float64
	Lng       float64
	Language  string
	Device    string
	ScreenRes string
	Viewport  string
	Referrer  string
	Address   string
	ValueRate float64

	Converted bool
}

func (s Session) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}

// Expired reports whether the session outlived its dwell or the absolute
// ceiling. A non-positive ceiling disables the ceiling check.
func (s Session) Expired(now time.Time, ceiling time.Duration) bool {
	age := s.Age(now)
	if age > s.MinDwell {
		return true
	}
	return ceiling > 0 && age > ceiling
}

func (s Session) CanNavigate() bool {
	return s.PagesVisited < s.TargetPages
}

func (s Session) Validate() error {
	if strings.TrimSpace(string(s.ID)) == "" {
		return fmt.Errorf("session id is required")
	}
	if s.CreatedAt.IsZero() {
		return fmt.Errorf("session %s: created_at is required", s.ID)
	}
	if s.TargetPages < 1 {
		return fmt.Errorf("session %s: target pages must be positive, got %d", s.ID, s.TargetPages)
	}
	if s.PagesVisited < 0 || s.PagesVisited > s.TargetPages {
		return fmt.Errorf("session %s: pages visited %d outside [0, %d]", s.ID, s.PagesVisited, s.TargetPages)
	}
	if s.TotalEngagement < 0 {
		return fmt.Errorf("session %s: negative engagement %s", s.ID, s.TotalEngagement)
	}
	return nil
}

type Location struct {
	Name            string
	Lat             float64
	Lng             float64
	ValueRate       float64
	Language        string
	AddressPrefixes []string
}

type Device struct {
	Class     string
	ScreenRes string
	Viewport  string
}
