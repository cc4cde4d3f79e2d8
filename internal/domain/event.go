package domain

import (
	"net/url"
	"time"
)

type EventName string

const (
	EventPageView       EventName = "page_view"
	EventScroll         EventName = "scroll"
	EventImpression     EventName = "impression"
	EventConversion     EventName = "conversion"
	EventUserEngagement EventName = "user_engagement"
)

// Valued reports whether delivering the event adds to the estimated value.
func (n EventName) Valued() bool {
	return n == EventImpression || n == EventConversion
}

type Event struct {
	SessionID  SessionID         `json:"session_id" yaml:"session_id"`
	ClientID   string            `json:"client_id" yaml:"client_id"`
	SessionKey string            `json:"session_key" yaml:"session_key"`
	Name       EventName         `json:"name" yaml:"name"`
	Terminal   bool              `json:"terminal,omitempty" yaml:"terminal,omitempty"`
	Params     map[string]string `json:"params" yaml:"params"`
	Value      float64           `json:"value,omitempty" yaml:"value,omitempty"`
	At         time.Time         `json:"at" yaml:"at"`
	Generation uint64            `json:"generation" yaml:"generation"`
}

// Query encodes the parameter set as a query string with sorted keys.
func (e Event) Query() string {
	values := url.Values{}
	for k, v := range e.Params {
		values.Set(k, v)
	}
	return values.Encode()
}
