package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func validSession() Session {
	return Session{
		ID:           "s-1",
		CreatedAt:    created,
		MinDwell:     time.Minute,
		PagesVisited: 1,
		TargetPages:  3,
	}
}

func TestSessionExpired(t *testing.T) {
	s := validSession()

	tests := []struct {
		name    string
		now     time.Time
		ceiling time.Duration
		want    bool
	}{
		{name: "within dwell", now: created.Add(30 * time.Second), want: false},
		{name: "at dwell", now: created.Add(time.Minute), want: false},
		{name: "past dwell", now: created.Add(time.Minute + time.Millisecond), want: true},
		{name: "past ceiling", now: created.Add(20 * time.Second), ceiling: 10 * time.Second, want: true},
		{name: "ceiling disabled", now: created.Add(20 * time.Second), ceiling: 0, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Expired(tc.now, tc.ceiling))
		})
	}
}

func TestSessionCanNavigate(t *testing.T) {
	s := validSession()
	assert.True(t, s.CanNavigate())

	s.PagesVisited = s.TargetPages
	assert.False(t, s.CanNavigate())
}

func TestSessionValidate(t *testing.T) {
	require.NoError(t, validSession().Validate())

	tests := []struct {
		name   string
		mutate func(*Session)
	}{
		{name: "missing id", mutate: func(s *Session) { s.ID = " " }},
		{name: "missing created", mutate: func(s *Session) { s.CreatedAt = time.Time{} }},
		{name: "zero target pages", mutate: func(s *Session) { s.TargetPages = 0 }},
		{name: "pages beyond target", mutate: func(s *Session) { s.PagesVisited = 4 }},
		{name: "negative engagement", mutate: func(s *Session) { s.TotalEngagement = -time.Second }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := validSession()
			tc.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestEngineConfigValidate(t *testing.T) {
	require.NoError(t, DefaultEngineConfig().Validate())

	cfg := DefaultEngineConfig()
	cfg.BatchSize = 0
	cfg.ScrollProb = 1.5
	cfg.ConversionValueMax = 1
	cfg.Locations = append(cfg.Locations, Location{Name: "Nowhere"})

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "batch size must be at least 1")
	assert.Contains(t, err.Error(), "scroll probability 1.500 outside [0, 1]")
	assert.Contains(t, err.Error(), "conversion value range")
	assert.Contains(t, err.Error(), `location "Nowhere" has no address prefixes`)
}

func TestBuiltinPresetsAreValid(t *testing.T) {
	presets := BuiltinPresets()
	require.NotEmpty(t, presets)
	assert.Equal(t, DefaultPresetName, presets[0].Name)

	seen := map[string]bool{}
	for _, preset := range presets {
		assert.False(t, seen[preset.Name], "duplicate preset %s", preset.Name)
		seen[preset.Name] = true
		assert.True(t, preset.Builtin)
		assert.NoError(t, preset.Validate(), preset.Name)
	}
}

func TestPresetValidateRequiresName(t *testing.T) {
	err := Preset{Config: DefaultEngineConfig()}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preset name is required")
}

func TestDefaultLocationsUseDocumentationRanges(t *testing.T) {
	allowed := map[string]bool{"192.0.2.": true, "198.51.100.": true, "203.0.113.": true}
	for _, loc := range DefaultLocations() {
		for _, prefix := range loc.AddressPrefixes {
			assert.True(t, allowed[prefix], "%s uses %s", loc.Name, prefix)
		}
	}
}

func TestEventQuerySortsKeys(t *testing.T) {
	event := Event{Params: map[string]string{"b": "2", "a": "1 1", "c": ""}}
	assert.Equal(t, "a=1+1&b=2&c=", event.Query())
}

func TestEventNameValued(t *testing.T) {
	assert.True(t, EventImpression.Valued())
	assert.True(t, EventConversion.Valued())
	assert.False(t, EventPageView.Valued())
	assert.False(t, EventScroll.Valued())
	assert.False(t, EventUserEngagement.Valued())
}

func TestFallbackAnalysis(t *testing.T) {
	fallback := FallbackAnalysis()
	assert.True(t, fallback.Fallback)
	assert.Equal(t, DefaultTrackingID, fallback.TrackingID)
	assert.NotNil(t, fallback.Technologies)
}
