package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryNewSessionRanges(t *testing.T) {
	cfg := domain.DefaultEngineConfig()
	factory := NewFactory(cfg, NewRandom(11))

	regions := map[string]domain.Location{}
	for _, loc := range cfg.Locations {
		regions[loc.Name] = loc
	}

	for i := 0; i < 500; i++ {
		s, err := factory.NewSession(t0)
		require.NoError(t, err)
		require.NoError(t, s.Validate())

		assert.Equal(t, t0, s.CreatedAt)
		assert.Equal(t, t0, s.LastActivityAt)
		assert.Equal(t, 1, s.PagesVisited)
		assert.Equal(t, "/", s.CurrentPath)
		assert.Zero(t, s.TotalEngagement)
		assert.False(t, s.Converted)

		assert.GreaterOrEqual(t, s.TargetPages, cfg.PagesBase)
		assert.LessOrEqual(t, s.TargetPages, cfg.PagesBase+cfg.PagesRange)
		assert.GreaterOrEqual(t, s.MinDwell, cfg.DwellBase)
		assert.Less(t, s.MinDwell, cfg.DwellBase+cfg.DwellRange)

		loc, ok := regions[s.Region]
		require.True(t, ok, "unknown region %q", s.Region)
		assert.InDelta(t, loc.Lat, s.Lat, cfg.Jitter)
		assert.InDelta(t, loc.Lng, s.Lng, cfg.Jitter)
		assert.Equal(t, loc.Language, s.Language)
		assert.Equal(t, loc.ValueRate, s.ValueRate)

		prefixOK := false
		for _, prefix := range loc.AddressPrefixes {
			prefixOK = prefixOK || strings.HasPrefix(s.Address, prefix)
		}
		assert.True(t, prefixOK, "address %s outside region prefixes", s.Address)
		assert.True(t, strings.HasSuffix(s.ClientID, ".1772366400"), s.ClientID)
	}
}

func TestFactoryIDsAreUnique(t *testing.T) {
	factory := NewFactory(domain.DefaultEngineConfig(), NewRandom(1))

	seen := make(map[domain.SessionID]struct{}, 20_000)
	for i := 0; i < 20_000; i++ {
		s, err := factory.NewSession(t0.Add(time.Duration(i) * time.Millisecond))
		require.NoError(t, err)
		_, dup := seen[s.ID]
		require.False(t, dup, "duplicate id %s", s.ID)
		seen[s.ID] = struct{}{}
	}
}

func TestFactoryIsDeterministicPerSeed(t *testing.T) {
	a := NewFactory(domain.DefaultEngineConfig(), NewRandom(99))
	b := NewFactory(domain.DefaultEngineConfig(), NewRandom(99))

	for i := 0; i < 10; i++ {
		left, err := a.NewSession(t0)
		require.NoError(t, err)
		right, err := b.NewSession(t0)
		require.NoError(t, err)
		assert.Equal(t, left, right)
	}
}
