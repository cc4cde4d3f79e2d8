package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/google/uuid"
)

type Factory struct {
	cfg domain.EngineConfig
	rnd *Random
}

func NewFactory(cfg domain.EngineConfig, rnd *Random) *Factory {
	return &Factory{cfg: cfg, rnd: rnd}
}

// NewSession builds a fresh session arriving at now. Apart from reading the
// random source it has no side effects.
func (f *Factory) NewSession(now time.Time) (domain.Session, error) {
	id, err := uuid.NewRandomFromReader(f.rnd)
	if err != nil {
		return domain.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	loc := Pick(f.rnd, f.cfg.Locations)
	device := Pick(f.rnd, f.cfg.Devices)
	dwell := f.cfg.DwellBase + time.Duration(f.rnd.Float64()*float64(f.cfg.DwellRange))
	unix := now.Unix()

	return domain.Session{
		ID:              domain.SessionID(id.String()),
		ClientID:        fmt.Sprintf("%09d.%d", f.rnd.IntN(1_000_000_000), unix),
		SessionKey:      strconv.FormatInt(unix, 10),
		CreatedAt:       now,
		LastActivityAt:  now,
		TotalEngagement: 0,
		MinDwell:        dwell,
		CurrentPath:     "/",
		PagesVisited:    1,
		TargetPages:     f.cfg.PagesBase + f.rnd.IntN(f.cfg.PagesRange+1),
		Hits:            1,
		Region:          loc.Name,
		Lat:             loc.Lat + f.jitter(),
		Lng:             loc.Lng + f.jitter(),
		Language:        loc.Language,
		Device:          device.Class,
		ScreenRes:       device.ScreenRes,
		Viewport:        device.Viewport,
		Referrer:        Pick(f.rnd, f.cfg.Referrers),
		Address:         f.address(loc),
		ValueRate:       loc.ValueRate,
	}, nil
}

func (f *Factory) jitter() float64 {
	return (f.rnd.Float64()*2 - 1) * f.cfg.Jitter
}

func (f *Factory) address(loc domain.Location) string {
	prefix := Pick(f.rnd, loc.AddressPrefixes)
	if !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}
	return prefix + strconv.Itoa(1+f.rnd.IntN(254))
}
