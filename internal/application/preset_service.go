package application

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/ports"
)

// PresetService resolves presets from the built-in table and the user's
// presets file. A user preset shadows a built-in of the same name.
type PresetService struct {
	repo  ports.PresetRepository
	clock ports.Clock
}

func NewPresetService(repo ports.PresetRepository, clock ports.Clock) *PresetService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &PresetService{repo: repo, clock: clock}
}

func (s *PresetService) Get(ctx context.Context, name string) (domain.Preset, error) {
	if name == "" {
		name = domain.DefaultPresetName
	}

	preset, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return preset, nil
	}
	if !errors.Is(err, domain.ErrPresetNotFound) {
		return domain.Preset{}, fmt.Errorf("get preset by name: %w", err)
	}

	for _, builtin := range domain.BuiltinPresets() {
		if builtin.Name == name {
			return builtin, nil
		}
	}

	return domain.Preset{}, fmt.Errorf("%w: %s", domain.ErrPresetNotFound, name)
}

// List returns built-ins first, in their declared order, followed by user
// presets sorted by name.
func (s *PresetService) List(ctx context.Context) ([]domain.Preset, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}

	byName := make(map[string]domain.Preset, len(stored))
	for _, preset := range stored {
		byName[preset.Name] = preset
	}

	builtins := domain.BuiltinPresets()
	presets := make([]domain.Preset, 0, len(builtins)+len(stored))
	for _, builtin := range builtins {
		if override, ok := byName[builtin.Name]; ok {
			presets = append(presets, override)
			delete(byName, builtin.Name)
			continue
		}
		presets = append(presets, builtin)
	}

	extra := make([]domain.Preset, 0, len(byName))
	for _, preset := range byName {
		extra = append(extra, preset)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Name < extra[j].Name })

	return append(presets, extra...), nil
}

func (s *PresetService) Save(ctx context.Context, preset domain.Preset) error {
	if err := preset.Validate(); err != nil {
		return err
	}

	preset.Builtin = false
	preset.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Save(ctx, preset); err != nil {
		return fmt.Errorf("save preset: %w", err)
	}

	return nil
}
