// Package file loads a target analysis from a TOML record on disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

type record struct {
	domain.TargetAnalysis
	ExpectedLoadTime string `toml:"expected_load_time"`
}

type Analyzer struct {
	path string
}

var _ ports.TargetAnalyzer = (*Analyzer)(nil)

func New(path string) *Analyzer {
	return &Analyzer{path: path}
}

// Analyze ignores the target URL; the record describes whichever target the
// operator pointed it at.
func (a *Analyzer) Analyze(ctx context.Context, _ string) (domain.TargetAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return domain.TargetAnalysis{}, err
	}
	if strings.TrimSpace(a.path) == "" {
		return domain.TargetAnalysis{}, errors.New("analysis file path is empty")
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		return domain.TargetAnalysis{}, fmt.Errorf("read analysis file: %w", err)
	}

	var rec record
	if err := toml.Unmarshal(data, &rec); err != nil {
		return domain.TargetAnalysis{}, fmt.Errorf("decode analysis file: %w", err)
	}

	analysis := rec.TargetAnalysis
	if rec.ExpectedLoadTime != "" {
		analysis.ExpectedLoadTime, err = time.ParseDuration(rec.ExpectedLoadTime)
		if err != nil {
			return domain.TargetAnalysis{}, fmt.Errorf("parse expected_load_time: %w", err)
		}
	}
	if analysis.TrackingID == "" {
		analysis.TrackingID = domain.DefaultTrackingID
	}
	if analysis.Technologies == nil {
		analysis.Technologies = []string{}
	}

	return analysis, nil
}
