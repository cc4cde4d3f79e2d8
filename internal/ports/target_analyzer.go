package ports

import (
	"context"

	"github.com/bnema/sessionsim/internal/domain"
)

type TargetAnalyzer interface {
	Analyze(ctx context.Context, targetURL string) (domain.TargetAnalysis, error)
}
