package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/ports"
)

const DefaultAnalysisTimeout = 5 * time.Second

// AnalyzeWithFallback never fails: a nil analyzer, an error or a missed
// deadline all yield domain.FallbackAnalysis.
func AnalyzeWithFallback(ctx context.Context, analyzer ports.TargetAnalyzer, targetURL string, timeout time.Duration, logger *slog.Logger) domain.TargetAnalysis {
	if logger == nil {
		logger = slog.Default()
	}
	if analyzer == nil {
		return domain.FallbackAnalysis()
	}
	if timeout <= 0 {
		timeout = DefaultAnalysisTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		analysis domain.TargetAnalysis
		err      error
	}
	done := make(chan result, 1)
	go func() {
		analysis, err := analyzer.Analyze(ctx, targetURL)
		done <- result{analysis: analysis, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			logger.Warn("target analysis failed, using fallback", "target", targetURL, "error", res.err)
			return domain.FallbackAnalysis()
		}
		if res.analysis.TrackingID == "" {
			res.analysis.TrackingID = domain.DefaultTrackingID
		}
		return res.analysis
	case <-ctx.Done():
		logger.Warn("target analysis timed out, using fallback", "target", targetURL, "timeout", timeout)
		return domain.FallbackAnalysis()
	}
}
