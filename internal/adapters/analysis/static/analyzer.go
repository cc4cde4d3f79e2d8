// Package static derives a target analysis from the URL alone.
package static

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/ports"
)

type Analyzer struct {
	trackingID string
}

var _ ports.TargetAnalyzer = (*Analyzer)(nil)

func New(trackingID string) *Analyzer {
	if strings.TrimSpace(trackingID) == "" {
		trackingID = domain.DefaultTrackingID
	}
	return &Analyzer{trackingID: trackingID}
}

func (a *Analyzer) Analyze(ctx context.Context, targetURL string) (domain.TargetAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return domain.TargetAnalysis{}, err
	}

	parsed, err := url.Parse(targetURL)
	if err != nil {
		return domain.TargetAnalysis{}, fmt.Errorf("parse target url: %w", err)
	}
	host := parsed.Hostname()
	if host == "" {
		return domain.TargetAnalysis{}, fmt.Errorf("target url %q has no host", targetURL)
	}

	return domain.TargetAnalysis{
		Title:            titleFromHost(host),
		ServerInfo:       "static",
		Technologies:     []string{parsed.Scheme},
		Score:            50,
		Summary:          fmt.Sprintf("Derived from %s without contacting it.", host),
		TrackingID:       a.trackingID,
		ExpectedLoadTime: 500 * time.Millisecond,
	}, nil
}

// titleFromHost turns "www.city-portal.example" into "City Portal".
func titleFromHost(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	label := host
	if i := strings.IndexByte(host, '.'); i > 0 {
		label = host[:i]
	}

	words := strings.FieldsFunc(label, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 0 {
		return host
	}
	return strings.Join(words, " ")
}
