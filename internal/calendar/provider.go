package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/username/cesu-salary/internal/apperr"
	"go.uber.org/zap"
)

// Source supplies the holiday set of a year
type Source interface {
	// Name identifies the source in logs and reports
	Name() string

	// Holidays returns the holidays of the given year
	Holidays(ctx context.Context, year int) (*HolidaySet, error)
}

// FallbackPolicy decides what happens when no holiday resource can be read
type FallbackPolicy string

const (
	FallbackEmpty   FallbackPolicy = "empty"
	FallbackBuiltin FallbackPolicy = "builtin"
	FallbackNone    FallbackPolicy = "none"
)

// ParseFallbackPolicy validates a policy name; an empty name means FallbackEmpty
func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch p := FallbackPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FallbackEmpty, nil
	case FallbackEmpty, FallbackBuiltin, FallbackNone:
		return p, nil
	default:
		return "", apperr.InvalidInput("fallback must be 'empty', 'builtin' or 'none', got '%s'", s)
	}
}

// ProviderConfig describes where holidays come from
type ProviderConfig struct {
	LocalFile       string
	RemoteURL       string
	FetchTimeout    time.Duration
	FetchAttempts   int
	PersistDownload bool
	Fallback        FallbackPolicy
}

// Resolution is the outcome of resolving the holidays of a year
type Resolution struct {
	Holidays *HolidaySet
	Source   string
	Warnings []string
}

// Provider resolves holidays from an ordered list of sources.
// It keeps no state between calls.
type Provider struct {
	sources  []Source
	fallback FallbackPolicy
	logger   *zap.Logger
}

// NewProvider creates a Provider trying the local file, then the remote feed,
// then the builtin definitions when the policy asks for them
func NewProvider(cfg ProviderConfig, logger *zap.Logger) *Provider {
	var sources []Source

	if cfg.LocalFile != "" {
		sources = append(sources, NewFileSource(cfg.LocalFile, logger))
	}
	if cfg.RemoteURL != "" {
		persistPath := ""
		if cfg.PersistDownload {
			persistPath = cfg.LocalFile
		}
		remote := NewRemoteSource(cfg.RemoteURL, cfg.FetchTimeout, persistPath, logger).
			WithRetries(cfg.FetchAttempts, defaultRetryDelay)
		sources = append(sources, remote)
	}
	if cfg.Fallback == FallbackBuiltin {
		sources = append(sources, NewBuiltinSource(logger))
	}

	return NewProviderWithSources(sources, cfg.Fallback, logger)
}

// NewProviderWithSources creates a Provider over explicit sources
func NewProviderWithSources(sources []Source, fallback FallbackPolicy, logger *zap.Logger) *Provider {
	if fallback == "" {
		fallback = FallbackEmpty
	}

	return &Provider{
		sources:  sources,
		fallback: fallback,
		logger:   logger,
	}
}

// Resolve returns the holidays of year from the first source that succeeds.
// Failed sources become warnings; only FallbackNone turns total failure into an error.
func (p *Provider) Resolve(ctx context.Context, year int) (*Resolution, error) {
	res := &Resolution{}
	var errs []error

	for _, src := range p.sources {
		set, err := src.Holidays(ctx, year)
		if err == nil {
			res.Holidays = set
			res.Source = src.Name()
			if set.Len() == 0 {
				// A French year always has public holidays: the resource is stale or out of range
				p.logger.Warn("Holiday source has no entries for year",
					zap.String("source", src.Name()),
					zap.Int("year", year))
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: no public holidays found for %d", src.Name(), year))
			}
			return res, nil
		}

		p.logger.Warn("Holiday source failed, trying next",
			zap.String("source", src.Name()),
			zap.Int("year", year),
			zap.Error(err))

		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", src.Name(), err))
		errs = append(errs, err)
	}

	if p.fallback == FallbackNone {
		return nil, fmt.Errorf("no holiday source available for %d: %w",
			year, errors.Join(append([]error{apperr.ErrHolidayResourceUnavailable}, errs...)...))
	}

	p.logger.Warn("No holiday source available, continuing without holidays",
		zap.Int("year", year))

	res.Holidays = NewHolidaySet(year)
	res.Source = "none"
	res.Warnings = append(res.Warnings, "continuing without public holidays")

	return res, nil
}

// Refresh downloads the remote feed into the local file regardless of its presence
func (p *Provider) Refresh(ctx context.Context) error {
	for _, src := range p.sources {
		if rs, ok := src.(*RemoteSource); ok {
			return rs.Save(ctx)
		}
	}
	return apperr.Unavailable("remote feed", errors.New("no URL configured"))
}
