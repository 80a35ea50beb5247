package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/username/cesu-salary/internal/apperr"
	"go.uber.org/zap"
)

const (
	// DefaultRemoteURL serves the French metropolitan public holidays
	DefaultRemoteURL   = "https://etalab.github.io/jours-feries-france-data/ics/jours_feries_metropole.ics"
	defaultHTTPTimeout = 30 * time.Second
	defaultRetryDelay  = time.Second
	maxFeedSize        = 4 << 20
)

// RemoteSource downloads an iCalendar feed over HTTP
type RemoteSource struct {
	url         string
	persistPath string
	httpClient  *http.Client
	attempts    int
	retryDelay  time.Duration
	logger      *zap.Logger
}

// NewRemoteSource creates a new RemoteSource instance.
// When persistPath is not empty, downloaded feeds are written there for reuse.
func NewRemoteSource(url string, timeout time.Duration, persistPath string, logger *zap.Logger) *RemoteSource {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &RemoteSource{
		url:         url,
		persistPath: persistPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		attempts:   1,
		retryDelay: defaultRetryDelay,
		logger:     logger,
	}
}

// WithRetries sets how many times a failed download is attempted.
// The wait before attempt n is n-1 times delay.
func (rs *RemoteSource) WithRetries(attempts int, delay time.Duration) *RemoteSource {
	if attempts < 1 {
		attempts = 1
	}
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	rs.attempts = attempts
	rs.retryDelay = delay
	return rs
}

// Name returns the source label used in reports
func (rs *RemoteSource) Name() string {
	return "remote:" + rs.url
}

// Holidays downloads the feed and parses it for the given year
func (rs *RemoteSource) Holidays(ctx context.Context, year int) (*HolidaySet, error) {
	body, err := rs.Download(ctx)
	if err != nil {
		return nil, err
	}

	set, skipped := ParseHolidaysDetailed(body, year)
	logSkipped(rs.logger, rs.Name(), skipped)

	return set, nil
}

// Download fetches the raw feed and persists it when configured.
// A failed write is logged, the feed is still returned.
func (rs *RemoteSource) Download(ctx context.Context) (string, error) {
	data, err := rs.fetch(ctx)
	if err != nil {
		return "", err
	}

	if rs.persistPath != "" {
		if err := rs.persist(data); err != nil {
			rs.logger.Warn("Failed to save holidays feed locally",
				zap.String("file", rs.persistPath),
				zap.Error(err))
		}
	}

	return string(data), nil
}

// Save fetches the feed and writes it to the persist path
func (rs *RemoteSource) Save(ctx context.Context) error {
	if rs.persistPath == "" {
		return apperr.InvalidInput("no local file to save the holidays feed to")
	}

	data, err := rs.fetch(ctx)
	if err != nil {
		return err
	}
	return rs.persist(data)
}

// errPermanent marks responses that another attempt will not fix
var errPermanent = errors.New("not retried")

func (rs *RemoteSource) fetch(ctx context.Context) ([]byte, error) {
	if rs.url == "" {
		return nil, apperr.Unavailable("remote feed", errors.New("no URL configured"))
	}

	rs.logger.Info("Downloading holidays feed", zap.String("url", rs.url))

	var lastErr error
	for attempt := 1; attempt <= rs.attempts; attempt++ {
		data, err := rs.fetchOnce(ctx)
		if err == nil {
			return data, nil
		}

		lastErr = err
		if errors.Is(err, errPermanent) || attempt == rs.attempts {
			break
		}

		rs.logger.Warn("Download failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", rs.attempts),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, apperr.Unavailable(rs.url, ctx.Err())
		case <-time.After(rs.retryDelay * time.Duration(attempt)):
		}
	}

	return nil, apperr.Unavailable(rs.url, lastErr)
}

// fetchOnce performs a single GET of the feed
func (rs *RemoteSource) fetchOnce(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rs.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w: %w", errPermanent, err)
	}

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("server returned status %d", resp.StatusCode)
		if resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusTooManyRequests {
			err = fmt.Errorf("%w: %w", err, errPermanent)
		}
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	rs.logger.Debug("Holidays feed received",
		zap.String("url", rs.url),
		zap.Int("bytes", len(data)))

	return data, nil
}

func (rs *RemoteSource) persist(data []byte) error {
	if dir := filepath.Dir(rs.persistPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(rs.persistPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	rs.logger.Info("Holidays feed saved", zap.String("file", rs.persistPath))
	return nil
}
