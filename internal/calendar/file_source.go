package calendar

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/username/cesu-salary/internal/apperr"
	"go.uber.org/zap"
)

// FileSource reads holidays from a local iCalendar file
type FileSource struct {
	filePath string
	logger   *zap.Logger
}

// NewFileSource creates a new FileSource instance
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
	}
}

// Name returns the source label used in reports
func (fs *FileSource) Name() string {
	return "file:" + fs.filePath
}

// Holidays loads and parses the file for the given year
func (fs *FileSource) Holidays(ctx context.Context, year int) (*HolidaySet, error) {
	if fs.filePath == "" {
		return nil, apperr.Unavailable("local file", errors.New("no path configured"))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.Unavailable(fs.filePath, errors.New("file not found"))
		}
		return nil, fmt.Errorf("failed to read holiday file: %w", err)
	}

	set, skipped := ParseHolidaysDetailed(string(data), year)
	logSkipped(fs.logger, fs.Name(), skipped)

	fs.logger.Info("Holiday file loaded",
		zap.String("file", fs.filePath),
		zap.Int("year", year),
		zap.Int("holidays", set.Len()))

	return set, nil
}

func logSkipped(logger *zap.Logger, source string, skipped []error) {
	for _, err := range skipped {
		logger.Debug("Skipped holiday entry",
			zap.String("source", source),
			zap.Error(err))
	}
}
