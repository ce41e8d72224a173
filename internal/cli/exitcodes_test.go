package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kostich/kraftver"
	"github.com/kostich/kraftver/internal/config"
)

func TestExitCodeForError(t *testing.T) {
	decodeErr := func(kind kraftver.ErrorKind) error {
		return &kraftver.DecodeError{Kind: kind, Path: "map.w3x", Reason: "test"}
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"general error", errors.New("something went wrong"), ExitGeneralError},
		{"unknown flag", errors.New("unknown flag: --foo"), ExitUsageError},
		{"missing args", errors.New("requires at least 1 arg(s), only received 0"), ExitUsageError},
		{"invalid config", fmt.Errorf("%w: concurrency", config.ErrInvalidConfig), ExitConfigError},
		{"config not found", config.ErrConfigNotFound, ExitConfigError},
		{"not recognized", decodeErr(kraftver.ErrNotRecognized), ExitInvalidInput},
		{"malformed header", decodeErr(kraftver.ErrMalformedHeader), ExitInvalidInput},
		{"no catalog", decodeErr(kraftver.ErrNoValidCatalog), ExitInvalidInput},
		{"lookup miss", decodeErr(kraftver.ErrStringLookupMiss), ExitInvalidInput},
		{"extraction failed", decodeErr(kraftver.ErrExtractionFailed), ExitExtractionError},
		{"extraction incomplete", fmt.Errorf("wrapped: %w", decodeErr(kraftver.ErrExtractionIncomplete)), ExitExtractionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}
