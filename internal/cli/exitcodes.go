package cli

import (
	"errors"
	"strings"

	"github.com/kostich/kraftver"
	"github.com/kostich/kraftver/internal/config"
)

// Exit codes returned by the kraftver binary.
const (
	ExitSuccess         = 0  // Every map decoded
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitInvalidInput    = 20 // Input is not a map or is malformed
	ExitExtractionError = 21 // Extraction facility failed
)

var usagePatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"invalid argument",
	"required flag",
	"flag needs an argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrConfigNotFound):
		return ExitConfigError
	case errors.Is(err, kraftver.ErrExtractionFailed), errors.Is(err, kraftver.ErrExtractionIncomplete):
		return ExitExtractionError
	case kraftver.Kind(err) != 0:
		return ExitInvalidInput
	}

	msg := err.Error()
	for _, p := range usagePatterns {
		if strings.Contains(msg, p) {
			return ExitUsageError
		}
	}
	return ExitGeneralError
}
