// Package validation provides common validation utilities.
package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/anvil-calc/pkg/constants"
)

// ErrInvalidTarget is returned when a forge target is not a plain number.
var ErrInvalidTarget = errors.New("target must contain digits only")

// OutputFormats lists the supported output formats.
var OutputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatCSV,
	constants.OutputFormatJSON,
	constants.OutputFormatYAML,
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	for _, f := range OutputFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("expected output format of %s, got %s", strings.Join(OutputFormats, ", "), format)
}

// ValidateTargetText parses a forge target typed by a user. Only ASCII
// digits are accepted, matching the numeric input field of the calculator.
func ValidateTargetText(text string) (int, error) {
	if text == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTarget)
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTarget, text)
		}
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	return n, nil
}
