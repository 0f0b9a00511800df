package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks bad caller input: missing files, empty image lists.
	// Surfaced immediately, no fallback attempted.
	ErrValidation = errors.New("validation error")
	// ErrRender marks a video creation failure after every rendering
	// strategy has been exhausted.
	ErrRender = errors.New("video creation failed")
	// ErrExternalTool marks a failed media tool invocation.
	ErrExternalTool = errors.New("external tool error")
	// ErrTimeout marks a tool invocation that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrConfiguration marks unusable construction parameters.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a missing asset store record.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
