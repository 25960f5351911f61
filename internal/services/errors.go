package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")

	// Pipeline failure classes.
	ErrMedia            = errors.New("media error")
	ErrRecognition      = errors.New("recognition error")
	ErrNoSpeech         = errors.New("no speech recognized")
	ErrTranslation      = errors.New("translation error")
	ErrReferenceService = errors.New("reference service error")
	ErrScoring          = errors.New("scoring error")
	ErrLookup           = errors.New("language lookup error")
)

// Failure kinds recorded alongside finished jobs.
const (
	FailureNone       = ""
	FailureMedia      = "media"
	FailureLookup     = "lookup"
	FailureValidation = "validation"
	FailureCanceled   = "canceled"
	FailureFailed     = "failed"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureKind maps a job error to the short classification persisted in the
// job history.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return FailureCanceled
	case errors.Is(err, ErrLookup):
		return FailureLookup
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return FailureValidation
	case errors.Is(err, ErrMedia):
		return FailureMedia
	default:
		return FailureFailed
	}
}

// Recoverable reports whether a per-chunk recognition failure may be skipped
// without failing the whole job.
func Recoverable(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// IsTimeout reports whether err is a deadline expiry or a network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
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
