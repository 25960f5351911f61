package translate

import (
	"context"
	"errors"
	"log/slog"

	"polyglot/internal/language"
	"polyglot/internal/logging"
	"polyglot/internal/services"
	"polyglot/internal/services/googletranslate"
)

// MachineTranslator translates between ISO 639-1 codes.
// *googletranslate.Client satisfies it.
type MachineTranslator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Reference produces the independent reference translations used as ground
// truth, and back-translations into English.
type Reference struct {
	client MachineTranslator
	logger *slog.Logger
}

// NewReference wraps a machine translation client.
func NewReference(client MachineTranslator, logger *slog.Logger) *Reference {
	return &Reference{client: client, logger: logging.NewComponentLogger(logger, "reference")}
}

// Translate renders text from source into target.
func (r *Reference) Translate(ctx context.Context, text string, source, target language.Language) (string, error) {
	return r.call(ctx, "translate", text, source, target)
}

// TranslateBack renders text written in from into English.
func (r *Reference) TranslateBack(ctx context.Context, text string, from language.Language) (string, error) {
	return r.call(ctx, "translate back", text, from, language.English)
}

func (r *Reference) call(ctx context.Context, operation, text string, source, target language.Language) (string, error) {
	if r == nil || r.client == nil {
		return "", services.Wrap(services.ErrConfiguration, "reference", operation, "Reference translator unavailable", nil)
	}
	logging.WithContext(ctx, r.logger).Debug("requesting reference translation",
		logging.String("operation", operation),
		logging.String("source", source.Code()),
		logging.String("target", target.Code()),
	)
	out, err := r.client.Translate(ctx, text, source.Code(), target.Code())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		marker := services.ErrReferenceService
		if services.IsTimeout(err) {
			return "", services.Wrap(marker, "reference", operation, "Reference service request timed out", errors.Join(services.ErrTimeout, err))
		}
		var statusErr *googletranslate.StatusError
		if errors.As(err, &statusErr) && statusErr.Temporary() {
			return "", services.Wrap(marker, "reference", operation, "Reference service temporarily unavailable", errors.Join(services.ErrTransient, err))
		}
		return "", services.Wrap(marker, "reference", operation, "Reference service request failed", err)
	}
	return out, nil
}
