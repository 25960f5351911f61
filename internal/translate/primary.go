package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"polyglot/internal/language"
	"polyglot/internal/logging"
	"polyglot/internal/services"
)

const translationSuffix = "Provide only the translation without any additional comments."

// Completer issues a single chat completion. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Primary produces candidate translations with a generative model.
type Primary struct {
	model  Completer
	logger *slog.Logger
}

// NewPrimary wraps a chat completion client.
func NewPrimary(model Completer, logger *slog.Logger) *Primary {
	return &Primary{model: model, logger: logging.NewComponentLogger(logger, "translate")}
}

// Translate renders text in the target language.
func (p *Primary) Translate(ctx context.Context, text string, target language.Language) (string, error) {
	return p.complete(ctx, "translate", ForwardPrompt(text, target))
}

// TranslateToEnglish renders text written in source back into English. It is
// the fallback when the reference service cannot back-translate.
func (p *Primary) TranslateToEnglish(ctx context.Context, text string, source language.Language) (string, error) {
	return p.complete(ctx, "translate to english", BackPrompt(text, source))
}

func (p *Primary) complete(ctx context.Context, operation, prompt string) (string, error) {
	if p == nil || p.model == nil {
		return "", services.Wrap(services.ErrConfiguration, "translate", operation, "Primary translator unavailable", nil)
	}
	logger := logging.WithContext(ctx, p.logger)
	logger.Debug("requesting primary translation", logging.String("operation", operation), logging.Int("prompt_chars", len(prompt)))
	reply, err := p.model.Complete(ctx, "", prompt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if services.IsTimeout(err) {
			return "", services.Wrap(services.ErrTranslation, "translate", operation, "Generative model request timed out", errors.Join(services.ErrTimeout, err))
		}
		return "", services.Wrap(services.ErrTranslation, "translate", operation, "Generative model request failed", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", services.Wrap(services.ErrTranslation, "translate", operation, "Generative model returned no text", nil)
	}
	return reply, nil
}

// ForwardPrompt is the instruction sent for a forward translation.
func ForwardPrompt(text string, target language.Language) string {
	return fmt.Sprintf("Translate the following text to %s:\n\n%s\n\n%s", target.Name(), strings.TrimSpace(text), translationSuffix)
}

// BackPrompt is the instruction sent to translate source-language text into English.
func BackPrompt(text string, source language.Language) string {
	return fmt.Sprintf("Translate the following %s text to English:\n\n%s\n\n%s", source.Name(), strings.TrimSpace(text), translationSuffix)
}
