package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"polyglot/internal/language"
	"polyglot/internal/services"
	"polyglot/internal/services/googletranslate"
)

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, _, user string) (string, error) {
	f.prompts = append(f.prompts, user)
	return f.reply, f.err
}

type fakeMachine struct {
	out   string
	err   error
	calls [][3]string
}

func (f *fakeMachine) Translate(_ context.Context, text, source, target string) (string, error) {
	f.calls = append(f.calls, [3]string{text, source, target})
	return f.out, f.err
}

func TestPrimaryTranslatePrompt(t *testing.T) {
	model := &fakeCompleter{reply: "  सूर्य पूर्व में उगता है।\n"}
	primary := NewPrimary(model, nil)

	got, err := primary.Translate(context.Background(), "The sun rises in the east.", language.Hindi)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "सूर्य पूर्व में उगता है।" {
		t.Fatalf("Translate = %q", got)
	}
	want := "Translate the following text to Hindi:\n\nThe sun rises in the east.\n\nProvide only the translation without any additional comments."
	if model.prompts[0] != want {
		t.Fatalf("prompt = %q, want %q", model.prompts[0], want)
	}
}

func TestPrimaryTranslateToEnglishPrompt(t *testing.T) {
	model := &fakeCompleter{reply: "The sun rises in the east."}
	primary := NewPrimary(model, nil)
	if _, err := primary.TranslateToEnglish(context.Background(), "சூரியன் கிழக்கில் உதிக்கிறது.", language.Tamil); err != nil {
		t.Fatalf("TranslateToEnglish: %v", err)
	}
	if !strings.HasPrefix(model.prompts[0], "Translate the following Tamil text to English:") {
		t.Fatalf("unexpected prompt %q", model.prompts[0])
	}
}

func TestPrimaryFailures(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeCompleter
	}{
		{"request error", &fakeCompleter{err: errors.New("boom")}},
		{"empty reply", &fakeCompleter{reply: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPrimary(tt.model, nil).Translate(context.Background(), "hello", language.Hindi)
			if !errors.Is(err, services.ErrTranslation) {
				t.Fatalf("expected translation error, got %v", err)
			}
		})
	}
}

func TestPrimaryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPrimary(&fakeCompleter{err: errors.New("request aborted")}, nil).Translate(ctx, "hello", language.Hindi)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReferenceCodes(t *testing.T) {
	machine := &fakeMachine{out: "ok"}
	ref := NewReference(machine, nil)
	if _, err := ref.Translate(context.Background(), "hello", language.English, language.Bengali); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if _, err := ref.TranslateBack(context.Background(), "হ্যালো", language.Bengali); err != nil {
		t.Fatalf("TranslateBack: %v", err)
	}
	want := [][3]string{{"hello", "en", "bn"}, {"হ্যালো", "bn", "en"}}
	for i, call := range machine.calls {
		if call != want[i] {
			t.Fatalf("call %d = %v, want %v", i, call, want[i])
		}
	}
}

func TestReferenceFailures(t *testing.T) {
	ref := NewReference(&fakeMachine{err: &googletranslate.StatusError{StatusCode: 503, Message: "unavailable"}}, nil)
	_, err := ref.Translate(context.Background(), "hello", language.English, language.Hindi)
	if !errors.Is(err, services.ErrReferenceService) || !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient reference error, got %v", err)
	}

	ref = NewReference(&fakeMachine{err: errors.New("invalid key")}, nil)
	_, err = ref.TranslateBack(context.Background(), "hello", language.Hindi)
	if !errors.Is(err, services.ErrReferenceService) || errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected permanent reference error, got %v", err)
	}
}

func TestNilTranslators(t *testing.T) {
	var primary *Primary
	if _, err := primary.Translate(context.Background(), "x", language.Hindi); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := NewReference(nil, nil).Translate(context.Background(), "x", language.English, language.Hindi); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTimeoutsAreTagged(t *testing.T) {
	deadline := fmt.Errorf("post chat completion: %w", context.DeadlineExceeded)

	_, err := NewPrimary(&fakeCompleter{err: deadline}, nil).Translate(context.Background(), "hello", language.Hindi)
	if !errors.Is(err, services.ErrTranslation) || !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timed out translation error, got %v", err)
	}

	_, err = NewReference(&fakeMachine{err: deadline}, nil).Translate(context.Background(), "hello", language.English, language.Tamil)
	if !errors.Is(err, services.ErrReferenceService) || !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timed out reference error, got %v", err)
	}

	_, err = NewPrimary(&fakeCompleter{err: errors.New("boom")}, nil).Translate(context.Background(), "hello", language.Hindi)
	if errors.Is(err, services.ErrTimeout) {
		t.Fatalf("plain failure should not be tagged as timeout: %v", err)
	}
}
