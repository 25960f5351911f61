package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func completionHandler(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, _ *http.Request) {
		payload := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": content}},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}
}

func TestClientCompleteSendsPlainTextRequest(t *testing.T) {
	var captured chatCompletionRequest
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		completionHandler(t, "  सूर्य पूर्व में उगता है।  ")(w, r)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model", Referer: "https://example.test", Title: "polyglot"})
	got, err := client.Complete(context.Background(), "", "Translate the following text to Hindi: The sun rises in the east.")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if got != "सूर्य पूर्व में उगता है।" {
		t.Fatalf("Complete = %q", got)
	}
	if captured.Model != "demo-model" || captured.Temperature != 0 || captured.ResponseFormat != nil {
		t.Fatalf("unexpected request %+v", captured)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Fatalf("expected a single user message, got %+v", captured.Messages)
	}
	if headers.Get("Authorization") != "Bearer test" || headers.Get("X-Title") != "polyglot" || headers.Get("HTTP-Referer") != "https://example.test" {
		t.Fatalf("unexpected headers %v", headers)
	}
}

func TestClientCompleteIncludesSystemPrompt(t *testing.T) {
	var captured chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		completionHandler(t, "ok")(w, r)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	if _, err := client.Complete(context.Background(), "be brief", "hello"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[0].Content != "be brief" {
		t.Fatalf("unexpected messages %+v", captured.Messages)
	}
}

func TestClientCompleteValidation(t *testing.T) {
	client := NewClient(Config{APIKey: "test"})
	if _, err := client.Complete(context.Background(), "", "   "); err == nil {
		t.Fatal("expected error for empty user prompt")
	}
	keyless := NewClient(Config{})
	if _, err := keyless.Complete(context.Background(), "", "hello"); err == nil || !strings.Contains(err.Error(), "api key") {
		t.Fatalf("expected api key error, got %v", err)
	}
}

func TestClientHealthCheck(t *testing.T) {
	for _, content := range []string{`{"ok":true}`, "```json\n{\"ok\":true}\n```"} {
		server := httptest.NewServer(completionHandler(t, content))
		client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
		if err := client.HealthCheck(context.Background()); err != nil {
			t.Fatalf("HealthCheck(%q) returned error: %v", content, err)
		}
		server.Close()
	}
}

func TestClientHealthCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check to fail")
	}
}

func TestClientRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("busy"))
			return
		}
		completionHandler(t, "done")(w, r)
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := NewClient(Config{APIKey: "test", BaseURL: server.URL},
		WithRetryBackoff(100*time.Millisecond, time.Second),
		WithSleeper(func(d time.Duration) { sleeps = append(sleeps, d) }),
	)
	got, err := client.Complete(context.Background(), "", "hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "done" || calls.Load() != 3 {
		t.Fatalf("got %q after %d calls", got, calls.Load())
	}
	if len(sleeps) != 2 || sleeps[0] != 100*time.Millisecond || sleeps[1] != 200*time.Millisecond {
		t.Fatalf("unexpected backoff sleeps %v", sleeps)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL}, WithSleeper(func(time.Duration) {}))
	if _, err := client.Complete(context.Background(), "", "hello"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestClientRetriesEmptyContentThenGivesUp(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		completionHandler(t, "")(w, r)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL},
		WithRetryMaxAttempts(3),
		WithSleeper(func(time.Duration) {}),
	)
	_, err := client.Complete(context.Background(), "", "hello")
	if err == nil || !strings.Contains(err.Error(), "failed after 3 attempts") {
		t.Fatalf("expected exhausted retries, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestClientStopsOnCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(Config{APIKey: "test", BaseURL: server.URL},
		WithSleeper(func(time.Duration) { cancel() }),
	)
	if _, err := client.Complete(ctx, "", "hello"); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBackoffDelayCaps(t *testing.T) {
	client := NewClient(Config{}, WithRetryBackoff(time.Second, 5*time.Second))
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for i, w := range want {
		if got := client.backoffDelay(i + 1); got != w {
			t.Errorf("backoffDelay(%d) = %s, want %s", i+1, got, w)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d, ok := parseRetryAfter("3"); !ok || d != 3*time.Second {
		t.Fatalf("parseRetryAfter(3) = %s, %v", d, ok)
	}
	if _, ok := parseRetryAfter("-1"); ok {
		t.Fatal("expected negative seconds rejected")
	}
	if _, ok := parseRetryAfter("soon"); ok {
		t.Fatal("expected garbage rejected")
	}
}
