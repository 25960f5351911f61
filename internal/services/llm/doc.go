// Package llm provides an OpenRouter-style chat completion client.
//
// The translation stage uses Client.Complete to request plain-text
// translations and back-translations at temperature 0. Client.HealthCheck
// verifies that the configured key and model answer at all.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, empty completions and network
// timeouts with exponential backoff (base 1s, max 10s, up to 5 attempts by
// default), honouring Retry-After. Context cancellation aborts retries
// immediately.
package llm
