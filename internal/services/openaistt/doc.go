// Package openaistt recognizes speech through an OpenAI-compatible
// transcription endpoint using the openai-go SDK.
package openaistt
