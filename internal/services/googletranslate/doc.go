// Package googletranslate is a minimal client for the Cloud Translation v2
// REST API, used as the independent reference translator.
//
// Requests send a single text with format=text and the API key as the key
// query parameter. The base URL is configurable so a compatible endpoint can
// stand in.
package googletranslate
