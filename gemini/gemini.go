// Package gemini implements [datasage.Provider] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between datasage's
// domain types and the Gemini API types.
package gemini

const (
	name             = "gemini"
	defaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 8192
)
