// Package datasage holds the domain types of the DataSage data analyst
// assistant: datasets and their exploratory analysis, prompts, completions,
// sessions and render modes.
//
// The core flow is a linear pipeline run once per user action:
//
//	input → BuildPrompt → Client.Complete → Renderers.Render
//
// Providers, renderers and surfaces live in subpackages named after the
// dependency they wrap (gemini, openai, anthropic, goldmark, chart, pdf,
// elevenlabs, gin, bubbletea).
package datasage
