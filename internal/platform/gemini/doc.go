// Package gemini implements generation.Generator with Google's Gemini API.
//
// Prompts are rendered from an embedded template, calls are bounded by the
// configured timeout and transient failures are retried with exponential
// backoff and jitter.
package gemini
