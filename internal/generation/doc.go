// Package generation defines the Generator interface used to suggest card
// answers with an external language model. The Gemini implementation lives
// in platform/gemini; the service layer only depends on this package.
package generation
