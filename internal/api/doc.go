// Package api exposes the flashcard services over HTTP. Handlers decode and
// validate JSON bodies, read the authenticated user from the request context
// and translate service errors into status codes.
package api
