package repository

import "errors"

var (
	// ErrChatNotFound is returned by Join when an event has no chat to admit
	// the registrant into. The whole join is rolled back in that case.
	ErrChatNotFound = errors.New("chat not found for event")

	// ErrEventNotFound is returned by operations that require an existing
	// event row (summary updates, curriculum writes).
	ErrEventNotFound = errors.New("event not found")
)
