package assignment

import "errors"

// Assignment documents are stored exactly as the client posts them
// (title, description, difficulty, dueDate, marks, thumbnailUrl, ...).
// OwnerField is the one field the server itself interprets: it is set at
// creation and is the sole authorization key for mutations.
const OwnerField = "creatorEmail"

var (
	ErrNotFound  = errors.New("assignment not found")
	ErrInvalidID = errors.New("invalid assignment id")
)
