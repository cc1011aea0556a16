package user

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

const DefaultRole = "user"

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

// NewDocument builds the document persisted for a signup payload. Caller
// fields pass through unchanged, except role and createdAt which the
// server always sets, clobbering any caller-supplied values.
func NewDocument(payload bson.M) bson.M {
	doc := bson.M{}

	for k, v := range payload {
		doc[k] = v
	}

	doc["role"] = DefaultRole
	doc["createdAt"] = time.Now().UTC()

	return doc
}
