package db

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when a create collides with an existing document or unique key.
	ErrAlreadyExists = errors.New("document already exists")
	// ErrPreconditionFailed is returned when a transactional check on the current document state fails.
	ErrPreconditionFailed = errors.New("document precondition failed")
)

// translate maps Firestore gRPC status codes onto the package sentinels.
func translate(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.FailedPrecondition:
		return ErrPreconditionFailed
	}
	return nil
}
