package store

import (
	"context"
	"errors"

	"car-management-api/internal/model"
)

// ErrInvalidID is returned when an identifier is not in the backend's
// format. Lookups that simply miss are not errors.
var ErrInvalidID = errors.New("invalid id")

// Store is the persistence behind the HTTP handlers. Every call is a
// single database operation.
type Store interface {
	Services(ctx context.Context) ([]model.Document, error)
	// Service returns nil, nil when nothing matches.
	Service(ctx context.Context, id string) (model.Document, error)

	BookingsByEmail(ctx context.Context, email string) ([]model.Document, error)
	CreateBooking(ctx context.Context, doc model.Document) (*model.InsertResult, error)
	UpdateBookingStatus(ctx context.Context, id, status string) (*model.UpdateResult, error)
	DeleteBooking(ctx context.Context, id string) (*model.DeleteResult, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// withoutID copies a client document, dropping any supplied identifier.
func withoutID(doc model.Document) model.Document {
	out := make(model.Document, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}
