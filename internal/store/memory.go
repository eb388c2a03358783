package store

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"

	"car-management-api/internal/model"
)

// Memory keeps both collections in process. Used for local runs
// (DB_DRIVER=memory) and handler tests.
type Memory struct {
	mu       sync.RWMutex
	services []model.Document
	bookings []model.Document
}

// NewMemory seeds the services collection. Seed documents without an
// _id are given one.
func NewMemory(services ...model.Document) *Memory {
	m := &Memory{}
	for _, s := range services {
		d := maps.Clone(s)
		if d == nil {
			d = model.Document{}
		}
		if _, ok := d["_id"].(string); !ok {
			d["_id"] = uuid.New().String()
		}
		m.services = append(m.services, d)
	}
	return m
}

func parseUUID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return u.String(), nil
}

func (m *Memory) Services(_ context.Context) ([]model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Document, 0, len(m.services))
	for _, d := range m.services {
		out = append(out, maps.Clone(d))
	}
	return out, nil
}

func (m *Memory) Service(_ context.Context, id string) (model.Document, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.services {
		if d["_id"] == key {
			return model.Project(d), nil
		}
	}
	return nil, nil
}

func (m *Memory) BookingsByEmail(_ context.Context, email string) ([]model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []model.Document{}
	for _, d := range m.bookings {
		if e, _ := d["email"].(string); e == email {
			out = append(out, maps.Clone(d))
		}
	}
	return out, nil
}

func (m *Memory) CreateBooking(_ context.Context, doc model.Document) (*model.InsertResult, error) {
	d := withoutID(doc)
	id := uuid.New().String()
	d["_id"] = id

	m.mu.Lock()
	m.bookings = append(m.bookings, d)
	m.mu.Unlock()
	return &model.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (m *Memory) UpdateBookingStatus(_ context.Context, id, status string) (*model.UpdateResult, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	res := &model.UpdateResult{Acknowledged: true}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.bookings {
		if d["_id"] != key {
			continue
		}
		res.MatchedCount = 1
		if old, ok := d["status"].(string); !ok || old != status {
			d["status"] = status
			res.ModifiedCount = 1
		}
		break
	}
	return res, nil
}

func (m *Memory) DeleteBooking(_ context.Context, id string) (*model.DeleteResult, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	res := &model.DeleteResult{Acknowledged: true}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.bookings {
		if d["_id"] == key {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			res.DeletedCount = 1
			break
		}
	}
	return res, nil
}

func (m *Memory) Ping(context.Context) error  { return nil }
func (m *Memory) Close(context.Context) error { return nil }
