package store

import (
	"context"
	_ "embed"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"car-management-api/internal/model"
)

//go:embed schema.sql
var schema string

// Postgres stores each record as a JSONB document next to its UUID key.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the tables if they are missing.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *Postgres) docs(ctx context.Context, q string, args ...any) ([]model.Document, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Document{}
	for rows.Next() {
		var id string
		var d model.Document
		if err := rows.Scan(&id, &d); err != nil {
			return nil, err
		}
		if d == nil {
			d = model.Document{}
		}
		d["_id"] = id
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Postgres) Services(ctx context.Context) ([]model.Document, error) {
	return s.docs(ctx, `SELECT id::text, doc FROM services`)
}

func (s *Postgres) Service(ctx context.Context, id string) (model.Document, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	var d model.Document
	err = s.pool.QueryRow(ctx,
		`SELECT doc FROM services WHERE id = $1`, key,
	).Scan(&d)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = model.Document{}
	}
	d["_id"] = key
	return model.Project(d), nil
}

func (s *Postgres) BookingsByEmail(ctx context.Context, email string) ([]model.Document, error) {
	return s.docs(ctx,
		`SELECT id::text, doc FROM bookings WHERE doc->>'email' = $1 ORDER BY created_at`, email)
}

func (s *Postgres) CreateBooking(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	id := uuid.New().String()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO bookings (id, doc) VALUES ($1, $2)`, id, withoutID(doc))
	if err != nil {
		return nil, err
	}
	return &model.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// matched and modified are counted separately so an unchanged status
// reports modifiedCount 0, like a $set of the same value.
func (s *Postgres) UpdateBookingStatus(ctx context.Context, id, status string) (*model.UpdateResult, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	res := &model.UpdateResult{Acknowledged: true}
	err = s.pool.QueryRow(ctx,
		`WITH matched AS (
		     SELECT id FROM bookings WHERE id = $1
		 ), modified AS (
		     UPDATE bookings SET doc = jsonb_set(doc, '{status}', to_jsonb($2::text), true)
		     WHERE id = $1 AND doc->>'status' IS DISTINCT FROM $2
		     RETURNING id
		 )
		 SELECT (SELECT count(*) FROM matched), (SELECT count(*) FROM modified)`,
		key, status,
	).Scan(&res.MatchedCount, &res.ModifiedCount)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Postgres) DeleteBooking(ctx context.Context, id string) (*model.DeleteResult, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, key)
	if err != nil {
		return nil, err
	}
	return &model.DeleteResult{Acknowledged: true, DeletedCount: tag.RowsAffected()}, nil
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Postgres) Close(context.Context) error {
	s.pool.Close()
	return nil
}
