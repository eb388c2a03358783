package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"car-management-api/internal/model"
)

// seeded is the service every backend under test starts with.
var seeded = model.Document{
	"title":      "Engine Diagnostic",
	"price":      99.0,
	"service_id": "03",
	"img":        "https://img/engine.png",
	"notes":      "not part of the projection",
}

// exercise runs the same behaviour checks against any backend.
// serviceID is the id of the seeded service, missingID a well-formed id
// that matches nothing.
func exercise(t *testing.T, st Store, serviceID, missingID string) {
	ctx := context.Background()
	email := "user-" + uuid.New().String()[:8] + "@test.com"

	t.Run("services", func(t *testing.T) {
		docs, err := st.Services(ctx)
		require.NoError(t, err)
		var found model.Document
		for _, d := range docs {
			if d["_id"] == serviceID {
				found = d
			}
		}
		require.NotNil(t, found, "seeded service not listed")
		assert.Equal(t, "not part of the projection", found["notes"])

		svc, err := st.Service(ctx, serviceID)
		require.NoError(t, err)
		assert.Equal(t, model.Document{
			"_id": serviceID, "title": "Engine Diagnostic", "price": 99.0, "service_id": "03", "img": "https://img/engine.png",
		}, svc)

		svc, err = st.Service(ctx, missingID)
		require.NoError(t, err)
		assert.Nil(t, svc)

		_, err = st.Service(ctx, "bogus")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("booking lifecycle", func(t *testing.T) {
		ins, err := st.CreateBooking(ctx, model.Document{
			"_id": "client-chosen", "email": email, "status": "pending", "car": "Volvo",
		})
		require.NoError(t, err)
		require.True(t, ins.Acknowledged)
		assert.NotEqual(t, "client-chosen", ins.InsertedID)

		_, err = st.CreateBooking(ctx, model.Document{"email": email, "status": "pending"})
		require.NoError(t, err)

		docs, err := st.BookingsByEmail(ctx, email)
		require.NoError(t, err)
		require.Len(t, docs, 2)

		up, err := st.UpdateBookingStatus(ctx, ins.InsertedID, "done")
		require.NoError(t, err)
		assert.EqualValues(t, 1, up.MatchedCount)
		assert.EqualValues(t, 1, up.ModifiedCount)

		// same value again matches but modifies nothing
		up, err = st.UpdateBookingStatus(ctx, ins.InsertedID, "done")
		require.NoError(t, err)
		assert.EqualValues(t, 1, up.MatchedCount)
		assert.EqualValues(t, 0, up.ModifiedCount)

		docs, err = st.BookingsByEmail(ctx, email)
		require.NoError(t, err)
		for _, d := range docs {
			if d["_id"] == ins.InsertedID {
				assert.Equal(t, "done", d["status"])
				assert.Equal(t, "Volvo", d["car"])
				assert.Equal(t, email, d["email"])
			}
		}

		del, err := st.DeleteBooking(ctx, ins.InsertedID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, del.DeletedCount)

		del, err = st.DeleteBooking(ctx, ins.InsertedID)
		require.NoError(t, err)
		assert.True(t, del.Acknowledged)
		assert.EqualValues(t, 0, del.DeletedCount)

		up, err = st.UpdateBookingStatus(ctx, missingID, "done")
		require.NoError(t, err)
		assert.EqualValues(t, 0, up.MatchedCount)
	})

	t.Run("invalid ids", func(t *testing.T) {
		_, err := st.UpdateBookingStatus(ctx, "bogus", "done")
		assert.ErrorIs(t, err, ErrInvalidID)
		_, err = st.DeleteBooking(ctx, "bogus")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("no bookings", func(t *testing.T) {
		docs, err := st.BookingsByEmail(ctx, "nobody-"+uuid.New().String()+"@test.com")
		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})
}

func TestMemory(t *testing.T) {
	id := uuid.New().String()
	d := model.Document{"_id": id}
	for k, v := range seeded {
		d[k] = v
	}
	exercise(t, NewMemory(d), id, uuid.New().String())
}

func TestMemorySeedAssignsIDs(t *testing.T) {
	st := NewMemory(model.Document{"title": "x"}, nil)
	docs, err := st.Services(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, d := range docs {
		_, err := uuid.Parse(d["_id"].(string))
		assert.NoError(t, err)
	}
}

func TestMongo(t *testing.T) {
	_ = godotenv.Load("../../.env")
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	db := "carManagement_test_" + uuid.New().String()[:8]

	st, err := NewMongo(ctx, uri, db, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.client.Database(db).Drop(ctx)
		_ = st.Close(ctx)
	})

	res, err := st.services.InsertOne(ctx, bson.M(seeded))
	require.NoError(t, err)
	oid := res.InsertedID.(primitive.ObjectID)

	exercise(t, st, oid.Hex(), primitive.NewObjectID().Hex())
}

func TestPostgres(t *testing.T) {
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	st := NewPostgres(pool)
	t.Cleanup(func() { _ = st.Close(ctx) })
	require.NoError(t, st.Migrate(ctx))

	id := uuid.New().String()
	_, err = pool.Exec(ctx, `INSERT INTO services (id, doc) VALUES ($1, $2)`, id, seeded)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id) })

	exercise(t, st, id, uuid.New().String())
}
