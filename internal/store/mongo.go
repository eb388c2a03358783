package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"car-management-api/internal/model"
)

const (
	servicesCollection = "services"
	bookingsCollection = "bookings"
)

var serviceProjection = func() bson.M {
	p := bson.M{}
	for _, f := range model.ServiceFields {
		p[f] = 1
	}
	return p
}()

// Mongo is the default backend: one client shared by every request.
type Mongo struct {
	client   *mongo.Client
	services *mongo.Collection
	bookings *mongo.Collection
}

// NewMongo connects with the stable v1 server API and pings once so a
// bad URI fails at startup.
func NewMongo(ctx context.Context, uri, database string, log *zap.Logger) (*Mongo, error) {
	api := options.ServerAPI(options.ServerAPIVersion1).SetStrict(true).SetDeprecationErrors(true)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(api))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Info("connected to mongo", zap.String("database", database))

	db := client.Database(database)
	return &Mongo{
		client:   client,
		services: db.Collection(servicesCollection),
		bookings: db.Collection(bookingsCollection),
	}, nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return oid, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// toDocument flattens the top-level ObjectID so every backend reports
// identifiers as strings.
func toDocument(m bson.M) model.Document {
	d := model.Document(m)
	if oid, ok := d["_id"].(primitive.ObjectID); ok {
		d["_id"] = oid.Hex()
	}
	return d
}

func (s *Mongo) findAll(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]model.Document, error) {
	cur, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, err
	}
	out := make([]model.Document, 0, len(raw))
	for _, m := range raw {
		out = append(out, toDocument(m))
	}
	return out, nil
}

func (s *Mongo) Services(ctx context.Context) ([]model.Document, error) {
	return s.findAll(ctx, s.services, bson.M{})
}

func (s *Mongo) Service(ctx context.Context, id string) (model.Document, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var m bson.M
	err = s.services.FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(serviceProjection)).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDocument(m), nil
}

func (s *Mongo) BookingsByEmail(ctx context.Context, email string) ([]model.Document, error) {
	return s.findAll(ctx, s.bookings, bson.M{"email": email})
}

func (s *Mongo) CreateBooking(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	res, err := s.bookings.InsertOne(ctx, bson.M(withoutID(doc)))
	if err != nil {
		return nil, err
	}
	out := &model.InsertResult{Acknowledged: true}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		out.InsertedID = oid.Hex()
	}
	return out, nil
}

func (s *Mongo) UpdateBookingStatus(ctx context.Context, id, status string) (*model.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	res, err := s.bookings.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return nil, err
	}
	return &model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}, nil
}

func (s *Mongo) DeleteBooking(ctx context.Context, id string) (*model.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	res, err := s.bookings.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	return &model.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (s *Mongo) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
