package model

// Document is a stored record surfaced verbatim, keyed by field name.
// The storage identifier lives under "_id".
type Document map[string]any

// ServiceFields are the keys a single service lookup returns, besides
// _id.
var ServiceFields = []string{"title", "price", "service_id", "img"}

// NewBooking is the typed view of a booking create body. The full body
// is still stored verbatim; this only checks the fields we rely on.
type NewBooking struct {
	Email  string `json:"email" binding:"required,email"`
	Status string `json:"status"`
}

type StatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Project keeps _id and the service fields that are present, with
// their stored values.
func Project(d Document) Document {
	out := Document{}
	for _, k := range append([]string{"_id"}, ServiceFields...) {
		if v, ok := d[k]; ok {
			out[k] = v
		}
	}
	return out
}
