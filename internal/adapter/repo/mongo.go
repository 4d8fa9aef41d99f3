// Package repo holds the store-backed implementations of the domain
// repositories: MongoDB (default) and PostgreSQL jsonb documents.
package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"crowdfund/internal/domain"
)

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return oid, nil
}

func hexID(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

// toBSON orders a document for insertion: known fields first, the rest
// sorted. "_id" is dropped so the server assigns one.
func toBSON(fields map[string]any, known []string) bson.D {
	doc := make(bson.D, 0, len(fields))
	for _, k := range domain.OrderedKeys(fields, known) {
		if k == "_id" {
			continue
		}
		doc = append(doc, bson.E{Key: k, Value: fields[k]})
	}
	return doc
}

// fromBSON converts a decoded document into plain Go values: ids become hex
// strings, datetimes become time.Time and nested documents become maps.
// Documents written by older clients may hold any BSON type in any field.
func fromBSON(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Decimal128:
		return t.String()
	case bson.M:
		return fromBSON(t)
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}

// decodeAll drains cur into plain documents.
func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]map[string]any, error) {
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromBSON(d))
	}
	return out, nil
}

// MongoPinger reports whether the Mongo deployment is reachable.
type MongoPinger struct {
	Client *mongo.Client
}

func (p MongoPinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx, readpref.Primary())
}
