package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

// MongoStore keeps documents in a MongoDB collection. The client is owned
// by the caller; Close does not disconnect it.
type MongoStore[T any] struct {
	coll *mongo.Collection
}

// NewMongoStore wraps coll.
func NewMongoStore[T any](coll *mongo.Collection) *MongoStore[T] {
	return &MongoStore[T]{coll: coll}
}

// Insert adds docs to the collection.
func (s *MongoStore[T]) Insert(ctx context.Context, docs ...T) error {
	if len(docs) == 0 {
		return nil
	}
	batch := make([]any, len(docs))
	for i, d := range docs {
		batch[i] = d
	}
	if _, err := s.coll.InsertMany(ctx, batch); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.Wrap(errs.ErrCodeDuplicate, err, "insert into %s", s.coll.Name())
		}
		return errs.Wrap(errs.ErrCodeInternal, err, "insert into %s", s.coll.Name())
	}
	return nil
}

// Find returns the documents matching q.
func (s *MongoStore[T]) Find(ctx context.Context, q Query) ([]T, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	cur, err := s.coll.Find(ctx, q.filter())
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "query %s", s.coll.Name())
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "decode %s", s.coll.Name())
	}
	return out, nil
}

// Delete removes the documents matching q.
func (s *MongoStore[T]) Delete(ctx context.Context, q Query) (int, error) {
	if err := q.validate(); err != nil {
		return 0, err
	}
	res, err := s.coll.DeleteMany(ctx, q.filter())
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInternal, err, "delete from %s", s.coll.Name())
	}
	return int(res.DeletedCount), nil
}

// All returns every document.
func (s *MongoStore[T]) All(ctx context.Context) ([]T, error) {
	return s.Find(ctx, All())
}

// Close does nothing; the client is closed by its owner.
func (s *MongoStore[T]) Close(ctx context.Context) error { return nil }

var _ Store[struct{}] = (*MongoStore[struct{}])(nil)
