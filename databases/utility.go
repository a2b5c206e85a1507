package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPaginate struct {
	limit int64
	page  int64
}

func newMongoPaginate(limit, page int) *mongoPaginate {
	return &mongoPaginate{
		limit: int64(limit),
		page:  int64(page),
	}
}

func (mp *mongoPaginate) getPaginatedOpts() *options.FindOptions {
	l := mp.limit
	skip := mp.page*mp.limit - mp.limit
	fOpt := options.FindOptions{Limit: &l, Skip: &skip}

	return &fOpt
}

// NewestFirst sorts by creation time, most recent first. A positive limit pages
// the result; page numbers start at 1.
func NewestFirst(limit, page int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit <= 0 {
		return opts
	}
	if page < 1 {
		page = 1
	}
	paged := newMongoPaginate(limit, page).getPaginatedOpts()
	return opts.SetLimit(*paged.Limit).SetSkip(*paged.Skip)
}

func decodeAll[T any](ctx context.Context, cursor CursorHelper) ([]T, error) {
	defer cursor.Close(ctx)
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
