package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/liangxing/matchsite/backend/directory"
)

// DataLoaderContextKey is the key used to store dataloaders in context
type DataLoaderContextKey string

const dataLoaderKey DataLoaderContextKey = "dataloader"

var errMemberNotFound = errors.New("member not found")

// DataLoaders holds the per-request loaders.
type DataLoaders struct {
	MemberLoader *dataloader.Loader[int, *directory.Candidate]
}

func NewDataLoaders(cat *Catalog) *DataLoaders {
	return &DataLoaders{
		MemberLoader: dataloader.NewBatchedLoader(memberBatchFn(cat), dataloader.WithWait[int, *directory.Candidate](2*time.Millisecond)),
	}
}

// GetDataLoadersFromContext retrieves dataloaders from context
func GetDataLoadersFromContext(ctx context.Context) *DataLoaders {
	if dl, ok := ctx.Value(dataLoaderKey).(*DataLoaders); ok {
		return dl
	}
	return nil
}

// WithDataLoaders adds dataloaders to context
func WithDataLoaders(ctx context.Context, dl *DataLoaders) context.Context {
	return context.WithValue(ctx, dataLoaderKey, dl)
}

// memberBatchFn resolves a batch of member ids against the catalog. Results
// line up with keys; unknown ids carry errMemberNotFound.
func memberBatchFn(cat *Catalog) dataloader.BatchFunc[int, *directory.Candidate] {
	return func(ctx context.Context, keys []int) []*dataloader.Result[*directory.Candidate] {
		results := make([]*dataloader.Result[*directory.Candidate], len(keys))
		for i, id := range keys {
			if err := ctx.Err(); err != nil {
				results[i] = &dataloader.Result[*directory.Candidate]{Error: err}
				continue
			}
			m, ok := cat.Get(id)
			if !ok {
				results[i] = &dataloader.Result[*directory.Candidate]{Error: fmt.Errorf("%w: %d", errMemberNotFound, id)}
				continue
			}
			results[i] = &dataloader.Result[*directory.Candidate]{Data: &m}
		}
		return results
	}
}
