package gh

import "context"

// pageInfo mirrors the cursor block every connection carries.
type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// fetchPage returns one page of nodes for the given cursor; after is nil
// on the first round.
type fetchPage[T any] func(ctx context.Context, after *string) ([]T, pageInfo, error)

// collect drives a cursor loop over fetch. limit 0 collects every page;
// a positive limit stops as soon as the accumulator reaches it, even
// mid-page, without requesting a further page. An error on any page
// discards everything accumulated so far.
func collect[T any](ctx context.Context, limit int, fetch fetchPage[T]) ([]T, error) {
	var acc []T
	var after *string

	for {
		nodes, info, err := fetch(ctx, after)
		if err != nil {
			return nil, err
		}
		acc = append(acc, nodes...)

		if limit > 0 && len(acc) >= limit {
			return acc[:limit], nil
		}
		if !info.HasNextPage {
			return acc, nil
		}
		cursor := info.EndCursor
		after = &cursor
	}
}
