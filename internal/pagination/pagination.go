// Package pagination implements the generic ordered, paged, filtered
// retrieval layer backing every list endpoint.
package pagination

import (
	"context"
	"strconv"
	"sync"
)

// StatusSuccess/StatusError report whether both underlying queries
// succeeded. Paginate never returns an error; callers inspect Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const defaultPage = 1

// Filter is an arbitrary filter document handed to the source.
type Filter map[string]any

// Sort orders a fetch by a single field.
type Sort struct {
	Field string
	Desc  bool
}

// Query carries the bounded-fetch parameters a source must honor.
type Query struct {
	Offset   int
	Limit    int
	Sort     []Sort
	Populate bool
	Omit     []string
}

// Source abstracts a record collection with count and bounded-fetch
// primitives.
type Source[T any] interface {
	Count(ctx context.Context, filter Filter) (int64, error)
	Fetch(ctx context.Context, filter Filter, query Query) ([]T, error)
}

// Options describes a single paginate call. Page and Limit are the raw
// query-string values; absent or non-numeric values fall back to page 1
// and the configured minimum limit.
type Options struct {
	Filter   Filter
	Params   map[string]string
	Page     string
	Limit    string
	Sort     []Sort
	Populate bool
}

// Meta is the page metadata computed for a result.
type Meta struct {
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Prev  bool  `json:"prev"`
	Next  bool  `json:"next"`
}

// Page is the paginate result envelope.
type Page[T any] struct {
	Data   []T    `json:"data"`
	Meta   Meta   `json:"meta"`
	Status string `json:"status"`
}

// Paginator runs paged queries against a source.
type Paginator[T any] struct {
	source   Source[T]
	minLimit int
}

// New constructs a paginator with the configured minimum page size.
func New[T any](source Source[T], minLimit int) *Paginator[T] {
	if minLimit <= 0 {
		minLimit = 10
	}
	return &Paginator[T]{source: source, minLimit: minLimit}
}

// ExtractQuery copies only allow-listed keys from untrusted request
// parameters, so callers cannot inject arbitrary filter terms.
func ExtractQuery(params map[string]string, keys []string) Filter {
	if params == nil {
		return nil
	}
	extracted := Filter{}
	for _, key := range keys {
		if val, ok := params[key]; ok {
			extracted[key] = val
		}
	}
	return extracted
}

// Paginate executes a count and a bounded fetch concurrently and merges
// both outcomes into a Page. The two queries are awaited independently:
// a failed fetch still uses the count, and vice versa. Status is
// "success" only when both succeeded.
func (p *Paginator[T]) Paginate(ctx context.Context, opts Options, keys []string, omit []string) Page[T] {
	filter := Filter{}
	for k, v := range opts.Filter {
		filter[k] = v
	}
	for k, v := range ExtractQuery(opts.Params, keys) {
		filter[k] = v
	}

	page := parsePositive(opts.Page, defaultPage)
	limit := parsePositive(opts.Limit, p.minLimit)

	query := Query{
		Offset:   limit * (page - 1),
		Limit:    limit,
		Sort:     opts.Sort,
		Populate: opts.Populate,
		Omit:     omit,
	}

	var (
		total    int64
		data     []T
		countErr error
		fetchErr error
		wg       sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		total, countErr = p.source.Count(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		data, fetchErr = p.source.Fetch(ctx, filter, query)
	}()
	wg.Wait()

	status := StatusSuccess
	if countErr != nil || fetchErr != nil {
		status = StatusError
	}
	if countErr != nil {
		total = 0
	}
	if fetchErr != nil || data == nil {
		data = []T{}
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	return Page[T]{
		Data: data,
		Meta: Meta{
			Total: total,
			Pages: pages,
			Page:  page,
			Limit: limit,
			Prev:  page > 1,
			Next:  page < pages && pages > 0,
		},
		Status: status,
	}
}

func parsePositive(raw string, fallback int) int {
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
