package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	total    int64
	countErr error
	rows     []string
	fetchErr error

	gotFilter Filter
	gotQuery  Query
}

func (s *stubSource) Count(_ context.Context, filter Filter) (int64, error) {
	return s.total, s.countErr
}

func (s *stubSource) Fetch(_ context.Context, filter Filter, query Query) ([]string, error) {
	s.gotFilter = filter
	s.gotQuery = query
	return s.rows, s.fetchErr
}

func TestPaginateSuccess(t *testing.T) {
	src := &stubSource{total: 25, rows: []string{"a", "b", "c"}}
	p := New[string](src, 10)

	page := p.Paginate(context.Background(), Options{Page: "2", Limit: "3"}, nil, nil)

	require.Equal(t, StatusSuccess, page.Status)
	assert.Equal(t, []string{"a", "b", "c"}, page.Data)
	assert.Equal(t, int64(25), page.Meta.Total)
	assert.Equal(t, 9, page.Meta.Pages) // ceil(25/3)
	assert.Equal(t, 2, page.Meta.Page)
	assert.Equal(t, 3, page.Meta.Limit)
	assert.True(t, page.Meta.Prev)
	assert.True(t, page.Meta.Next)
	assert.Equal(t, 3, src.gotQuery.Offset)
	assert.Equal(t, 3, src.gotQuery.Limit)
}

func TestPaginateDefaultsOnNonNumericInput(t *testing.T) {
	src := &stubSource{total: 5, rows: []string{"x"}}
	p := New[string](src, 10)

	page := p.Paginate(context.Background(), Options{Page: "abc", Limit: ""}, nil, nil)

	assert.Equal(t, 1, page.Meta.Page)
	assert.Equal(t, 10, page.Meta.Limit)
	assert.Equal(t, 0, src.gotQuery.Offset)
}

func TestPaginateFetchFailureDegradesToEmptyData(t *testing.T) {
	src := &stubSource{total: 42, fetchErr: errors.New("boom")}
	p := New[string](src, 10)

	page := p.Paginate(context.Background(), Options{}, nil, nil)

	assert.Equal(t, StatusError, page.Status)
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)
	// the succeeded count is still used
	assert.Equal(t, int64(42), page.Meta.Total)
	assert.Equal(t, 5, page.Meta.Pages)
}

func TestPaginateCountFailureStillReturnsData(t *testing.T) {
	src := &stubSource{rows: []string{"a", "b"}, countErr: errors.New("boom")}
	p := New[string](src, 10)

	page := p.Paginate(context.Background(), Options{}, nil, nil)

	assert.Equal(t, StatusError, page.Status)
	assert.Equal(t, []string{"a", "b"}, page.Data)
	assert.Equal(t, int64(0), page.Meta.Total)
	assert.Equal(t, 0, page.Meta.Pages)
	assert.False(t, page.Meta.Next)
}

func TestPaginateZeroTotal(t *testing.T) {
	src := &stubSource{total: 0, rows: []string{}}
	p := New[string](src, 10)

	page := p.Paginate(context.Background(), Options{Page: "2"}, nil, nil)

	require.Equal(t, StatusSuccess, page.Status)
	assert.Equal(t, 0, page.Meta.Pages)
	// next is forced false by pages==0; prev only checks page>1
	assert.False(t, page.Meta.Next)
	assert.True(t, page.Meta.Prev)
}

func TestPaginateMergesAllowListedParamsOnly(t *testing.T) {
	src := &stubSource{total: 1, rows: []string{"a"}}
	p := New[string](src, 10)

	opts := Options{
		Filter: Filter{"user": "u-1"},
		Params: map[string]string{
			"status": "CLOSED",
			"role":   "ADMIN",
		},
	}
	p.Paginate(context.Background(), opts, []string{"status"}, nil)

	assert.Equal(t, "u-1", src.gotFilter["user"])
	assert.Equal(t, "CLOSED", src.gotFilter["status"])
	_, injected := src.gotFilter["role"]
	assert.False(t, injected)
}

func TestExtractQuery(t *testing.T) {
	assert.Nil(t, ExtractQuery(nil, []string{"a"}))

	extracted := ExtractQuery(map[string]string{"a": "1", "b": "2"}, []string{"a", "c"})
	assert.Equal(t, Filter{"a": "1"}, extracted)
}
