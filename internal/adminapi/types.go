package adminapi

import (
	"net/url"
	"strconv"
	"time"

	"github.com/elsanchez/autopost/internal/backendsync"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListOptions selects a page of a paginated resource.
type ListOptions struct {
	Page  int
	Limit int
}

func (o ListOptions) normalize() ListOptions {
	if o.Page < 1 {
		o.Page = defaultPage
	}
	if o.Limit < 1 {
		o.Limit = defaultLimit
	}
	if o.Limit > maxLimit {
		o.Limit = maxLimit
	}
	return o
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(o.Page))
	q.Set("limit", strconv.Itoa(o.Limit))
	return q
}

// Page is one page of a resource.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasNext reports whether another page follows.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// envelope is the backend's paginated response shape.
type envelope[W any] struct {
	Data       []W `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}

// toPage maps an envelope; missing pagination fields are derived from opts
// and the item count.
func toPage[W, T any](env envelope[W], opts ListOptions, convert func(W) T) Page[T] {
	items := make([]T, 0, len(env.Data))
	for _, w := range env.Data {
		items = append(items, convert(w))
	}

	p := Page[T]{
		Items:      items,
		Page:       env.Pagination.Page,
		Limit:      env.Pagination.Limit,
		Total:      env.Pagination.Total,
		TotalPages: env.Pagination.TotalPages,
	}
	if p.Page == 0 {
		p.Page = opts.Page
	}
	if p.Limit == 0 {
		p.Limit = opts.Limit
	}
	if p.Total == 0 {
		p.Total = (p.Page-1)*p.Limit + len(items)
	}
	if p.TotalPages == 0 && p.Limit > 0 {
		p.TotalPages = (p.Total + p.Limit - 1) / p.Limit
	}

	return p
}

// flexID accepts ids encoded as JSON strings or numbers.
type flexID = backendsync.FlexID

func optionalTime(s *string) *time.Time {
	t, ok := backendsync.ParseTimestamp(s)
	if !ok {
		return nil
	}
	return &t
}

func timeOrZero(s *string) time.Time {
	t, _ := backendsync.ParseTimestamp(s)
	return t
}
