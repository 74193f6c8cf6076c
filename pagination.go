package jira

import (
	"context"
	"errors"
)

// DefaultMaxResults is the page size used when the caller does not supply one.
const DefaultMaxResults = 50

// ListOptions is the offset/page-size cursor accepted by every listing and
// search operation. Zero values mean "use defaults". Negative values are not
// validated here; paging behavior with negative inputs is undefined and it is
// the caller's responsibility to avoid them.
type ListOptions struct {
	// StartAt is the zero-based index of the first item to return.
	StartAt int `url:"startAt,omitempty" json:"startAt,omitempty"`

	// MaxResults is the requested page size.
	MaxResults int `url:"maxResults,omitempty" json:"maxResults,omitempty"`
}

// normalizeListOptions fills unset cursor fields with defaults. Pure: the
// same input always yields the same cursor.
func normalizeListOptions(opts *ListOptions) ListOptions {
	var o ListOptions
	if opts != nil {
		o = *opts
	}
	if o.MaxResults == 0 {
		o.MaxResults = DefaultMaxResults
	}
	return o
}

// Page is the canonical paginated response shape. Every listing and search
// operation returns it, regardless of how the upstream endpoint represents
// pagination.
type Page[T any] struct {
	Values     []T  `json:"values"`
	StartAt    int  `json:"startAt"`
	MaxResults int  `json:"maxResults"`
	Total      int  `json:"total"`
	IsLast     bool `json:"isLast"`
}

// NewPage assembles a canonical page from fetched values and the cursor that
// produced them. IsLast is always recomputed as StartAt+len(values) >= Total
// rather than trusted from upstream. A negative total means the endpoint did
// not report one; the batch is then treated as complete, with Total
// approximated as len(values).
func NewPage[T any](values []T, total int, opts ListOptions) Page[T] {
	if total < 0 {
		total = len(values)
	}
	return Page[T]{
		Values:     values,
		StartAt:    opts.StartAt,
		MaxResults: opts.MaxResults,
		Total:      total,
		IsLast:     opts.StartAt+len(values) >= total,
	}
}

// PageFetcher fetches one page of items for the given cursor. A fetcher must
// return a non-nil page whenever it returns a nil error; the iterator treats
// a nil page with no error as a fetcher bug and ends iteration with an error.
type PageFetcher[T any] func(ctx context.Context, opts ListOptions) (*Page[T], error)

// PageIterator lazily iterates over paginated results, fetching pages as
// needed. Iteration is strictly sequential: the next page is requested only
// after the previous one has been consumed, and the cursor advances by its
// own MaxResults (not the returned item count, which the server may cap).
//
// Termination relies solely on the page's IsLast flag; there is no iteration
// cap, so a fetcher that never reports a last page iterates forever.
type PageIterator[T any] struct {
	fetch   PageFetcher[T]
	opts    ListOptions
	start   ListOptions
	buffer  []T
	done    bool
	err     error
	total   int
	fetched int
}

// NewPageIterator creates an iterator over fetch, starting from the
// normalized initial cursor.
func NewPageIterator[T any](fetch PageFetcher[T], opts *ListOptions) *PageIterator[T] {
	normalized := normalizeListOptions(opts)
	return &PageIterator[T]{
		fetch: fetch,
		opts:  normalized,
		start: normalized,
		total: -1,
	}
}

// Next returns the next item. It returns (zero, false, nil) when iteration
// is complete and (zero, false, err) when a page fetch fails; a fetch error
// is sticky and ends the iteration.
func (p *PageIterator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	if p.err != nil {
		return zero, false, p.err
	}

	// Empty non-final pages are legal: keep fetching until there is an item
	// or the source reports the last page.
	for len(p.buffer) == 0 && !p.done {
		page, err := p.fetch(ctx, p.opts)
		if err != nil {
			p.err = err
			return zero, false, err
		}
		if page == nil {
			p.err = errors.New("page fetcher returned a nil page without an error")
			return zero, false, p.err
		}
		p.buffer = page.Values
		p.total = page.Total
		p.done = page.IsLast
		p.opts.StartAt += p.opts.MaxResults
	}

	if len(p.buffer) == 0 {
		return zero, false, nil
	}

	item := p.buffer[0]
	p.buffer = p.buffer[1:]
	p.fetched++

	return item, true, nil
}

// All collects every remaining item into a slice, in page order and
// within-page order. A fetch error on any page aborts the whole collection;
// no partial result is returned.
func (p *PageIterator[T]) All(ctx context.Context) ([]T, error) {
	var all []T
	for {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return all, nil
		}
		all = append(all, item)
	}
}

// Take returns up to n items from the iterator.
func (p *PageIterator[T]) Take(ctx context.Context, n int) ([]T, error) {
	var items []T
	for len(items) < n {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		items = append(items, item)
	}
	return items, nil
}

// ForEach calls fn for each item. If fn returns an error, iteration stops
// and that error is returned.
func (p *PageIterator[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(item); err != nil {
			return err
		}
	}
}

// Err returns the error that ended iteration, if any.
func (p *PageIterator[T]) Err() error {
	return p.err
}

// Total returns the total reported by the most recently fetched page, or -1
// before the first fetch.
func (p *PageIterator[T]) Total() int {
	return p.total
}

// Fetched returns the number of items returned so far.
func (p *PageIterator[T]) Fetched() int {
	return p.fetched
}

// Reset rewinds the iterator to its initial cursor, discarding buffered
// items and any recorded error.
func (p *PageIterator[T]) Reset() {
	p.opts = p.start
	p.buffer = nil
	p.done = false
	p.err = nil
	p.total = -1
	p.fetched = 0
}

// CollectAll fetches every page from fetch, starting at the normalized
// initial cursor, and concatenates the items in arrival order. Duplicates or
// gaps caused by the upstream collection changing between page fetches are
// inherent to offset pagination and are not corrected.
func CollectAll[T any](ctx context.Context, fetch PageFetcher[T], opts *ListOptions) ([]T, error) {
	return NewPageIterator(fetch, opts).All(ctx)
}
