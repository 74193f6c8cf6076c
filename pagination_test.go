package jira

import (
	"context"
	"errors"
	"testing"
)

func TestNormalizeListOptions(t *testing.T) {
	tests := []struct {
		name string
		opts *ListOptions
		want ListOptions
	}{
		{
			name: "nil uses defaults",
			opts: nil,
			want: ListOptions{StartAt: 0, MaxResults: DefaultMaxResults},
		},
		{
			name: "zero value uses defaults",
			opts: &ListOptions{},
			want: ListOptions{StartAt: 0, MaxResults: DefaultMaxResults},
		},
		{
			name: "explicit values kept",
			opts: &ListOptions{StartAt: 100, MaxResults: 25},
			want: ListOptions{StartAt: 100, MaxResults: 25},
		},
		{
			name: "offset kept with default page size",
			opts: &ListOptions{StartAt: 50},
			want: ListOptions{StartAt: 50, MaxResults: DefaultMaxResults},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeListOptions(tt.opts); got != tt.want {
				t.Errorf("normalizeListOptions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeListOptionsIdempotent(t *testing.T) {
	first := normalizeListOptions(&ListOptions{})
	second := normalizeListOptions(&ListOptions{})
	if first != second {
		t.Errorf("normalization is not idempotent: %+v vs %+v", first, second)
	}
	if first.StartAt != 0 || first.MaxResults != 50 {
		t.Errorf("default cursor = %+v, want {0 50}", first)
	}

	// Normalizing does not mutate the caller's options.
	opts := &ListOptions{}
	_ = normalizeListOptions(opts)
	if opts.MaxResults != 0 {
		t.Errorf("caller options mutated: %+v", opts)
	}
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name      string
		items     []int
		total     int
		opts      ListOptions
		wantLast  bool
		wantTotal int
	}{
		{
			name:      "first of many",
			items:     []int{1, 2},
			total:     5,
			opts:      ListOptions{StartAt: 0, MaxResults: 2},
			wantLast:  false,
			wantTotal: 5,
		},
		{
			name:      "middle page",
			items:     []int{3, 4},
			total:     5,
			opts:      ListOptions{StartAt: 2, MaxResults: 2},
			wantLast:  false,
			wantTotal: 5,
		},
		{
			name:      "final short page",
			items:     []int{5},
			total:     5,
			opts:      ListOptions{StartAt: 4, MaxResults: 2},
			wantLast:  true,
			wantTotal: 5,
		},
		{
			name:      "exactly full final page",
			items:     []int{4, 5},
			total:     5,
			opts:      ListOptions{StartAt: 3, MaxResults: 2},
			wantLast:  true,
			wantTotal: 5,
		},
		{
			name:      "empty collection",
			items:     nil,
			total:     0,
			opts:      ListOptions{StartAt: 0, MaxResults: 50},
			wantLast:  true,
			wantTotal: 0,
		},
		{
			name:      "unknown total treats batch as complete",
			items:     []int{1, 2, 3},
			total:     -1,
			opts:      ListOptions{StartAt: 0, MaxResults: 50},
			wantLast:  true,
			wantTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(tt.items, tt.total, tt.opts)

			if page.IsLast != tt.wantLast {
				t.Errorf("IsLast = %v, want %v", page.IsLast, tt.wantLast)
			}
			if page.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", page.Total, tt.wantTotal)
			}
			if page.StartAt != tt.opts.StartAt {
				t.Errorf("StartAt = %d, want %d", page.StartAt, tt.opts.StartAt)
			}
			if page.MaxResults != tt.opts.MaxResults {
				t.Errorf("MaxResults = %d, want %d", page.MaxResults, tt.opts.MaxResults)
			}

			// The derived-field invariant always holds.
			wantInvariant := page.StartAt+len(page.Values) >= page.Total
			if page.IsLast != wantInvariant {
				t.Errorf("IsLast = %v violates invariant (StartAt=%d len=%d Total=%d)",
					page.IsLast, page.StartAt, len(page.Values), page.Total)
			}
		})
	}
}

// pagedSource fakes a paginated endpoint over a fixed item slice, recording
// each fetch's cursor.
type pagedSource struct {
	items   []int
	fetches []ListOptions
}

func (s *pagedSource) fetch(_ context.Context, opts ListOptions) (*Page[int], error) {
	s.fetches = append(s.fetches, opts)

	start := opts.StartAt
	if start > len(s.items) {
		start = len(s.items)
	}
	end := start + opts.MaxResults
	if end > len(s.items) {
		end = len(s.items)
	}

	page := NewPage(s.items[start:end], len(s.items), opts)
	return &page, nil
}

func TestCollectAll(t *testing.T) {
	t.Run("aggregates pages in order", func(t *testing.T) {
		source := &pagedSource{items: []int{1, 2, 3, 4, 5}}

		got, err := CollectAll(context.Background(), source.fetch, &ListOptions{MaxResults: 2})
		if err != nil {
			t.Fatalf("CollectAll() error = %v", err)
		}

		want := []int{1, 2, 3, 4, 5}
		if len(got) != len(want) {
			t.Fatalf("got %d items, want %d", len(got), len(want))
		}
		for i, v := range got {
			if v != want[i] {
				t.Errorf("item %d = %d, want %d", i, v, want[i])
			}
		}

		if len(source.fetches) != 3 {
			t.Errorf("got %d fetches, want 3", len(source.fetches))
		}
	})

	t.Run("advances cursor by its own page size", func(t *testing.T) {
		source := &pagedSource{items: []int{1, 2, 3, 4, 5, 6}}

		if _, err := CollectAll(context.Background(), source.fetch, &ListOptions{MaxResults: 2}); err != nil {
			t.Fatalf("CollectAll() error = %v", err)
		}

		wantStarts := []int{0, 2, 4}
		if len(source.fetches) != len(wantStarts) {
			t.Fatalf("got %d fetches, want %d", len(source.fetches), len(wantStarts))
		}
		for i, f := range source.fetches {
			if f.StartAt != wantStarts[i] {
				t.Errorf("fetch %d StartAt = %d, want %d", i, f.StartAt, wantStarts[i])
			}
			if f.MaxResults != 2 {
				t.Errorf("fetch %d MaxResults = %d, want 2", i, f.MaxResults)
			}
		}
	})

	t.Run("single last page means exactly one fetch", func(t *testing.T) {
		source := &pagedSource{items: []int{1, 2, 3}}

		got, err := CollectAll(context.Background(), source.fetch, nil)
		if err != nil {
			t.Fatalf("CollectAll() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %d items, want 3", len(got))
		}
		if len(source.fetches) != 1 {
			t.Errorf("got %d fetches, want exactly 1", len(source.fetches))
		}
	})

	t.Run("empty source", func(t *testing.T) {
		source := &pagedSource{}

		got, err := CollectAll(context.Background(), source.fetch, nil)
		if err != nil {
			t.Fatalf("CollectAll() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d items, want 0", len(got))
		}
		if len(source.fetches) != 1 {
			t.Errorf("got %d fetches, want 1", len(source.fetches))
		}
	})

	t.Run("page failure aborts with no partial result", func(t *testing.T) {
		wantErr := errors.New("boom")
		calls := 0
		fetch := func(_ context.Context, opts ListOptions) (*Page[int], error) {
			calls++
			if calls == 2 {
				return nil, wantErr
			}
			page := NewPage([]int{1, 2}, 10, opts)
			return &page, nil
		}

		got, err := CollectAll(context.Background(), fetch, &ListOptions{MaxResults: 2})
		if !errors.Is(err, wantErr) {
			t.Fatalf("got error %v, want %v", err, wantErr)
		}
		if got != nil {
			t.Errorf("got partial result %v, want nil", got)
		}
	})
}

func TestPageIterator(t *testing.T) {
	t.Run("Next walks items across pages", func(t *testing.T) {
		source := &pagedSource{items: []int{10, 20, 30}}
		iter := NewPageIterator(source.fetch, &ListOptions{MaxResults: 2})

		var got []int
		for {
			item, ok, err := iter.Next(context.Background())
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if !ok {
				break
			}
			got = append(got, item)
		}

		if len(got) != 3 || got[0] != 10 || got[1] != 20 || got[2] != 30 {
			t.Errorf("got %v, want [10 20 30]", got)
		}
		if iter.Fetched() != 3 {
			t.Errorf("Fetched() = %d, want 3", iter.Fetched())
		}
		if iter.Total() != 3 {
			t.Errorf("Total() = %d, want 3", iter.Total())
		}
	})

	t.Run("skips empty non-final pages", func(t *testing.T) {
		pages := []Page[int]{
			{Values: []int{1}, Total: 2, IsLast: false},
			{Values: nil, Total: 2, IsLast: false},
			{Values: []int{2}, Total: 2, IsLast: true},
		}
		idx := 0
		fetch := func(_ context.Context, _ ListOptions) (*Page[int], error) {
			page := pages[idx]
			idx++
			return &page, nil
		}

		got, err := NewPageIterator(fetch, nil).All(context.Background())
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if len(got) != 2 || got[0] != 1 || got[1] != 2 {
			t.Errorf("got %v, want [1 2]", got)
		}
	})

	t.Run("nil page without error ends iteration with an error", func(t *testing.T) {
		fetch := func(_ context.Context, _ ListOptions) (*Page[int], error) {
			return nil, nil
		}

		iter := NewPageIterator(fetch, nil)
		if _, _, err := iter.Next(context.Background()); err == nil {
			t.Fatal("Next() error = nil, want an error for a nil page")
		}
		if iter.Err() == nil {
			t.Error("Err() = nil, want the nil-page error recorded")
		}
	})

	t.Run("fetch error is sticky", func(t *testing.T) {
		wantErr := errors.New("fetch failed")
		fetch := func(_ context.Context, _ ListOptions) (*Page[int], error) {
			return nil, wantErr
		}

		iter := NewPageIterator(fetch, nil)
		if _, _, err := iter.Next(context.Background()); !errors.Is(err, wantErr) {
			t.Fatalf("Next() error = %v, want %v", err, wantErr)
		}
		if _, _, err := iter.Next(context.Background()); !errors.Is(err, wantErr) {
			t.Errorf("second Next() error = %v, want sticky %v", err, wantErr)
		}
		if !errors.Is(iter.Err(), wantErr) {
			t.Errorf("Err() = %v, want %v", iter.Err(), wantErr)
		}
	})

	t.Run("Take limits results", func(t *testing.T) {
		source := &pagedSource{items: []int{1, 2, 3, 4, 5}}
		iter := NewPageIterator(source.fetch, &ListOptions{MaxResults: 2})

		got, err := iter.Take(context.Background(), 3)
		if err != nil {
			t.Fatalf("Take() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %d items, want 3", len(got))
		}
	})

	t.Run("ForEach stops on callback error", func(t *testing.T) {
		source := &pagedSource{items: []int{1, 2, 3}}
		iter := NewPageIterator(source.fetch, nil)

		wantErr := errors.New("stop")
		var seen int
		err := iter.ForEach(context.Background(), func(int) error {
			seen++
			if seen == 2 {
				return wantErr
			}
			return nil
		})
		if !errors.Is(err, wantErr) {
			t.Fatalf("ForEach() error = %v, want %v", err, wantErr)
		}
		if seen != 2 {
			t.Errorf("callback ran %d times, want 2", seen)
		}
	})

	t.Run("Reset rewinds to the initial cursor", func(t *testing.T) {
		source := &pagedSource{items: []int{1, 2, 3, 4}}
		iter := NewPageIterator(source.fetch, &ListOptions{MaxResults: 2})

		if _, err := iter.All(context.Background()); err != nil {
			t.Fatalf("All() error = %v", err)
		}

		iter.Reset()
		got, err := iter.All(context.Background())
		if err != nil {
			t.Fatalf("All() after Reset error = %v", err)
		}
		if len(got) != 4 {
			t.Errorf("got %d items after Reset, want 4", len(got))
		}
		if source.fetches[len(source.fetches)-2].StartAt != 0 {
			t.Errorf("first fetch after Reset did not start at 0: %+v", source.fetches)
		}
	})
}
