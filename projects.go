package jira

import "context"

// ProjectsService exposes project lookup and search.
type ProjectsService struct {
	client *Client
}

// projectSearchResult is the raw shape of /project/search. The endpoint
// sends its own isLast flag, which is deliberately ignored: the canonical
// page recomputes it from offset, count, and total.
type projectSearchResult struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      *int      `json:"total"`
	IsLast     bool      `json:"isLast"`
	Values     []Project `json:"values"`
}

// Get retrieves a project by key or ID.
func (s *ProjectsService) Get(ctx context.Context, keyOrID string) (*Project, error) {
	var project Project
	if err := s.client.get(ctx, s.client.apiPath("/project/"+keyOrID), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ProjectSearchOptions configures project search.
type ProjectSearchOptions struct {
	ListOptions

	// Query filters projects by a literal match on name or key.
	Query string `url:"query,omitempty"`
}

// Search returns one canonical page of projects.
func (s *ProjectsService) Search(ctx context.Context, opts *ProjectSearchOptions) (*Page[Project], error) {
	var o ProjectSearchOptions
	if opts != nil {
		o = *opts
	}
	o.ListOptions = normalizeListOptions(&o.ListOptions)

	var raw projectSearchResult
	if err := s.client.get(ctx, s.client.apiPath("/project/search"), &o, &raw); err != nil {
		return nil, err
	}

	page := NewPage(raw.Values, totalOrUnknown(raw.Total), o.ListOptions)
	return &page, nil
}

// SearchAll aggregates every page of projects matching query. Pass an empty
// query to list all visible projects.
func (s *ProjectsService) SearchAll(ctx context.Context, query string) ([]Project, error) {
	return CollectAll(ctx, func(ctx context.Context, cursor ListOptions) (*Page[Project], error) {
		return s.Search(ctx, &ProjectSearchOptions{ListOptions: cursor, Query: query})
	}, nil)
}
