package jira

import "context"

// IssuesService exposes issue operations: CRUD, JQL search, transitions,
// and comments.
type IssuesService struct {
	client *Client
}

// searchResult is the raw shape of the /search endpoint. Total is a pointer
// so an omitted total can be told apart from zero.
type searchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      *int    `json:"total"`
	Issues     []Issue `json:"issues"`
}

// commentList is the raw shape of the issue comment endpoint.
type commentList struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      *int      `json:"total"`
	Comments   []Comment `json:"comments"`
}

// transitionList is the raw shape of the transitions endpoint: a bare list,
// no pagination.
type transitionList struct {
	Transitions []Transition `json:"transitions"`
}

// totalOrUnknown converts a possibly-omitted upstream total into the
// negative sentinel NewPage treats as unknown.
func totalOrUnknown(total *int) int {
	if total == nil {
		return -1
	}
	return *total
}

// Get retrieves an issue by key.
func (s *IssuesService) Get(ctx context.Context, key string) (*Issue, error) {
	if !ValidateIssueKey(key) {
		return nil, ErrIssueKeyInvalid
	}

	var issue Issue
	if err := s.client.get(ctx, s.client.apiPath("/issue/"+key), nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// Create creates a new issue.
func (s *IssuesService) Create(ctx context.Context, req *CreateIssueRequest) (*CreateIssueResponse, error) {
	var created CreateIssueResponse
	if err := s.client.post(ctx, s.client.apiPath("/issue"), req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update updates an issue's fields.
func (s *IssuesService) Update(ctx context.Context, key string, fields map[string]any) error {
	if !ValidateIssueKey(key) {
		return ErrIssueKeyInvalid
	}

	body := &UpdateIssueRequest{Fields: fields}
	return s.client.put(ctx, s.client.apiPath("/issue/"+key), body, nil)
}

// Delete deletes an issue.
func (s *IssuesService) Delete(ctx context.Context, key string) error {
	if !ValidateIssueKey(key) {
		return ErrIssueKeyInvalid
	}

	return s.client.delete(ctx, s.client.apiPath("/issue/"+key))
}

// Search runs a JQL search and returns one canonical page of issues.
func (s *IssuesService) Search(ctx context.Context, jql string, opts *ListOptions) (*Page[Issue], error) {
	if jql == "" {
		return nil, ErrJQLRequired
	}

	cursor := normalizeListOptions(opts)
	body := map[string]any{
		"jql":        jql,
		"startAt":    cursor.StartAt,
		"maxResults": cursor.MaxResults,
	}

	var raw searchResult
	if err := s.client.post(ctx, s.client.apiPath("/search"), body, &raw); err != nil {
		return nil, err
	}

	page := NewPage(raw.Issues, totalOrUnknown(raw.Total), cursor)
	return &page, nil
}

// SearchAll runs a JQL search and aggregates every page of results.
func (s *IssuesService) SearchAll(ctx context.Context, jql string, opts *ListOptions) ([]Issue, error) {
	return CollectAll(ctx, func(ctx context.Context, cursor ListOptions) (*Page[Issue], error) {
		return s.Search(ctx, jql, &cursor)
	}, opts)
}

// SearchIterator returns a lazy iterator over a JQL search.
func (s *IssuesService) SearchIterator(jql string, opts *ListOptions) *PageIterator[Issue] {
	return NewPageIterator(func(ctx context.Context, cursor ListOptions) (*Page[Issue], error) {
		return s.Search(ctx, jql, &cursor)
	}, opts)
}

// Transitions lists the transitions currently available for an issue.
func (s *IssuesService) Transitions(ctx context.Context, key string) ([]Transition, error) {
	if !ValidateIssueKey(key) {
		return nil, ErrIssueKeyInvalid
	}

	var raw transitionList
	if err := s.client.get(ctx, s.client.apiPath("/issue/"+key+"/transitions"), nil, &raw); err != nil {
		return nil, err
	}
	return raw.Transitions, nil
}

// ResolveTransition resolves nameOrID against the issue's current
// transitions, fetched fresh for every call. It matches first by exact ID,
// then by exact name (case-sensitive). No fuzzy matching.
func (s *IssuesService) ResolveTransition(ctx context.Context, key, nameOrID string) (*Transition, error) {
	transitions, err := s.Transitions(ctx, key)
	if err != nil {
		return nil, err
	}

	for i := range transitions {
		if transitions[i].ID == nameOrID {
			return &transitions[i], nil
		}
	}
	for i := range transitions {
		if transitions[i].Name == nameOrID {
			return &transitions[i], nil
		}
	}

	return nil, &LookupError{
		Kind:     "transition",
		Name:     nameOrID,
		Resource: key,
		Err:      ErrTransitionNotFound,
	}
}

// DoTransition executes a transition by its ID.
func (s *IssuesService) DoTransition(ctx context.Context, key, transitionID string) error {
	if !ValidateIssueKey(key) {
		return ErrIssueKeyInvalid
	}
	if transitionID == "" {
		return ErrTransitionIDRequired
	}

	body := &TransitionRequest{Transition: TransitionRef{ID: transitionID}}
	return s.client.post(ctx, s.client.apiPath("/issue/"+key+"/transitions"), body, nil)
}

// DoTransitionByName resolves nameOrID and executes the matched transition.
func (s *IssuesService) DoTransitionByName(ctx context.Context, key, nameOrID string) error {
	transition, err := s.ResolveTransition(ctx, key, nameOrID)
	if err != nil {
		return err
	}
	return s.DoTransition(ctx, key, transition.ID)
}

// Comments returns one canonical page of an issue's comments.
func (s *IssuesService) Comments(ctx context.Context, key string, opts *ListOptions) (*Page[Comment], error) {
	if !ValidateIssueKey(key) {
		return nil, ErrIssueKeyInvalid
	}

	cursor := normalizeListOptions(opts)

	var raw commentList
	if err := s.client.get(ctx, s.client.apiPath("/issue/"+key+"/comment"), &cursor, &raw); err != nil {
		return nil, err
	}

	page := NewPage(raw.Comments, totalOrUnknown(raw.Total), cursor)
	return &page, nil
}

// AllComments aggregates every page of an issue's comments.
func (s *IssuesService) AllComments(ctx context.Context, key string) ([]Comment, error) {
	return CollectAll(ctx, func(ctx context.Context, cursor ListOptions) (*Page[Comment], error) {
		return s.Comments(ctx, key, &cursor)
	}, nil)
}

// AddComment adds a comment to an issue. body is an ADF document (v3) or a
// plain string (v2).
func (s *IssuesService) AddComment(ctx context.Context, key string, body any) (*Comment, error) {
	if !ValidateIssueKey(key) {
		return nil, ErrIssueKeyInvalid
	}

	req := &AddCommentRequest{Body: body}
	var comment Comment
	if err := s.client.post(ctx, s.client.apiPath("/issue/"+key+"/comment"), req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment deletes a comment from an issue.
func (s *IssuesService) DeleteComment(ctx context.Context, key, commentID string) error {
	if !ValidateIssueKey(key) {
		return ErrIssueKeyInvalid
	}
	if commentID == "" {
		return ErrCommentIDRequired
	}

	return s.client.delete(ctx, s.client.apiPath("/issue/"+key+"/comment/"+commentID))
}
