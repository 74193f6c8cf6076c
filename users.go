package jira

import "context"

// UsersService exposes user lookup and search.
type UsersService struct {
	client *Client
}

// userGetOptions carries the accountId query parameter for /user.
type userGetOptions struct {
	AccountID string `url:"accountId"`
}

// Get retrieves a user by account ID.
func (s *UsersService) Get(ctx context.Context, accountID string) (*User, error) {
	if accountID == "" {
		return nil, ErrAccountIDRequired
	}

	var user User
	opts := &userGetOptions{AccountID: accountID}
	if err := s.client.get(ctx, s.client.apiPath("/user"), opts, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Myself retrieves the user the credentials belong to.
func (s *UsersService) Myself(ctx context.Context) (*User, error) {
	var user User
	if err := s.client.get(ctx, s.client.apiPath("/myself"), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserSearchOptions configures user search.
type UserSearchOptions struct {
	ListOptions

	// Query matches against display name and email address.
	Query string `url:"query,omitempty"`
}

// Search returns one canonical page of users. The upstream endpoint returns
// a bare JSON array with no total, so the fetched batch is normalized as a
// complete single page: Total is the batch length and IsLast is true.
func (s *UsersService) Search(ctx context.Context, opts *UserSearchOptions) (*Page[User], error) {
	var o UserSearchOptions
	if opts != nil {
		o = *opts
	}
	o.ListOptions = normalizeListOptions(&o.ListOptions)

	var users []User
	if err := s.client.get(ctx, s.client.apiPath("/user/search"), &o, &users); err != nil {
		return nil, err
	}

	page := NewPage(users, -1, o.ListOptions)
	return &page, nil
}
