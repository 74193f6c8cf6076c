package jira

import (
	"fmt"
	"regexp"
	"time"
)

// TimeFormat is the standard Jira timestamp format.
const TimeFormat = "2006-01-02T15:04:05.000-0700"

// User represents a Jira user.
type User struct {
	AccountID    string            `json:"accountId,omitempty"` // Cloud
	Name         string            `json:"name,omitempty"`      // Server (username)
	EmailAddress string            `json:"emailAddress,omitempty"`
	DisplayName  string            `json:"displayName"`
	Active       bool              `json:"active"`
	TimeZone     string            `json:"timeZone,omitempty"`
	AvatarURLs   map[string]string `json:"avatarUrls,omitempty"`
	Self         string            `json:"self,omitempty"`
}

// ID returns the user identifier: accountId on Cloud, username on Server.
func (u *User) ID() string {
	if u.AccountID != "" {
		return u.AccountID
	}
	return u.Name
}

// Project represents a Jira project.
type Project struct {
	ID          string            `json:"id"`
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Lead        *User             `json:"lead,omitempty"`
	AvatarURLs  map[string]string `json:"avatarUrls,omitempty"`
	Self        string            `json:"self,omitempty"`
}

// IssueType represents an issue type.
type IssueType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Subtask     bool   `json:"subtask"`
	Self        string `json:"self,omitempty"`
}

// Priority represents an issue priority.
type Priority struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Self string `json:"self,omitempty"`
}

// Status represents an issue status.
type Status struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	StatusCategory StatusCategory `json:"statusCategory"`
	Self           string         `json:"self,omitempty"`
}

// StatusCategory represents a status category.
type StatusCategory struct {
	ID   int    `json:"id"`
	Key  string `json:"key"` // "new", "indeterminate", "done"
	Name string `json:"name"`
}

// Resolution represents an issue resolution.
type Resolution struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Component represents a project component.
type Component struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Version represents a project version.
type Version struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
	Released bool   `json:"released"`
}

// Issue represents a Jira issue.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self,omitempty"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the fields of an issue. Description is ADF (v3) or a
// plain string (v2); DescriptionText flattens either.
type IssueFields struct {
	Summary     string      `json:"summary"`
	Description any         `json:"description,omitempty"`
	Status      *Status     `json:"status,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
	IssueType   *IssueType  `json:"issuetype,omitempty"`
	Project     *Project    `json:"project,omitempty"`
	Assignee    *User       `json:"assignee,omitempty"`
	Reporter    *User       `json:"reporter,omitempty"`
	Creator     *User       `json:"creator,omitempty"`
	Resolution  *Resolution `json:"resolution,omitempty"`
	Labels      []string    `json:"labels,omitempty"`
	Components  []Component `json:"components,omitempty"`
	FixVersions []Version   `json:"fixVersions,omitempty"`
	Parent      *Issue      `json:"parent,omitempty"`
	Created     string      `json:"created,omitempty"`
	Updated     string      `json:"updated,omitempty"`
	DueDate     string      `json:"duedate,omitempty"`
}

// DescriptionText returns the description flattened to plain text,
// regardless of whether it arrived as an ADF document (v3) or a string (v2).
func (f *IssueFields) DescriptionText() string {
	return RichTextPlain(f.Description)
}

// CreatedTime parses and returns the Created timestamp.
func (f *IssueFields) CreatedTime() (time.Time, error) {
	return ParseTime(f.Created)
}

// UpdatedTime parses and returns the Updated timestamp.
func (f *IssueFields) UpdatedTime() (time.Time, error) {
	return ParseTime(f.Updated)
}

// Transition represents an available status transition.
type Transition struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	To        *Status `json:"to,omitempty"`
	HasScreen bool    `json:"hasScreen,omitempty"`
	IsGlobal  bool    `json:"isGlobal,omitempty"`
	IsInitial bool    `json:"isInitial,omitempty"`
}

// Comment represents an issue comment. Body is ADF (v3) or a string (v2).
type Comment struct {
	ID           string             `json:"id"`
	Self         string             `json:"self,omitempty"`
	Author       *User              `json:"author,omitempty"`
	UpdateAuthor *User              `json:"updateAuthor,omitempty"`
	Body         any                `json:"body"`
	Created      string             `json:"created,omitempty"`
	Updated      string             `json:"updated,omitempty"`
	Visibility   *CommentVisibility `json:"visibility,omitempty"`
}

// BodyText returns the comment body flattened to plain text.
func (c *Comment) BodyText() string {
	return RichTextPlain(c.Body)
}

// CommentVisibility restricts who can see a comment.
type CommentVisibility struct {
	Type  string `json:"type"`  // "group" or "role"
	Value string `json:"value"` // group or role name
}

// CreateIssueRequest is the payload for creating an issue.
type CreateIssueRequest struct {
	Fields CreateIssueFields `json:"fields"`
}

// CreateIssueFields are the fields for creating an issue.
type CreateIssueFields struct {
	Project     ProjectRef     `json:"project"`
	IssueType   IssueTypeRef   `json:"issuetype"`
	Summary     string         `json:"summary"`
	Description any            `json:"description,omitempty"` // ADF or string
	Priority    *PriorityRef   `json:"priority,omitempty"`
	Assignee    *UserRef       `json:"assignee,omitempty"`
	Labels      []string       `json:"labels,omitempty"`
	Components  []ComponentRef `json:"components,omitempty"`
	FixVersions []VersionRef   `json:"fixVersions,omitempty"`
	DueDate     string         `json:"duedate,omitempty"`
	Parent      *IssueRef      `json:"parent,omitempty"`
}

// ProjectRef references a project by key or ID.
type ProjectRef struct {
	Key string `json:"key,omitempty"`
	ID  string `json:"id,omitempty"`
}

// IssueTypeRef references an issue type by name or ID.
type IssueTypeRef struct {
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
}

// PriorityRef references a priority by name or ID.
type PriorityRef struct {
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
}

// UserRef references a user by accountId (Cloud) or name (Server).
type UserRef struct {
	AccountID string `json:"accountId,omitempty"`
	Name      string `json:"name,omitempty"`
}

// ComponentRef references a component by name or ID.
type ComponentRef struct {
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
}

// VersionRef references a version by name or ID.
type VersionRef struct {
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
}

// IssueRef references an issue by key or ID.
type IssueRef struct {
	Key string `json:"key,omitempty"`
	ID  string `json:"id,omitempty"`
}

// CreateIssueResponse is the response from creating an issue.
type CreateIssueResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// UpdateIssueRequest is the payload for updating issue fields.
type UpdateIssueRequest struct {
	Fields map[string]any `json:"fields,omitempty"`
	Update map[string]any `json:"update,omitempty"`
}

// TransitionRequest is the payload for executing a transition.
type TransitionRequest struct {
	Transition TransitionRef  `json:"transition"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// TransitionRef references a transition by ID.
type TransitionRef struct {
	ID string `json:"id"`
}

// AddCommentRequest is the payload for adding a comment.
type AddCommentRequest struct {
	Body       any                `json:"body"` // ADF or string
	Visibility *CommentVisibility `json:"visibility,omitempty"`
}

// issueKeyRegex validates issue keys such as PROJ-123.
var issueKeyRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]*-\d+$`)

// ValidateIssueKey reports whether key has the PROJECT-123 format.
func ValidateIssueKey(key string) bool {
	return issueKeyRegex.MatchString(key)
}

// ParseTime parses a Jira timestamp. Jira emits ISO 8601 with a compact
// timezone offset; a few variants occur across deployments.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	formats := []string{
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05-0700",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized jira timestamp %q", s)
}

// FormatTime formats t as a Jira timestamp.
func FormatTime(t time.Time) string {
	return t.Format(TimeFormat)
}
