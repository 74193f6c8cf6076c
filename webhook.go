package jira

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// WebhookEventType identifies a Jira webhook event.
type WebhookEventType string

// Webhook event types delivered by Jira.
const (
	WebhookEventIssueCreated   WebhookEventType = "jira:issue_created"
	WebhookEventIssueUpdated   WebhookEventType = "jira:issue_updated"
	WebhookEventIssueDeleted   WebhookEventType = "jira:issue_deleted"
	WebhookEventCommentCreated WebhookEventType = "comment_created"
	WebhookEventCommentUpdated WebhookEventType = "comment_updated"
	WebhookEventCommentDeleted WebhookEventType = "comment_deleted"
)

// WebhookPayload is the common Jira webhook envelope.
type WebhookPayload struct {
	Timestamp    int64            `json:"timestamp"`
	WebhookEvent WebhookEventType `json:"webhookEvent"`
	User         *User            `json:"user,omitempty"`
	Issue        *Issue           `json:"issue,omitempty"`
	Comment      *Comment         `json:"comment,omitempty"`
	Changelog    *Changelog       `json:"changelog,omitempty"`
}

// Changelog lists the field changes carried by an issue-updated event.
type Changelog struct {
	ID    string          `json:"id"`
	Items []ChangelogItem `json:"items"`
}

// ChangelogItem is a single field change.
type ChangelogItem struct {
	Field      string `json:"field"`
	FieldType  string `json:"fieldtype"`
	From       string `json:"from,omitempty"`
	FromString string `json:"fromString,omitempty"`
	To         string `json:"to,omitempty"`
	ToString   string `json:"toString,omitempty"`
}

// FieldChange returns the change for a field, or nil if that field did not
// change. Field names are matched case-insensitively.
func (c *Changelog) FieldChange(field string) *ChangelogItem {
	if c == nil {
		return nil
	}
	for i := range c.Items {
		if strings.EqualFold(c.Items[i].Field, field) {
			return &c.Items[i]
		}
	}
	return nil
}

// ParseWebhookPayload parses a webhook body.
func ParseWebhookPayload(body []byte) (*WebhookPayload, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, ErrWebhookInvalidPayload
	}
	return &payload, nil
}

// HasFieldChange reports whether the event changed the given field.
func (p *WebhookPayload) HasFieldChange(field string) bool {
	return p.Changelog.FieldChange(field) != nil
}

// IsStatusChange reports whether the event changed the issue status.
func (p *WebhookPayload) IsStatusChange() bool {
	return p.HasFieldChange("status")
}

// ValidateWebhookSignature checks an HMAC-SHA256 webhook signature. It
// accepts both the "sha256=<hex>" form and a bare hex digest.
func ValidateWebhookSignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}

	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
