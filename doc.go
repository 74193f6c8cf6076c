// Package jira provides a typed client for the Jira REST API.
//
// The client exposes issues, projects, and users as resource services with
// uniform pagination and normalized errors. Every listing and search
// operation returns the same canonical Page shape, whatever pagination
// envelope the underlying endpoint uses, and every failed call surfaces as
// an *APIError carrying the status code, message list, and field-error map.
//
// # Construction
//
//	cfg := &jira.Config{
//		BaseURL: "https://your-domain.atlassian.net",
//		Auth: jira.AuthConfig{
//			Type:  jira.AuthAPIToken,
//			Email: "you@example.com",
//			Token: "your-api-token",
//		},
//	}
//
//	client, err := jira.NewClient(cfg)
//	if err != nil {
//		return err
//	}
//
//	issue, err := client.Issues.Get(ctx, "PROJ-123")
//
// ConfigFromEnv builds the same configuration from JIRA_BASE_URL,
// JIRA_EMAIL, and JIRA_API_TOKEN, loading a .env file if one is present.
// Missing required variables fail fast with a configuration error.
//
// # Pagination
//
// Listing operations take a *ListOptions cursor and return a Page. CollectAll
// and the per-service *All helpers aggregate every page sequentially:
//
//	issues, err := client.Issues.SearchAll(ctx, `project = PROJ ORDER BY created`, nil)
//
// Aggregation trusts the page source's IsLast flag and has no iteration cap.
// Offset pagination does not protect against the collection changing between
// page fetches; duplicates or gaps are possible and are not corrected.
//
// # Error handling
//
// Use errors.Is to classify failures; error shapes, not strings, carry the
// distinction between a remote rejection, a failed local lookup, and a
// misconfigured client:
//
//	if errors.Is(err, jira.ErrNotFound) {
//		// the remote resource does not exist
//	}
//	var lookupErr *jira.LookupError
//	if errors.As(err, &lookupErr) {
//		// a name-or-ID resolution found no candidate
//	}
package jira
