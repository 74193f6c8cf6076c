package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
)

func TestProjectsGet(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/project/PROJ" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Project{ID: "10000", Key: "PROJ", Name: "Main Project"})
	}))

	project, err := client.Projects.Get(context.Background(), "PROJ")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if project.Name != "Main Project" {
		t.Errorf("Name = %q", project.Name)
	}
}

func TestProjectsSearch(t *testing.T) {
	t.Run("query and cursor travel in the query string", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("query") != "main" || q.Get("startAt") != "25" || q.Get("maxResults") != "25" {
				t.Errorf("query = %v", q)
			}
			total := 30
			_ = json.NewEncoder(w).Encode(projectSearchResult{
				Total:  &total,
				Values: []Project{{Key: "PROJ"}},
			})
		}))

		opts := &ProjectSearchOptions{
			ListOptions: ListOptions{StartAt: 25, MaxResults: 25},
			Query:       "main",
		}
		page, err := client.Projects.Search(context.Background(), opts)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if page.StartAt != 25 || page.Total != 30 {
			t.Errorf("page = %+v", page)
		}
	})

	t.Run("upstream isLast flag is ignored", func(t *testing.T) {
		// The server claims isLast while the position math says otherwise.
		// The recomputed flag wins.
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			total := 100
			_ = json.NewEncoder(w).Encode(projectSearchResult{
				Total:  &total,
				IsLast: true,
				Values: []Project{{Key: "A"}, {Key: "B"}},
			})
		}))

		page, err := client.Projects.Search(context.Background(), &ProjectSearchOptions{
			ListOptions: ListOptions{MaxResults: 2},
		})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if page.IsLast {
			t.Error("IsLast = true, want recomputed false (2 of 100 seen)")
		}
	})
}

func TestProjectsSearchAll(t *testing.T) {
	// 52 projects with the default page size of 50 forces a second fetch.
	all := make([]Project, 52)
	for i := range all {
		all[i].ID = strconv.Itoa(10000 + i)
	}

	var fetches int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		start, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
		end := start + DefaultMaxResults
		if end > len(all) {
			end = len(all)
		}
		total := len(all)
		_ = json.NewEncoder(w).Encode(projectSearchResult{
			Total:  &total,
			Values: all[start:end],
		})
	}))

	got, err := client.Projects.SearchAll(context.Background(), "")
	if err != nil {
		t.Fatalf("SearchAll() error = %v", err)
	}
	if len(got) != 52 {
		t.Fatalf("len = %d, want 52", len(got))
	}
	if got[51].ID != "10051" {
		t.Errorf("last project = %+v", got[51])
	}
	if fetches != 2 {
		t.Errorf("fetches = %d, want 2", fetches)
	}
}
