package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	// Retries off by default; tests that exercise retry opt back in.
	return MustNew(srv.URL, append([]Option{WithRetryElapsed(0)}, opts...)...)
}

func TestGetJobs(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/workspaces/ws1/jobs" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id header")
		}
		_ = json.NewEncoder(w).Encode([]Job{{JobID: "j1", JobName: "Labeling", JobTree: "ws1/j1"}})
	}))

	jobs, err := c.GetJobs(context.Background(), "ws1")
	if err != nil {
		t.Fatalf("GetJobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].JobName != "Labeling" {
		t.Fatalf("unexpected jobs %+v", jobs)
	}
}

func TestGetMembers_IncludesInactiveParam(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("includes_inactive_members"); got != "true" {
			t.Errorf("includes_inactive_members = %q, want true", got)
		}
		_ = json.NewEncoder(w).Encode([]Member{{MemberID: "m1", UserID: "alice"}})
	}))

	members, err := c.GetMembers(context.Background(), "ws1", true)
	if err != nil {
		t.Fatalf("GetMembers: %v", err)
	}
	if len(members) != 1 || members[0].UserID != "alice" {
		t.Fatalf("unexpected members %+v", members)
	}
}

func TestGetSchedules_QueryValues(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("term_start") != "2022-03-01" || q.Get("term_end") != "2022-03-31" {
			t.Errorf("unexpected term query %v", q)
		}
		if got := q["job_id"]; len(got) != 2 {
			t.Errorf("job_id = %v, want 2 values", got)
		}
		_ = json.NewEncoder(w).Encode([]Schedule{})
	}))

	_, err := c.GetSchedules(context.Background(), "ws1", ScheduleQuery{
		TermStart: "2022-03-01",
		TermEnd:   "2022-03-31",
		JobIDs:    []string{"j1", "j2"},
	})
	if err != nil {
		t.Fatalf("GetSchedules: %v", err)
	}
}

func TestBasicAuthSent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "secret" {
			t.Errorf("basic auth = %q/%q ok=%v", user, pass, ok)
		}
		_ = json.NewEncoder(w).Encode([]WorkspaceTag{})
	}), WithLogin("alice", "secret"))

	if _, err := c.GetTags(context.Background(), "ws1"); err != nil {
		t.Fatalf("GetTags: %v", err)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode([]Job{{JobID: "j1"}})
	}))
	defer srv.Close()

	c := MustNew(srv.URL, WithRetryElapsed(5*time.Second))
	jobs, err := c.GetJobs(context.Background(), "ws1")
	if err != nil {
		t.Fatalf("GetJobs after retry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if len(jobs) != 1 {
		t.Fatalf("unexpected jobs %+v", jobs)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := MustNew(srv.URL, WithRetryElapsed(5*time.Second))
	_, err := c.GetJobs(context.Background(), "ws1")
	if err == nil {
		t.Fatal("want error on HTTP 400")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry on 4xx)", calls)
	}
}

func TestGetAccountExternalLinkageInfo_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	info, err := c.GetAccountExternalLinkageInfo(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetAccountExternalLinkageInfo: %v", err)
	}
	if info != nil {
		t.Fatalf("info = %+v, want nil for a missing account", info)
	}
}

func TestPutAccountExternalLinkageInfo(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		var got AccountExternalLinkageInfo
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if got.AnnofabAccountID() != "af-123" {
			t.Errorf("annofab account id = %q", got.AnnofabAccountID())
		}
		if got.UpdatedDatetime != "2022-03-01T00:00:00Z" {
			t.Errorf("updated_datetime = %q", got.UpdatedDatetime)
		}
		w.WriteHeader(http.StatusOK)
	}))

	err := c.PutAccountExternalLinkageInfo(context.Background(), "alice", AccountExternalLinkageInfo{
		ExternalLinkageInfo: map[string]any{
			"annofab": map[string]any{"account_id": "af-123"},
		},
		UpdatedDatetime: "2022-03-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("PutAccountExternalLinkageInfo: %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]Job{})
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.GetJobs(ctx, "ws1"); err == nil {
		t.Fatal("want error with cancelled context")
	}
}

func TestDefaultEndpoint(t *testing.T) {
	c := MustNew("")
	if c.EndpointURL() != DefaultEndpointURL {
		t.Fatalf("endpoint = %q, want %q", c.EndpointURL(), DefaultEndpointURL)
	}
}
