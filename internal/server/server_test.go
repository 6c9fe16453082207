package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/daniloc96/github-members-state/internal/config"
	"github.com/daniloc96/github-members-state/internal/fetch"
	"github.com/daniloc96/github-members-state/internal/github"
	"github.com/daniloc96/github-members-state/internal/members"
	"github.com/daniloc96/github-members-state/internal/models"
	"github.com/daniloc96/github-members-state/internal/store"
)

type fakeFetcher struct {
	store  *store.Store
	action models.Action
	err    error
	calls  int
}

func (f *fakeFetcher) Fetch(ctx context.Context) (*models.FetchResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	state := f.store.Dispatch(f.action)
	_, failed := f.action.(models.FetchMembersError)
	return &models.FetchResult{Organization: "lemoncode", Succeeded: !failed, MemberCount: len(state.Members)}, nil
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) models.MembersState {
	t.Helper()
	var state models.MembersState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("expected state JSON, got %q: %v", rec.Body.String(), err)
	}
	return state
}

func TestHealth(t *testing.T) {
	srv := New(store.New(members.Reduce, nil), &fakeFetcher{})
	rec := do(t, srv, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGetMembersInitialState(t *testing.T) {
	srv := New(store.New(members.Reduce, nil), &fakeFetcher{})
	rec := do(t, srv, http.MethodGet, "/members", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"members":[],"serverError":null}` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRefreshDispatchesFetchOutcome(t *testing.T) {
	s := store.New(members.Reduce, nil)
	fetcher := &fakeFetcher{store: s, action: models.FetchMembersError{Message: "Server error"}}
	srv := New(s, fetcher)

	rec := do(t, srv, http.MethodPost, "/members/refresh", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp RefreshResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected refresh JSON, got %v", err)
	}
	if resp.State.ServerError == nil || *resp.State.ServerError != "Server error" {
		t.Fatalf("expected error state, got %#v", resp.State)
	}
	if resp.Result == nil || resp.Result.Succeeded {
		t.Fatalf("expected failed result, got %#v", resp.Result)
	}
}

func TestRefreshConflictWhenInProgress(t *testing.T) {
	srv := New(store.New(members.Reduce, nil), &fakeFetcher{err: fetch.ErrFetchInProgress})
	rec := do(t, srv, http.MethodPost, "/members/refresh", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestRefreshSurvivesClientDisconnect(t *testing.T) {
	s := store.New(members.Reduce, &models.MembersState{Members: []models.Member{{ID: 1}}})
	client := &github.MockClient{
		ListMembersFunc: func(ctx context.Context, org string, publicOnly bool) ([]models.Member, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return []models.Member{{ID: 1}, {ID: 2}}, nil
		},
	}
	cfg := &config.Config{GitHub: config.GitHubConfig{Organization: "lemoncode", PerPage: 100}}
	srv := New(s, fetch.NewFetcher(client, s, cfg))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/members/refresh", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	state := s.State()
	if state.ServerError != nil {
		t.Fatalf("expected no server error after client disconnect, got %q", *state.ServerError)
	}
	if len(state.Members) != 2 {
		t.Fatalf("expected refreshed members, got %#v", state.Members)
	}
}

func TestDispatchRejectsOversizedBody(t *testing.T) {
	s := store.New(members.Reduce, nil)
	srv := New(s, &fakeFetcher{})

	payload := `{"type":"FETCH_MEMBERS_ERROR","payload":"` + strings.Repeat("x", 1<<20) + `"}`
	rec := do(t, srv, http.MethodPost, "/members/actions", payload)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if s.State().HasError() {
		t.Fatalf("expected oversized action not to reach the store")
	}
}

func TestDispatchAction(t *testing.T) {
	s := store.New(members.Reduce, nil)
	srv := New(s, &fakeFetcher{})

	rec := do(t, srv, http.MethodPost, "/members/actions",
		`{"type":"FETCH_MEMBERS_SUCCESS","payload":[{"id":2,"login":"login 2","avatar_url":"avatar 2"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	state := decodeState(t, rec)
	if len(state.Members) != 1 || state.Members[0].Login != "login 2" {
		t.Fatalf("expected member login 2, got %#v", state.Members)
	}
	if !s.State().Equal(state) {
		t.Fatalf("expected store to hold the dispatched state")
	}
}

func TestDispatchUnknownActionLeavesState(t *testing.T) {
	msg := "Something went wrong"
	seed := models.MembersState{Members: []models.Member{{ID: 1, Login: "test login", AvatarURL: "avatar"}}, ServerError: &msg}
	s := store.New(members.Reduce, &seed)
	srv := New(s, &fakeFetcher{})

	rec := do(t, srv, http.MethodPost, "/members/actions", `{"type":"action type","payload":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if state := decodeState(t, rec); !state.Equal(seed) {
		t.Fatalf("expected unchanged state, got %#v", state)
	}
}

func TestDispatchRejectsMalformedAction(t *testing.T) {
	s := store.New(members.Reduce, nil)
	srv := New(s, &fakeFetcher{})

	rec := do(t, srv, http.MethodPost, "/members/actions", `{"type":"FETCH_MEMBERS_ERROR","payload":42}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if s.State().HasError() {
		t.Fatalf("expected rejected action not to reach the store")
	}
}
