package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func newTestClient(baseURL string, tokens oauth2.TokenSource) *Client {
	return NewClient(baseURL, 2*time.Second, tokens, zap.NewNop())
}

func TestFetchProfileParsesSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/me" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"u1","name":"Ada","email":"ada@example.com","favoriteMovie":"Inception","onboarded":true}`))
	}))
	defer server.Close()

	result := newTestClient(server.URL, nil).FetchProfile(context.Background())
	if !result.OK {
		t.Fatalf("expected success, got status=%d err=%q", result.Status, result.Err)
	}
	if result.Data.ID != "u1" || result.Data.Name != "Ada" {
		t.Fatalf("unexpected profile: %+v", result.Data)
	}
	if result.Data.GetFavoriteMovie() != "Inception" {
		t.Fatalf("expected favorite movie Inception, got %q", result.Data.GetFavoriteMovie())
	}
	if !result.Data.Onboarded {
		t.Fatalf("expected onboarded profile")
	}
}

func TestFetchProfileNullFavoriteMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"u1","name":"Ada","email":"ada@example.com","favoriteMovie":null,"onboarded":false}`))
	}))
	defer server.Close()

	result := newTestClient(server.URL, nil).FetchProfile(context.Background())
	if !result.OK {
		t.Fatalf("expected success, got %q", result.Err)
	}
	if result.Data.HasFavoriteMovie() {
		t.Fatalf("expected no favorite movie, got %q", result.Data.GetFavoriteMovie())
	}
}

func TestFailureBodyErrorFieldSurfacedVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"Fact generation failed"}`))
	}))
	defer server.Close()

	result := newTestClient(server.URL, nil).FetchFact(context.Background())
	if result.OK {
		t.Fatalf("expected failure")
	}
	if result.Status != 503 {
		t.Fatalf("expected status 503, got %d", result.Status)
	}
	if result.Err != "Fact generation failed" {
		t.Fatalf("expected verbatim error, got %q", result.Err)
	}
}

func TestFailureWithoutErrorFieldSynthesizesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	result := newTestClient(server.URL, nil).UpdateFavoriteMovie(context.Background(), "Dune")
	if result.OK {
		t.Fatalf("expected failure")
	}
	if result.Status != 422 {
		t.Fatalf("expected status 422, got %d", result.Status)
	}
	if result.Err != "Request failed with status 422" {
		t.Fatalf("unexpected synthesized message: %q", result.Err)
	}
}

func TestMalformedBodyIsGenericRegardlessOfStatus(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"success status", http.StatusOK, "definitely not json"},
		{"failure status", http.StatusInternalServerError, "<html>oops</html>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			result := newTestClient(server.URL, nil).FetchFact(context.Background())
			if result.OK {
				t.Fatalf("expected failure for malformed body")
			}
			if result.Status != tc.status {
				t.Fatalf("expected response status %d surfaced, got %d", tc.status, result.Status)
			}
			if result.Err != "Unexpected response from server" {
				t.Fatalf("expected generic message, got %q", result.Err)
			}
		})
	}
}

func TestTransportFailureIsStatusZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	result := newTestClient(server.URL, nil).FetchProfile(context.Background())
	if result.OK {
		t.Fatalf("expected failure")
	}
	if result.Status != StatusTransport {
		t.Fatalf("expected status 0 for transport failure, got %d", result.Status)
	}
	if result.Err == "" {
		t.Fatalf("expected a non-empty transport message")
	}
	if !result.Retryable() {
		t.Fatalf("transport failures must be retryable")
	}
}

func TestUpdateFavoriteMovieSendsPayloadAndAuth(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody updateMovieRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		w.Write([]byte(`{"favoriteMovie":"Dune (1984)"}`))
	}))
	defer server.Close()

	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "session-token"})
	result := newTestClient(server.URL, tokens).UpdateFavoriteMovie(context.Background(), "Dune")

	if gotMethod != http.MethodPut || gotPath != "/me/movie" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
	if gotAuth != "Bearer session-token" {
		t.Fatalf("expected bearer token header, got %q", gotAuth)
	}
	if gotBody.Movie != "Dune" {
		t.Fatalf("expected submitted title forwarded untouched, got %q", gotBody.Movie)
	}
	if !result.OK {
		t.Fatalf("expected success, got %q", result.Err)
	}
	if result.Data.FavoriteMovie != "Dune (1984)" {
		t.Fatalf("expected server-normalized title, got %q", result.Data.FavoriteMovie)
	}
}

func TestTimeoutResolvesThroughTransportPath(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		server.Close()
	}()

	result := newTestClient(server.URL, nil).FetchFact(ctx)
	if result.OK {
		t.Fatalf("expected timeout failure")
	}
	if result.Status != StatusTransport {
		t.Fatalf("expected status 0 for timeout, got %d", result.Status)
	}
}
