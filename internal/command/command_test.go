package command

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kapu/cinefact-client-go/internal/api"
	"github.com/kapu/cinefact-client-go/internal/cache"
	"github.com/kapu/cinefact-client-go/internal/domain"
	"github.com/kapu/cinefact-client-go/internal/editor"
	"go.uber.org/zap"
)

type fakeAPI struct {
	profile     api.Result[domain.UserProfile]
	update      api.Result[api.FavoriteMovieUpdate]
	fact        api.Result[domain.MovieFact]
	factCalls   int
	updateCalls []string
}

func (f *fakeAPI) FetchProfile(_ context.Context) api.Result[domain.UserProfile] {
	return f.profile
}

func (f *fakeAPI) UpdateFavoriteMovie(_ context.Context, title string) api.Result[api.FavoriteMovieUpdate] {
	f.updateCalls = append(f.updateCalls, title)
	return f.update
}

func (f *fakeAPI) FetchFact(_ context.Context) api.Result[domain.MovieFact] {
	f.factCalls++
	return f.fact
}

type outputLog struct {
	lines  []string
	errors []string
}

func (o *outputLog) print(msg string)      { o.lines = append(o.lines, msg) }
func (o *outputLog) printError(msg string) { o.errors = append(o.errors, msg) }

func (o *outputLog) all() string {
	return strings.Join(append(append([]string{}, o.lines...), o.errors...), "\n")
}

func newTestDeps(client API) (*Dependencies, *outputLog) {
	out := &outputLog{}
	state := NewSessionState()
	factCache := cache.New(cache.Config{TTL: 30 * time.Second, Logger: zap.NewNop()})

	deps := &Dependencies{
		Client:     client,
		Cache:      factCache,
		State:      state,
		Print:      out.print,
		PrintError: out.printError,
		Logger:     zap.NewNop(),
	}
	deps.Editor = editor.New(editor.Config{
		Write:          client.UpdateFavoriteMovie,
		OnValueChanged: state.SetFavoriteMovie,
		OnStale: func(previous string) {
			key := FactCacheKey(state.UserID(), previous)
			_ = factCache.Invalidate(context.Background(), key)
		},
		Logger: zap.NewNop(),
	})
	return deps, out
}

func profileOf(movie string) api.Result[domain.UserProfile] {
	var fav *string
	if movie != "" {
		fav = &movie
	}
	return api.Ok(domain.UserProfile{
		ID:            "u1",
		Name:          "Ada",
		Email:         "ada@example.com",
		FavoriteMovie: fav,
		Onboarded:     true,
	})
}

func TestProfileCommandAppliesSnapshot(t *testing.T) {
	client := &fakeAPI{profile: profileOf("Inception")}
	deps, out := newTestDeps(client)

	cmd := NewProfileCommand(deps)
	if err := cmd.Execute(context.Background(), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !deps.State.Loaded() {
		t.Fatalf("expected state marked loaded")
	}
	if deps.State.FavoriteMovie() != "Inception" {
		t.Fatalf("expected favorite movie applied, got %q", deps.State.FavoriteMovie())
	}
	if deps.Editor.Committed() != "Inception" {
		t.Fatalf("expected editor seeded from snapshot, got %q", deps.Editor.Committed())
	}
	if !strings.Contains(out.all(), "Ada") {
		t.Fatalf("expected display name in output, got %q", out.all())
	}
}

func TestProfileCommandOffersRetryOnTransportFailure(t *testing.T) {
	client := &fakeAPI{profile: api.Fail[domain.UserProfile](0, "dial tcp: connection refused")}
	deps, out := newTestDeps(client)

	cmd := NewProfileCommand(deps)
	if err := cmd.Execute(context.Background(), nil); err != nil {
		t.Fatalf("expected failures to be rendered, not returned, got %v", err)
	}

	if !strings.Contains(out.all(), "retry") {
		t.Fatalf("expected a retry affordance, got %q", out.all())
	}
	if deps.State.Loaded() {
		t.Fatalf("failed fetch must not mark the state loaded")
	}
}

func TestMovieCommandSavesAndReports(t *testing.T) {
	client := &fakeAPI{update: api.Ok(api.FavoriteMovieUpdate{FavoriteMovie: "Dune"})}
	deps, out := newTestDeps(client)

	cmd := NewMovieCommand(deps)
	if err := cmd.Execute(context.Background(), []string{"Dune"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(client.updateCalls) != 1 || client.updateCalls[0] != "Dune" {
		t.Fatalf("expected one write with the joined title, got %v", client.updateCalls)
	}
	if deps.State.FavoriteMovie() != "Dune" {
		t.Fatalf("expected state updated, got %q", deps.State.FavoriteMovie())
	}
	if !strings.Contains(out.all(), "saved") {
		t.Fatalf("expected confirmation output, got %q", out.all())
	}
}

func TestMovieCommandKeepsDraftAfterFailureAndAllowsRetry(t *testing.T) {
	client := &fakeAPI{update: api.Fail[api.FavoriteMovieUpdate](500, "Internal server error")}
	deps, out := newTestDeps(client)
	deps.Editor.Reset("Inception")
	deps.State.SetFavoriteMovie("Inception")

	cmd := NewMovieCommand(deps)
	if err := cmd.Execute(context.Background(), []string{"Dune"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(out.all(), "Internal server error") {
		t.Fatalf("expected inline server error, got %q", out.all())
	}
	if deps.State.FavoriteMovie() != "Inception" {
		t.Fatalf("expected state reverted, got %q", deps.State.FavoriteMovie())
	}

	// Retrying reuses the kept draft path rather than failing on StartEdit.
	client.update = api.Ok(api.FavoriteMovieUpdate{FavoriteMovie: "Dune"})
	if err := cmd.Execute(context.Background(), []string{"Dune"}); err != nil {
		t.Fatalf("expected retry to work, got %v", err)
	}
	if deps.Editor.Committed() != "Dune" {
		t.Fatalf("expected retry to commit, got %q", deps.Editor.Committed())
	}
}

func TestFactCommandServesFromCacheWithinTTL(t *testing.T) {
	client := &fakeAPI{
		profile: profileOf("Inception"),
		fact: api.Ok(domain.MovieFact{
			ID:        "f1",
			Movie:     "Inception",
			Fact:      "The spinning top was never confirmed to fall.",
			CreatedAt: time.Now(),
		}),
	}
	deps, out := newTestDeps(client)
	NewProfileCommand(deps).Execute(context.Background(), nil)

	cmd := NewFactCommand(deps)
	cmd.Execute(context.Background(), nil)
	cmd.Execute(context.Background(), nil)

	if client.factCalls != 1 {
		t.Fatalf("expected the second ask served from cache, got %d fetches", client.factCalls)
	}
	if !strings.Contains(out.all(), "spinning top") {
		t.Fatalf("expected fact output, got %q", out.all())
	}
}

func TestFactCommandRequiresFavoriteMovie(t *testing.T) {
	client := &fakeAPI{}
	deps, out := newTestDeps(client)

	cmd := NewFactCommand(deps)
	if err := cmd.Execute(context.Background(), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if client.factCalls != 0 {
		t.Fatalf("expected no fetch without a favorite movie, got %d", client.factCalls)
	}
	if !strings.Contains(out.all(), "movie <title>") {
		t.Fatalf("expected a hint to set a movie, got %q", out.all())
	}
}

func TestSuccessfulSaveInvalidatesOldFactEntry(t *testing.T) {
	client := &fakeAPI{
		profile: profileOf("Inception"),
		fact: api.Ok(domain.MovieFact{
			ID: "f1", Movie: "Inception", Fact: "old fact", CreatedAt: time.Now(),
		}),
		update: api.Ok(api.FavoriteMovieUpdate{FavoriteMovie: "Dune"}),
	}
	deps, _ := newTestDeps(client)
	NewProfileCommand(deps).Execute(context.Background(), nil)
	NewFactCommand(deps).Execute(context.Background(), nil)

	if err := NewMovieCommand(deps).Execute(context.Background(), []string{"Dune"}); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}

	// The entry for the old movie is gone; a read under its key runs the
	// loader again.
	oldKey := FactCacheKey("u1", "Inception")
	loaderRan := false
	deps.Cache.Read(context.Background(), oldKey, func(_ context.Context) api.Result[domain.MovieFact] {
		loaderRan = true
		return api.Fail[domain.MovieFact](400, "No favorite movie set")
	})
	if !loaderRan {
		t.Fatalf("expected the old movie's cache entry to have been invalidated")
	}
}

func TestHistoryCommandWithoutJournal(t *testing.T) {
	deps, out := newTestDeps(&fakeAPI{})

	cmd := NewHistoryCommand(deps)
	if err := cmd.Execute(context.Background(), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out.all(), "POSTGRES_HOST") {
		t.Fatalf("expected configuration hint, got %q", out.all())
	}
}
