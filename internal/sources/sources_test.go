package sources

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	urls map[string][]string
	err  error
}

func (f *fakeStore) ActiveFeedSources(_ context.Context, category string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.urls[category], nil
}

func TestURLsForPrefersManagedList(t *testing.T) {
	r := NewResolver(&fakeStore{urls: map[string][]string{
		"sports": {"https://managed.example.com/sports.rss"},
	}})

	got := r.URLsFor(context.Background(), "sports")
	if len(got) != 1 || got[0] != "https://managed.example.com/sports.rss" {
		t.Errorf("managed list should win, got %v", got)
	}
}

func TestURLsForFallsBackOnStoreError(t *testing.T) {
	r := NewResolver(&fakeStore{err: errors.New("connection refused")})

	got := r.URLsFor(context.Background(), "sports")
	if len(got) == 0 {
		t.Fatal("store failure must fall back to the static table")
	}
	if got[0] != builtin["sports"][0] {
		t.Errorf("expected static entry first, got %q", got[0])
	}
}

func TestURLsForFallsBackOnEmptyManagedList(t *testing.T) {
	r := NewResolver(&fakeStore{})
	if got := r.URLsFor(context.Background(), "india"); len(got) != len(builtin["india"]) {
		t.Errorf("empty managed list should fall back, got %v", got)
	}
}

func TestURLsForUnknownCategory(t *testing.T) {
	r := NewResolver(nil)
	if got := r.URLsFor(context.Background(), "azad-studio"); len(got) != 0 {
		t.Errorf("unknown category should resolve to no URLs, got %v", got)
	}
}
