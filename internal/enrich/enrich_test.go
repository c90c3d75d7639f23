package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/deusflow/newspulse/internal/ratelimit"
	"github.com/deusflow/newspulse/internal/storage"
)

type fakeCache struct {
	items map[string]storage.EnhancedContent
	saves int
}

func (f *fakeCache) Enhanced(_ context.Context, id string) (storage.EnhancedContent, bool) {
	ec, ok := f.items[id]
	return ec, ok
}

func (f *fakeCache) SaveEnhanced(_ context.Context, id string, ec storage.EnhancedContent) {
	if f.items == nil {
		f.items = make(map[string]storage.EnhancedContent)
	}
	f.items[id] = ec
	f.saves++
}

type fakeJSON struct {
	out   string
	err   error
	calls int
}

func (f *fakeJSON) GenerateJSON(context.Context, string) (string, error) {
	f.calls++
	return f.out, f.err
}

func TestEnrichServesFromCache(t *testing.T) {
	ai := &fakeJSON{}
	c := &fakeCache{items: map[string]storage.EnhancedContent{
		"art-1": {FullArticle: "cached body", ShortSummary: "cached summary"},
	}}
	e := New(c, ai, ratelimit.New(0, 0, 0, 0))

	got := e.Enrich(context.Background(), "art-1", "seed")
	if got.FullArticle != "cached body" {
		t.Errorf("expected cached content, got %+v", got)
	}
	if ai.calls != 0 {
		t.Error("AI must not run on cache hit")
	}
}

func TestEnrichGeneratesAndCachesOnMiss(t *testing.T) {
	ai := &fakeJSON{out: `{"fullArticle":"long body","shortSummary":"short","romanUrduSummary":"mukhtasar"}`}
	c := &fakeCache{}
	e := New(c, ai, ratelimit.New(0, 0, 0, 0))

	got := e.Enrich(context.Background(), "art-2", "seed content")
	if got.FullArticle != "long body" || got.TransliteratedSummary != "mukhtasar" {
		t.Errorf("bad result: %+v", got)
	}
	if c.saves != 1 {
		t.Errorf("expected one cache write, got %d", c.saves)
	}
}

func TestEnrichDegradesToRawContentOnFailure(t *testing.T) {
	ai := &fakeJSON{err: errors.New("model overloaded")}
	c := &fakeCache{}
	e := New(c, ai, ratelimit.New(0, 0, 0, 0))

	got := e.Enrich(context.Background(), "art-3", "the raw content")
	if got.FullArticle != "the raw content" || got.ShortSummary != "the raw content" {
		t.Errorf("degraded result should echo the content: %+v", got)
	}
	if got.TransliteratedSummary != "Summary unavailable." {
		t.Errorf("got %q", got.TransliteratedSummary)
	}
	if c.saves != 0 {
		t.Error("degraded results must not be cached as generated content")
	}
}

func TestEnrichWithoutAIDegrades(t *testing.T) {
	e := New(&fakeCache{}, nil, ratelimit.New(0, 0, 0, 0))
	got := e.Enrich(context.Background(), "art-4", "body")
	if got.FullArticle != "body" {
		t.Errorf("got %+v", got)
	}
}
