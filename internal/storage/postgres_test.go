package storage

import (
	"context"
	"testing"

	"github.com/deusflow/newspulse/internal/feed"
)

// With no backend configured the store is nil; every operation must behave
// as a silent miss so the pipelines can run cold.
func TestNilStoreIsAlwaysMiss(t *testing.T) {
	ctx := context.Background()
	var s *Store

	if got := s.Articles(ctx, "sports"); got != nil {
		t.Errorf("nil store returned articles: %v", got)
	}
	if _, ok := s.Translation(ctx, "art-1", "hi"); ok {
		t.Error("nil store reported a translation hit")
	}
	if _, ok := s.Enhanced(ctx, "art-1"); ok {
		t.Error("nil store reported an enhanced content hit")
	}
	if _, ok := s.Audio(ctx, "abc12", "Kore"); ok {
		t.Error("nil store reported an audio hit")
	}
	urls, err := s.ActiveFeedSources(ctx, "sports")
	if err != nil || urls != nil {
		t.Errorf("nil store feed sources: %v, %v", urls, err)
	}

	// Writes and maintenance must be no-ops, not panics.
	s.SaveArticles(ctx, "sports", []feed.Article{{ID: "art-1", Title: "x"}})
	s.SaveTranslation(ctx, "art-1", "hi", "text")
	s.SaveEnhanced(ctx, "art-1", EnhancedContent{})
	s.SaveAudio(ctx, "abc12", "Kore", "data")
	s.PurgeOlderThan(ctx, 24)
	s.DeleteCategory(ctx, "sports")
	if err := s.Close(); err != nil {
		t.Errorf("nil store close: %v", err)
	}
}
