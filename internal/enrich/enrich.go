// Package enrich generates the AI-expanded view of an article: a full-length
// body, a short summary and its transliteration. Generation happens once per
// article id; every later consumer reads the shared cache row.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/deusflow/newspulse/internal/ratelimit"
	"github.com/deusflow/newspulse/internal/retry"
	"github.com/deusflow/newspulse/internal/storage"
)

// Cache is the shared enhanced-content store.
type Cache interface {
	Enhanced(ctx context.Context, articleID string) (storage.EnhancedContent, bool)
	SaveEnhanced(ctx context.Context, articleID string, ec storage.EnhancedContent)
}

// JSONGenerator is an AI provider that answers with machine-parseable JSON.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type Enricher struct {
	cache   Cache
	ai      JSONGenerator // nil when no API key is configured
	limiter *ratelimit.AIRateLimiter
}

func New(cache Cache, ai JSONGenerator, limiter *ratelimit.AIRateLimiter) *Enricher {
	return &Enricher{cache: cache, ai: ai, limiter: limiter}
}

const promptTemplate = `You are a senior journalist.
1. Write a comprehensive full-length news article (approx 300 words) based on: %q
2. Create a 3-sentence summary.
3. Transliterate the summary to Roman Urdu.

Return JSON:
{ "fullArticle": "...", "shortSummary": "...", "romanUrduSummary": "..." }`

type enhancedPayload struct {
	FullArticle      string `json:"fullArticle"`
	ShortSummary     string `json:"shortSummary"`
	RomanUrduSummary string `json:"romanUrduSummary"`
}

// Enrich returns enhanced content for the article, generating and caching it
// on first miss. On AI failure it degrades to the raw content so the caller
// always gets something to render and narrate.
func (e *Enricher) Enrich(ctx context.Context, articleID, content string) storage.EnhancedContent {
	if cached, ok := e.cache.Enhanced(ctx, articleID); ok {
		e.limiter.RecordCacheHit()
		return cached
	}
	e.limiter.RecordCacheMiss()

	degraded := storage.EnhancedContent{
		FullArticle:           content,
		ShortSummary:          content,
		TransliteratedSummary: "Summary unavailable.",
	}

	if e.ai == nil || !e.limiter.CanUseText() {
		return degraded
	}

	var raw string
	err := retry.WithRetry(ctx, retry.Synthesis, func() error {
		r, err := e.ai.GenerateJSON(ctx, fmt.Sprintf(promptTemplate, content))
		if err == nil {
			raw = r
		}
		return err
	})
	e.limiter.RecordText()
	if err != nil {
		log.Printf("⚠️ enhanced content generation failed for %s: %v", articleID, err)
		return degraded
	}

	var payload enhancedPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil || payload.FullArticle == "" {
		log.Printf("⚠️ enhanced content response unusable for %s: %v", articleID, err)
		return degraded
	}

	ec := storage.EnhancedContent{
		FullArticle:           payload.FullArticle,
		ShortSummary:          payload.ShortSummary,
		TransliteratedSummary: payload.RomanUrduSummary,
	}
	e.cache.SaveEnhanced(ctx, articleID, ec)
	return ec
}
