// Package news coordinates the acquisition pipeline: shared cache first,
// then feed sources through the relay fetcher, then static fallback content.
// Whatever happens upstream, a category request always yields articles.
package news

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/deusflow/newspulse/internal/feed"
	"github.com/deusflow/newspulse/internal/metrics"
	"github.com/deusflow/newspulse/internal/sources"
)

// StaleThreshold is how old the newest cached article may be before a
// category warrants a refresh. The boundary is inclusive: exactly this old
// is still fresh.
const StaleThreshold = 6 * time.Hour

const jsonAPIEndpoint = "https://api.rss2json.com/v1/api.json?rss_url="

// Fetcher downloads a document, normally through the relay chain.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (string, error)
}

// ArticleCache is the shared article store. Reads return newest row first;
// an unavailable backend reads as empty and writes as a no-op.
type ArticleCache interface {
	Articles(ctx context.Context, category string) []feed.Article
	SaveArticles(ctx context.Context, category string, articles []feed.Article)
}

type Orchestrator struct {
	fetcher Fetcher
	sources *sources.Resolver
	store   ArticleCache

	staleThreshold time.Duration
	now            func() time.Time

	// jsonAPI is the per-URL secondary parse path, swappable in tests.
	jsonAPI func(ctx context.Context, feedURL, category string) []feed.Article
}

func NewOrchestrator(fetcher Fetcher, resolver *sources.Resolver, store ArticleCache) *Orchestrator {
	o := &Orchestrator{
		fetcher:        fetcher,
		sources:        resolver,
		store:          store,
		staleThreshold: StaleThreshold,
		now:            time.Now,
	}
	o.jsonAPI = o.fetchViaJSONAPI
	return o
}

// SetStaleThreshold overrides the default freshness window. Non-positive
// values are ignored.
func (o *Orchestrator) SetStaleThreshold(d time.Duration) {
	if d > 0 {
		o.staleThreshold = d
	}
}

// FetchCategory returns the articles for one category. State machine:
// CheckCache -> (fresh: return) | Fetch -> (success: persist, return) |
// StaticFallback. The result is never empty; total upstream failure resolves
// to the static placeholder set, not an error.
func (o *Orchestrator) FetchCategory(ctx context.Context, category string) []feed.Article {
	start := o.now()
	defer func() {
		metrics.Global.RecordFetchTime(time.Since(start))
		metrics.Global.SetLastRun()
	}()

	// 1. Shared cache, freshness-gated.
	cached := o.store.Articles(ctx, category)
	if len(cached) > 0 && o.isFresh(cached) {
		metrics.Global.IncrementCacheHits()
		return applyCategoryLimit(cached, category)
	}
	metrics.Global.IncrementCacheMisses()

	// 2. Walk the source URLs; first non-empty parse wins. When a URL's
	// primary parse yields nothing, that same URL is retried through the
	// JSON API before moving on. The retry is scoped to the URL, not to
	// the loop.
	for _, feedURL := range o.sources.URLsFor(ctx, category) {
		metrics.Global.IncrementFeedFetches()

		var articles []feed.Article
		if document, err := o.fetcher.Fetch(ctx, feedURL); err != nil {
			metrics.Global.IncrementRelayFailures()
			log.Printf("fetch failed for %s: %v", feedURL, err)
		} else if articles = feed.Parse(document, category, "RSS Feed"); len(articles) == 0 {
			metrics.Global.IncrementParseFailures()
		}

		if len(articles) == 0 {
			articles = o.jsonAPI(ctx, feedURL, category)
		}

		if len(articles) > 0 {
			limited := applyCategoryLimit(articles, category)
			o.store.SaveArticles(ctx, category, limited)
			return limited
		}
	}

	// 3. Stale cache beats placeholders when refresh failed entirely.
	if len(cached) > 0 {
		log.Printf("refresh failed for %s, serving stale cache", category)
		return applyCategoryLimit(cached, category)
	}

	// 4. Static fallback: the reader never sees an empty category.
	metrics.Global.IncrementStaticFallbacks()
	log.Printf("all sources exhausted for %s, serving static fallback", category)
	return StaticFallback(category)
}

// isFresh reports whether the newest cached row's publish time is within the
// staleness threshold of now.
func (o *Orchestrator) isFresh(cached []feed.Article) bool {
	return o.now().Sub(cached[0].PubDate) <= o.staleThreshold
}

// fetchViaJSONAPI is the secondary parse path: the feed-to-JSON proxy
// service, queried directly (it is reachable without a relay).
func (o *Orchestrator) fetchViaJSONAPI(ctx context.Context, feedURL, category string) []feed.Article {
	reqURL := jsonAPIEndpoint + url.QueryEscape(feedURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("JSON API fetch failed for %s: %v", feedURL, err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return feed.ParseFromJSONAPI(string(body), category)
}

// highVolumeCategories get the tighter result cap.
var highVolumeCategories = map[string]bool{
	"international": true,
	"sports":        true,
	"breaking":      true,
}

func applyCategoryLimit(articles []feed.Article, category string) []feed.Article {
	limit := 10
	if highVolumeCategories[category] {
		limit = 5
	}
	if len(articles) > limit {
		return articles[:limit]
	}
	return articles
}

// tickerCategories feed the breaking-news ticker. The first is the primary
// and is fetched on its own; the rest fan out concurrently.
var tickerCategories = []string{"breaking", "hyderabad", "india"}

const tickerLimit = 20

// FetchBreakingTicker builds the merged breaking view: three categories
// flattened, deduplicated by title (last write wins), newest first, capped.
func (o *Orchestrator) FetchBreakingTicker(ctx context.Context) []feed.Article {
	results := make([][]feed.Article, len(tickerCategories))
	results[0] = o.FetchCategory(ctx, tickerCategories[0])

	var wg sync.WaitGroup
	for i := 1; i < len(tickerCategories); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Individual failures are invisible here: every category
			// resolves to content through its own fallback chain.
			results[i] = o.FetchCategory(ctx, tickerCategories[i])
		}(i)
	}
	wg.Wait()

	return mergeTicker(results)
}

func mergeTicker(results [][]feed.Article) []feed.Article {
	byTitle := make(map[string]feed.Article)
	var order []string
	for _, batch := range results {
		for _, a := range batch {
			if _, seen := byTitle[a.Title]; !seen {
				order = append(order, a.Title)
			}
			byTitle[a.Title] = a // last write wins on duplicate titles
		}
	}

	merged := make([]feed.Article, 0, len(order))
	for _, title := range order {
		merged = append(merged, byTitle[title])
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PubDate.After(merged[j].PubDate)
	})

	if len(merged) > tickerLimit {
		merged = merged[:tickerLimit]
	}
	return merged
}
