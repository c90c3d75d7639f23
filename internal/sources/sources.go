// Package sources decides which feed URLs a category is read from.
package sources

import (
	"context"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Static built-in table, the last line of defense when neither the managed
// list nor the YAML override knows the category.
var builtin = map[string][]string{
	"hyderabad": {
		"https://www.thehindu.com/news/cities/Hyderabad/feeder/default.rss",
		"https://www.siasat.com/category/hyderabad/feed/",
		"https://telanganatoday.com/category/hyderabad/feed",
	},
	"telangana": {
		"https://www.thehindu.com/news/telangana/feeder/default.rss",
		"https://telanganatoday.com/feed",
		"https://news.google.com/rss/search?q=Telangana&hl=en-IN&gl=IN&ceid=IN:en",
	},
	"india": {
		"https://www.ndtv.com/news/national/feeder/default.rss",
		"https://www.thehindu.com/news/national/feeder/default.rss",
		"https://timesofindia.indiatimes.com/rssfeedstopstories.cms",
	},
	"international": {
		"https://www.ndtv.com/news/international/feeder/default.rss",
		"https://www.theguardian.com/world/rss",
		"https://feeds.bbci.co.uk/news/world/rss.xml",
	},
	"sports": {
		"https://www.thehindu.com/sport/feeder/default.rss",
		"https://www.espncricinfo.com/rss/content/story/feeds/0.xml",
	},
	"breaking": {
		"https://www.ndtv.com/india-news/feeder/default.rss",
		"https://news.google.com/rss?hl=en-IN&gl=IN&ceid=IN:en",
	},
}

// Categories lists every category the built-in table knows, in refresh
// order. Breaking runs first so the ticker always has something to show.
func Categories() []string {
	return []string{"breaking", "hyderabad", "telangana", "india", "international", "sports"}
}

// SourceStore is the managed feed list, usually backed by the shared
// database. Implementations return only active entries, in order.
type SourceStore interface {
	ActiveFeedSources(ctx context.Context, category string) ([]string, error)
}

// Resolver produces the ordered URL list for a category: managed list first,
// then a YAML override file, then the built-in table. It never fails; an
// unknown category resolves to no URLs.
type Resolver struct {
	store    SourceStore
	override map[string][]string
}

func NewResolver(store SourceStore) *Resolver {
	return &Resolver{store: store}
}

// feedsFile is the optional YAML override:
//
//	feeds:
//	  sports:
//	    - https://...
type feedsFile struct {
	Feeds map[string][]string `yaml:"feeds"`
}

// LoadOverride reads a category->URLs map from a YAML file. Missing file is
// not an error; the resolver just skips that tier.
func (r *Resolver) LoadOverride(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	var cfg feedsFile
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return err
	}
	r.override = cfg.Feeds
	return nil
}

// URLsFor returns the feed URLs for a category in fetch order.
func (r *Resolver) URLsFor(ctx context.Context, category string) []string {
	if r.store != nil {
		urls, err := r.store.ActiveFeedSources(ctx, category)
		if err != nil {
			log.Printf("managed feed list unavailable for %s, using static table: %v", category, err)
		} else if len(urls) > 0 {
			return urls
		}
	}
	if urls := r.override[category]; len(urls) > 0 {
		return urls
	}
	return builtin[category]
}
