// Package proxy fetches feed documents through a chain of relay services.
// Upstream feeds block cross-origin or datacenter clients often enough that a
// direct GET is not reliable; each relay wraps the target URL differently.
package proxy

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Relay rewrites a target URL into a request against one relay service.
type Relay func(target string) string

// DefaultRelays are tried in order. First success wins.
var DefaultRelays = []Relay{
	func(u string) string { return "https://api.allorigins.win/raw?url=" + url.QueryEscape(u) },
	func(u string) string { return "https://corsproxy.io/?" + url.QueryEscape(u) },
	func(u string) string { return "https://api.codetabs.com/v1/proxy?quest=" + url.QueryEscape(u) },
}

const attemptTimeout = 15 * time.Second

// Fetcher downloads documents through an ordered relay list. It keeps no
// state between calls: every Fetch walks the full list from the top, so a
// relay that failed once is not remembered as bad.
type Fetcher struct {
	relays []Relay
	client *http.Client
}

func NewFetcher(relays []Relay) *Fetcher {
	if len(relays) == 0 {
		relays = DefaultRelays
	}
	return &Fetcher{
		relays: relays,
		client: &http.Client{Timeout: attemptTimeout},
	}
}

// Fetch returns the body of target via the first relay that answers with a
// 2xx status inside the per-attempt timeout. Attempts run sequentially so a
// struggling relay is not hit with parallel duplicates. After the last relay
// fails the last error is returned.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	var lastErr error

	for i, relay := range f.relays {
		body, err := f.fetchOnce(ctx, relay(target))
		if err != nil {
			lastErr = err
			log.Printf("relay %d/%d failed for %s: %v", i+1, len(f.relays), target, err)
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no relays configured")
	}
	return "", fmt.Errorf("all relays failed for %s: %w", target, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, relayURL string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, relayURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
