package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchFirstRelayWins(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("feed body"))
	}))
	defer srv.Close()

	f := NewFetcher([]Relay{
		func(string) string { return srv.URL },
		func(string) string { t.Error("second relay should not be built after success"); return srv.URL },
	})

	body, err := f.Fetch(context.Background(), "https://example.com/rss")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "feed body" {
		t.Errorf("got body %q", body)
	}
	if hits != 1 {
		t.Errorf("expected exactly one request, got %d", hits)
	}
}

func TestFetchFallsThroughOnBadStatus(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("recovered"))
	}))
	defer good.Close()

	f := NewFetcher([]Relay{
		func(string) string { return bad.URL },
		func(string) string { return good.URL },
	})

	body, err := f.Fetch(context.Background(), "https://example.com/rss")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "recovered" {
		t.Errorf("got body %q", body)
	}
}

func TestFetchSurfacesLastErrorWhenExhausted(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer bad.Close()

	f := NewFetcher([]Relay{
		func(string) string { return bad.URL },
		func(string) string { return bad.URL },
	})

	if _, err := f.Fetch(context.Background(), "https://example.com/rss"); err == nil {
		t.Fatal("expected error after all relays failed")
	}
}
