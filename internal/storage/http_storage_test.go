package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPImageFetcher_Success(t *testing.T) {
	payload := []byte("raw image bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(5*time.Second, 1<<20)
	got, err := fetcher.FetchImage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Expected body returned verbatim, got %q", got)
	}
}

func TestHTTPImageFetcher_ClientErrorIsFinal(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(5*time.Second, 1<<20)
	if _, err := fetcher.FetchImage(context.Background(), server.URL); err == nil {
		t.Fatal("Expected an error for a 404 response")
	}
	if hits != 1 {
		t.Errorf("Expected a 4xx response not to be retried, got %d requests", hits)
	}
}

func TestHTTPImageFetcher_RetriesServerErrors(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("eventually fine"))
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(10*time.Second, 1<<20)
	got, err := fetcher.FetchImage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if string(got) != "eventually fine" {
		t.Errorf("Expected retried body, got %q", got)
	}
	if hits != 3 {
		t.Errorf("Expected 3 attempts, got %d", hits)
	}
}

func TestHTTPImageFetcher_SizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(5*time.Second, 50)
	_, err := fetcher.FetchImage(context.Background(), server.URL)
	if err == nil || !strings.Contains(err.Error(), "size limit") {
		t.Errorf("Expected size limit error, got %v", err)
	}
}

func TestHTTPImageFetcher_InvalidURL(t *testing.T) {
	fetcher := NewHTTPImageFetcher(time.Second, 1<<20)
	if _, err := fetcher.FetchImage(context.Background(), "://not-a-url"); err == nil {
		t.Error("Expected an error for an unparseable URL")
	}
}

func TestHTTPImageFetcher_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewHTTPImageFetcher(5*time.Second, 1<<20)
	if _, err := fetcher.FetchImage(ctx, server.URL); err == nil {
		t.Error("Expected an error with a cancelled context")
	}
}
