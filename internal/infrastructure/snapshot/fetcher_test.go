package snapshot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const samplePage = `<!DOCTYPE html>
<html><head><title>ignored</title><style>p{color:red}</style></head>
<body>
<script>var skipped = true;</script>
<h1>Welcome</h1>
<p>First   paragraph.</p>
<ul><li>Item one</li><li>Item <b>two</b></li></ul>
<div>stray div text is skipped</div>
<h2>Section</h2>
</body></html>`

func TestFetchExtractsContentInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	fetcher := New(server.URL, time.Minute, time.Second)
	text, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	want := "Welcome\nFirst paragraph.\nItem one\nItem two\nSection"
	if text != want {
		t.Fatalf("unexpected snapshot:\n got %q\nwant %q", text, want)
	}
	if strings.Contains(text, "skipped") {
		t.Fatal("script and div text must be excluded")
	}
}

func TestFetchCachesWithinTTL(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Write([]byte("<p>cached</p>"))
	}))
	defer server.Close()

	fetcher := New(server.URL, time.Minute, time.Second)
	for i := 0; i < 3; i++ {
		if _, err := fetcher.Fetch(context.Background()); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("expected 1 upstream hit, got %d", hits.Load())
	}
}

func TestFetchRefreshesAfterTTL(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Write([]byte("<p>fresh</p>"))
	}))
	defer server.Close()

	fetcher := New(server.URL, time.Nanosecond, time.Second)
	fetcher.Fetch(context.Background())
	time.Sleep(time.Millisecond)
	fetcher.Fetch(context.Background())

	if hits.Load() != 2 {
		t.Fatalf("expected 2 upstream hits, got %d", hits.Load())
	}
}

func TestFetchUpstreamErrorFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	fetcher := New(server.URL, time.Minute, time.Second)
	if _, err := fetcher.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestFetchDisabledWithoutURL(t *testing.T) {
	fetcher := New("", time.Minute, time.Second)
	text, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty snapshot, got %q", text)
	}
}
