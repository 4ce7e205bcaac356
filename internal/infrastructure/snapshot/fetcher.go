package snapshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

// Fetcher downloads a fixed page and reduces it to readable text. Results are
// cached for a TTL so concurrent chat requests do not hammer the site.
type Fetcher struct {
	url        string
	ttl        time.Duration
	httpClient *http.Client

	mu        sync.Mutex
	cached    string
	fetchedAt time.Time
}

func New(url string, ttl, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		url:        url,
		ttl:        ttl,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch returns the text snapshot of the configured page. An empty URL
// disables the fetcher without error.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	if f.url == "" {
		return "", nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cached != "" && time.Since(f.fetchedAt) < f.ttl {
		return f.cached, nil
	}

	text, err := f.download(ctx)
	if err != nil {
		return "", err
	}

	f.cached = text
	f.fetchedAt = time.Now()
	return text, nil
}

func (f *Fetcher) download(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("snapshot request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("snapshot fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("snapshot fetch: unexpected status %s", resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("snapshot parse: %w", err)
	}
	return extractReadableText(doc), nil
}

var contentTags = map[string]bool{
	"p":  true,
	"h1": true,
	"h2": true,
	"h3": true,
	"li": true,
}

// extractReadableText collects the text of content-bearing elements in
// document order. Matched elements are captured whole and not descended into
// again, so nested lists do not duplicate text.
func extractReadableText(doc *html.Node) string {
	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.Data == "script" || n.Data == "style" {
				return
			}
			if contentTags[n.Data] {
				if text := nodeText(n); text != "" {
					blocks = append(blocks, text)
				}
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return strings.Join(blocks, "\n")
}

func nodeText(n *html.Node) string {
	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(out.String()), " ")
}
