package adapters

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

const searchTimeout = 6 * time.Second

// ddgLinkFinder scrapes the DuckDuckGo html endpoint for reference links.
// It never raises: any failure, and skip-web mode, yield an empty list.
type ddgLinkFinder struct {
	logger   outbound.LoggerPort
	fetcher  ContentFetcher
	disabled bool
}

func NewDuckDuckGoLinkFinder(logger outbound.LoggerPort, fetcher ContentFetcher, disabled bool) outbound.LinkFinderPort {
	return &ddgLinkFinder{
		logger:   logger,
		fetcher:  fetcher,
		disabled: disabled,
	}
}

func (d *ddgLinkFinder) Search(ctx context.Context, query string, maxResults int) []string {
	if d.disabled || maxResults <= 0 {
		return nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(searchCtx, "GET", "https://duckduckgo.com/html/", nil)
	if err != nil {
		d.logger.Warn("failed to build search request: " + err.Error())
		return nil
	}
	q := req.URL.Query()
	q.Set("q", query)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "Mozilla/5.0")

	body, err := d.fetcher.FetchContent(req)
	if err != nil {
		d.logger.WarnWithFields("reference search failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return nil
	}
	return ExtractResultLinks(body, maxResults)
}

// ExtractResultLinks pulls result anchors (class result__a) out of a
// DuckDuckGo html page, decoding the uddg redirect parameter.
func ExtractResultLinks(page []byte, maxResults int) []string {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil
	}
	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(links) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			if u := normalizeResultURL(attrValue(n, "href")); u != "" {
				links = append(links, u)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

func normalizeResultURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.Contains(href, "uddg=") {
		if parsed, err := url.Parse(href); err == nil {
			if target := parsed.Query().Get("uddg"); target != "" {
				href = target
			}
		}
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
