package linksource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"wikitrail/trail/internal/normalize"
)

// DefaultEndpoint is the English Wikipedia API.
const DefaultEndpoint = "https://en.wikipedia.org/w/api.php"

// MediaWiki resolves topics through the MediaWiki parse API. Links are taken
// from the paragraphs of the page's lead section, which skips navigation
// boxes, infoboxes, and reference lists.
type MediaWiki struct {
	Endpoint  string
	UserAgent string
	MaxLinks  int // 0 means unlimited
	Client    *http.Client
}

// NewMediaWiki returns a client for endpoint with the given request timeout.
func NewMediaWiki(endpoint, userAgent string, timeout time.Duration) *MediaWiki {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &MediaWiki{
		Endpoint:  endpoint,
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: timeout},
	}
}

type parseResponse struct {
	Parse *struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	} `json:"parse"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Resolve implements Source.
func (m *MediaWiki) Resolve(ctx context.Context, topic string) (Result, error) {
	q := url.Values{}
	q.Set("action", "parse")
	q.Set("page", topic)
	q.Set("redirects", "1")
	q.Set("prop", "text")
	q.Set("section", "0")
	q.Set("format", "json")
	q.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("building request: %w", err)
	}
	if m.UserAgent != "" {
		req.Header.Set("User-Agent", m.UserAgent)
	}

	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetching %q: %w", topic, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("fetching %q: unexpected status %s", topic, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("reading response for %q: %w", topic, err)
	}

	var parsed parseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if parsed.Error != nil {
		switch parsed.Error.Code {
		case "missingtitle", "invalidtitle":
			return Result{}, fmt.Errorf("%w: %s", ErrNotFound, topic)
		default:
			return Result{}, fmt.Errorf("%w: %s: %s", ErrMalformed, parsed.Error.Code, parsed.Error.Info)
		}
	}
	if parsed.Parse == nil || parsed.Parse.Title == "" {
		return Result{}, fmt.Errorf("%w: no parse result for %q", ErrMalformed, topic)
	}

	links, err := ExtractLinks(parsed.Parse.Text, m.MaxLinks)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Result{CanonicalName: parsed.Parse.Title, Links: links}, nil
}

var namespaces = map[string]bool{
	"file": true, "image": true, "category": true, "help": true, "wikipedia": true,
	"template": true, "portal": true, "special": true, "talk": true, "user": true,
	"module": true, "draft": true, "mediawiki": true, "wp": true, "wikt": true,
	"timedtext": true, "book": true,
}

// articleTitle returns the page title an href points to, or false if it
// is not a link to an article.
func articleTitle(href string) (string, bool) {
	rest, ok := strings.CutPrefix(href, "/wiki/")
	if !ok {
		return "", false
	}
	rest, _, _ = strings.Cut(rest, "#")
	if decoded, err := url.PathUnescape(rest); err == nil {
		rest = decoded
	}
	title := strings.TrimSpace(strings.ReplaceAll(rest, "_", " "))
	if title == "" {
		return "", false
	}
	if prefix, _, found := strings.Cut(title, ":"); found {
		ns := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(prefix), " talk"))
		if namespaces[ns] {
			return "", false
		}
	}
	return title, true
}

// ExtractLinks returns article titles linked from the <p> elements of an
// HTML fragment, in document order, one per normalized ID. A max <= 0 keeps
// every link.
func ExtractLinks(fragment string, max int) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	var walk func(n *html.Node, inParagraph bool) bool
	walk = func(n *html.Node, inParagraph bool) bool {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.P:
				inParagraph = true
			case atom.A:
				if inParagraph {
					if title, ok := articleTitle(attr(n, "href")); ok {
						id := normalize.ID(title)
						if !seen[id] {
							seen[id] = true
							links = append(links, title)
							if max > 0 && len(links) >= max {
								return false
							}
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c, inParagraph) {
				return false
			}
		}
		return true
	}
	walk(doc, false)
	return links, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
