// Copyright 2025 solenecodes
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the
// Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package fetch

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/solenecodes/web-search-agent/internal/api"
	"github.com/solenecodes/web-search-agent/internal/http"
)

const (
	DefaultMaxChars = 10000

	pageTimeout   = 15 * time.Second
	maxConcurrent = 10
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// strippedTags are removed wholesale before text extraction,
// their content never carries page substance.
var strippedTags = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"footer": true,
	"header": true,
	"aside":  true,
	"iframe": true,
}

type Fetcher struct {
	client http.Client
}

func New() *Fetcher {
	c := http.NewClient(
		"",
		http.WithTimeout(pageTimeout),
		http.WithUserAgent(userAgent),
	)
	return &Fetcher{
		client: c,
	}
}

// Page retrieves a single URL and returns its extracted text,
// capped at maxChars characters.
func (f *Fetcher) Page(ctx context.Context, url string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	body, err := f.client.Get(ctx, url)
	if err != nil {
		return "", err
	}

	text, err := ExtractText(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	return truncate(text, maxChars), nil
}

// truncate caps text at max bytes without splitting a multi-byte rune,
// backing up to the nearest rune boundary.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return text[:max]
}

// Pages retrieves all given URLs concurrently, at most maxConcurrent
// at a time. The returned slice preserves the input order and always
// has one entry per URL; individual fetch failures are recorded on
// their entry instead of failing the batch.
func (f *Fetcher) Pages(ctx context.Context, urls []string, maxChars int) []*api.PageContent {
	pages := make([]*api.PageContent, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(maxConcurrent, len(urls)))

	for i, url := range urls {
		g.Go(func() error {
			content, err := f.Page(gctx, url, maxChars)
			if err != nil {
				pages[i] = &api.PageContent{Url: url, Error: err.Error()}
				return nil
			}
			pages[i] = &api.PageContent{Url: url, Content: content, Success: true}
			return nil
		})
	}

	g.Wait()
	return pages
}

// ExtractText parses HTML and returns its visible text, one line per
// text node, blank lines dropped.
func ExtractText(r io.Reader) (string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strippedTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				lines = append(lines, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.Join(lines, "\n"), nil
}
