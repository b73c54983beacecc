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

package fetch_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/solenecodes/web-search-agent/internal/fetch"
)

func TestExtractText(t *testing.T) {
	page := `<html>
<head><title>Test Page</title><style>body { color: red; }</style></head>
<body>
<header>Site Header</header>
<nav>Menu</nav>
<script>console.log("noise")</script>
<h1>Main Heading</h1>
<p>First paragraph.</p>
<aside>Sidebar noise</aside>
<p>Second paragraph.</p>
<footer>Copyright notice</footer>
</body>
</html>`

	text, err := fetch.ExtractText(strings.NewReader(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Main Heading", "First paragraph.", "Second paragraph."} {
		if !strings.Contains(text, want) {
			t.Errorf("expected extracted text to contain '%s', got:\n%s", want, text)
		}
	}

	for _, unwanted := range []string{"color: red", "console.log", "Site Header", "Menu", "Sidebar noise", "Copyright notice"} {
		if strings.Contains(text, unwanted) {
			t.Errorf("extracted text must not contain '%s', got:\n%s", unwanted, text)
		}
	}
}

func TestPageCapsContent(t *testing.T) {
	long := strings.Repeat("a", 500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", long)
	}))
	defer srv.Close()

	f := fetch.New()
	text, err := f.Page(context.Background(), srv.URL, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(text) != 100 {
		t.Errorf("got %d characters, expected 100", len(text))
	}
}

func TestPageCapKeepsRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 60)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", long)
	}))
	defer srv.Close()

	f := fetch.New()
	text, err := f.Page(context.Background(), srv.URL, 101)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !utf8.ValidString(text) {
		t.Errorf("capped text is not valid UTF-8: %q", text)
	}
	if len(text) != 100 {
		t.Errorf("got %d bytes, expected the cap to back up to 100", len(text))
	}
}

func TestPagesPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body><p>page %s</p></body></html>", strings.TrimPrefix(r.URL.Path, "/"))
	}))
	defer srv.Close()

	urls := []string{
		srv.URL + "/one",
		srv.URL + "/two",
		srv.URL + "/three",
	}

	f := fetch.New()
	pages := f.Pages(context.Background(), urls, 0)

	if len(pages) != len(urls) {
		t.Fatalf("got %d pages, expected %d", len(pages), len(urls))
	}

	for i, want := range []string{"page one", "page two", "page three"} {
		if pages[i].Url != urls[i] {
			t.Errorf("page %d: got url '%s', expected '%s'", i, pages[i].Url, urls[i])
		}
		if !pages[i].Success {
			t.Errorf("page %d: expected success, got error '%s'", i, pages[i].Error)
		}
		if !strings.Contains(pages[i].Content, want) {
			t.Errorf("page %d: expected content to contain '%s', got '%s'", i, want, pages[i].Content)
		}
	}
}

func TestPagesIsolatesFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "<html><body><p>all good</p></body></html>")
	}))
	defer srv.Close()

	urls := []string{
		srv.URL + "/good",
		srv.URL + "/bad",
		srv.URL + "/good",
	}

	f := fetch.New()
	pages := f.Pages(context.Background(), urls, 0)

	if len(pages) != 3 {
		t.Fatalf("got %d pages, expected 3", len(pages))
	}

	if !pages[0].Success || !pages[2].Success {
		t.Error("expected surrounding pages to succeed")
	}

	if pages[1].Success {
		t.Error("expected failing page to be marked unsuccessful")
	}
	if pages[1].Error == "" {
		t.Error("expected failing page to carry an error message")
	}
	if pages[1].Url != urls[1] {
		t.Errorf("failing page keeps its url: got '%s', expected '%s'", pages[1].Url, urls[1])
	}
}
