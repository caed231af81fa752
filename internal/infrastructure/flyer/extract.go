package flyer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Extractor pulls the visible text of a flyer or offers page and hands it to
// the parsing pipeline as raw lines. It deliberately knows nothing about
// products; layout noise is the parser's problem.
type Extractor struct {
	client *http.Client
}

// NewExtractor wires an HTTP client; a nil client gets a 20s-timeout default.
func NewExtractor(client *http.Client) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Extractor{client: client}
}

// FetchLines downloads one page and extracts its text lines.
func (e *Extractor) FetchLines(ctx context.Context, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", "igomarket-scraper/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", pageURL, resp.StatusCode)
	}
	return LinesFromHTML(resp.Body)
}

// LinesFromHTML extracts the visible text lines of an HTML document: script,
// style and template subtrees are dropped, block elements become line
// boundaries, and image alt texts are kept (flyers frequently carry the offer
// text only in the alt attribute).
func LinesFromHTML(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	doc.Find("script, style, noscript, template, iframe").Remove()

	var lines []string
	push := func(text string) {
		for _, line := range strings.Split(text, "\n") {
			line = strings.Join(strings.Fields(line), " ")
			if line != "" {
				lines = append(lines, line)
			}
		}
	}

	doc.Find("h1, h2, h3, h4, p, li, td, th, span, div, figcaption").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return
		}
		push(sel.Text())
	})
	doc.Find("img[alt]").Each(func(_ int, sel *goquery.Selection) {
		if alt, ok := sel.Attr("alt"); ok {
			push(alt)
		}
	})

	return lines, nil
}
