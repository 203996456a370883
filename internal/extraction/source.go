package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/JaimeStill/applytrack/pkg/formatting"
)

// loader turns a source locator into prompt text. http and https URLs are
// fetched; anything else is treated as inline content.
type loader struct {
	client    *http.Client
	maxSize   int64
	userAgent string
}

func (l *loader) load(ctx context.Context, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", ErrEmptySource
	}

	if u, ok := remote(source); ok {
		return l.fetch(ctx, u)
	}

	if looksLikeHTML(source) {
		return htmlText(strings.NewReader(source))
	}
	return source, nil
}

func (l *loader) fetch(ctx context.Context, u *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", u.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: unexpected status %s", u.Host, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", u.Host, err)
	}
	if int64(len(body)) > l.maxSize {
		return "", fmt.Errorf("%w: larger than %s", ErrSourceTooLarge, formatting.FormatBytes(l.maxSize, 0))
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "text/html" || mediaType == "application/xhtml+xml" || looksLikeHTML(string(body)) {
		return htmlText(bytes.NewReader(body))
	}
	return string(body), nil
}

func remote(source string) (*url.URL, bool) {
	if strings.ContainsAny(source, " \n\t") {
		return nil, false
	}
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return nil, false
	}
	return u, u.Scheme == "http" || u.Scheme == "https"
}

func looksLikeHTML(s string) bool {
	head := strings.ToLower(s[:min(len(s), 1024)])
	return strings.Contains(head, "<html") ||
		strings.Contains(head, "<!doctype html") ||
		strings.Contains(head, "<body")
}

var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
	atom.Iframe:   true,
}

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Tr: true, atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Title: true, atom.Ul: true, atom.Ol: true, atom.Table: true,
}

// htmlText returns the visible text of an HTML document with one line per
// block element and runs of whitespace collapsed.
func htmlText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var lines []string
	var line strings.Builder

	flush := func() {
		if s := strings.TrimSpace(line.String()); s != "" {
			lines = append(lines, s)
		}
		line.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipped[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				if line.Len() > 0 {
					line.WriteByte(' ')
				}
				line.WriteString(text)
			}
		}

		block := n.Type == html.ElementNode && blocks[n.DataAtom]
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}

	walk(doc)
	flush()

	return strings.Join(lines, "\n"), nil
}
