package serviceImp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"kisaan/entities"
	"kisaan/pkg/apperr"
)

var fetchClient = &http.Client{Timeout: 20 * time.Second}

func (s *Svc) IngestURL(ctx context.Context, rawURL, title, tags string) (*entities.KBDocument, int, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, 0, fmt.Errorf("%w: bad url %q", apperr.ErrInvalidInput, rawURL)
	}
	if !s.allow[strings.ToLower(u.Hostname())] {
		return nil, 0, fmt.Errorf("%w: domain %s is not allowed", apperr.ErrInvalidInput, u.Hostname())
	}

	txt, pageTitle, err := s.fetch(ctx, u.String(), s.maxBytes)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: fetch %s: %v", apperr.ErrStoreUnavailable, u, err)
	}
	if strings.TrimSpace(title) == "" {
		title = pageTitle
	}
	if strings.TrimSpace(title) == "" {
		title = u.Hostname()
	}
	return s.UpsertDocument(ctx, title, tags, txt, u.String())
}

// fetchMainText returns the readable text and title of an HTML or plain
// text page.
func fetchMainText(ctx context.Context, u string, maxBytes int) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := fetchClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("status %d", resp.StatusCode)
	}
	if resp.ContentLength > int64(maxBytes) {
		return "", "", fmt.Errorf("page too large")
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxBytes)))
	if err != nil {
		return "", "", err
	}
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "text/plain"):
		return string(b), guessTitleFromText(string(b)), nil
	case strings.Contains(ct, "text/html"):
		return extractHTML(b)
	default:
		return "", "", fmt.Errorf("unsupported content-type: %s", ct)
	}
}

func extractHTML(b []byte) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return "", "", err
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())

	var parts []string
	sel := doc.Find("main, article")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	sel.Find("h1,h2,h3,p,li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return cleanWhitespace(strings.Join(parts, "\n")), title, nil
}

var wsRX = regexp.MustCompile(`[ \t]+\n`)

func cleanWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return wsRX.ReplaceAllString(s, "\n")
}

func guessTitleFromText(s string) string {
	line := strings.SplitN(strings.TrimSpace(s), "\n", 2)[0]
	if r := []rune(line); len(r) > 120 {
		line = string(r[:120])
	}
	return line
}
