package analyzer

import (
	"context"
	"html"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"jobtrail/internal/config"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// frameMarker separates the portal shell from the embedded job document so
// downstream extraction sees the richer content appended after the shell.
const frameMarker = "\n\n--- TARGET JOB CONTENT ---\n\n"

const maxFetchBytes = 4 << 20

// jobFrameRe detects the Onlyfy/Prescreen embedded job-detail frame.
var jobFrameRe = regexp.MustCompile(`(?i)<iframe[^>]+id="jobFrame"[^>]+src="([^"]+)"`)

// Fetcher retrieves raw HTML for a job posting URL. Every failure degrades
// to empty content; the analysis pipeline must never abort on a fetch.
type Fetcher struct {
	client   *http.Client
	logger   *log.Logger
	headless bool
}

func NewFetcher(cfg config.AnalyzerConfig, logger *log.Logger) *Fetcher {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
		headless: cfg.HeadlessEnabled,
	}
}

// Fetch returns the page HTML, with the embedded job frame's body appended
// after frameMarker when one is present. Returns "" on any failure.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) string {
	if f == nil || f.client == nil {
		return ""
	}

	body, err := f.get(ctx, rawURL, "")
	if err != nil {
		if f.logger != nil {
			f.logger.Printf("[Fetcher] fetch error url=%s err=%v", rawURL, err)
		}
		body = ""
	}

	if body == "" && f.headless {
		body = f.fetchHeadless(ctx, rawURL)
	}
	if body == "" {
		return ""
	}

	if src, ok := resolveJobFrameSrc(body, rawURL); ok {
		if f.logger != nil {
			f.logger.Printf("[Fetcher] following job iframe src=%s", src)
		}
		frameBody, err := f.get(ctx, src, rawURL)
		if err == nil && frameBody != "" {
			body += frameMarker + frameBody
		}
	}

	return body
}

func (f *Fetcher) get(ctx context.Context, rawURL, referer string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// resolveJobFrameSrc extracts the embedded frame source and resolves
// site-relative forms against the original URL.
func resolveJobFrameSrc(body, originalURL string) (string, bool) {
	m := jobFrameRe.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}

	src := strings.TrimSpace(html.UnescapeString(m[1]))
	if src == "" {
		return "", false
	}
	if strings.HasPrefix(src, "http") {
		return src, true
	}

	parsed, err := url.Parse(originalURL)
	if err != nil || parsed.Host == "" {
		return "", false
	}
	scheme := parsed.Scheme
	if scheme == "" {
		scheme = "https"
	}
	if !strings.HasPrefix(src, "/") {
		src = "/" + src
	}
	return scheme + "://" + parsed.Host + src, true
}
