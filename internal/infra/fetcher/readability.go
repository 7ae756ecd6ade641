package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contentflow/internal/domain/entity"
	"contentflow/internal/resilience/circuitbreaker"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// ReadabilityFetcher imports articles using the Mozilla Readability
// algorithm (go-shiori/go-readability), with page metadata read by goquery.
//
// Every request and every redirect target is checked against the SSRF rules,
// responses are size-limited, and repeated failures open a circuit breaker.
//
// Thread safety: ReadabilityFetcher is safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         ContentFetchConfig
}

// NewReadabilityFetcher creates a fetcher with the given configuration.
//
//	f := NewReadabilityFetcher(DefaultConfig())
//	article, err := f.FetchArticle(ctx, "https://example.com/post")
func NewReadabilityFetcher(config ContentFetchConfig) *ReadabilityFetcher {
	if config.UserAgent == "" {
		config.UserAgent = DefaultConfig().UserAgent
	}

	fetcher := &ReadabilityFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		config:         config,
	}

	// The per-request deadline is set by doFetch.
	fetcher.client = &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > fetcher.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			// リダイレクト先も SSRF チェック
			if err := validateURL(req.URL.String(), fetcher.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	return fetcher
}

// FetchArticle downloads urlStr and extracts its readable text and metadata.
//
// Errors wrap ErrInvalidURL or ErrPrivateIP for rejected URLs (no request is
// made), ErrTimeout, ErrTooManyRedirects, ErrBodyTooLarge,
// ErrReadabilityFailed, circuitbreaker.ErrOpen, or the entity remote kinds
// for HTTP and transport failures.
func (f *ReadabilityFetcher) FetchArticle(ctx context.Context, urlStr string) (entity.ImportedArticle, error) {
	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return entity.ImportedArticle{}, err
	}

	var article entity.ImportedArticle
	err := f.circuitBreaker.Run(func() error {
		var err error
		article, err = f.doFetch(ctx, urlStr)
		return err
	})
	if err != nil {
		return entity.ImportedArticle{}, err
	}
	return article, nil
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, urlStr string) (entity.ImportedArticle, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return entity.ImportedArticle{}, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return entity.ImportedArticle{}, fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && (errors.Is(urlErr.Err, ErrTooManyRedirects) ||
			errors.Is(urlErr.Err, ErrPrivateIP) || errors.Is(urlErr.Err, ErrInvalidURL)) {
			return entity.ImportedArticle{}, urlErr.Err
		}
		return entity.ImportedArticle{}, fmt.Errorf("%w: %v", entity.ErrNetwork, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		kind := entity.ErrPermanentRemote
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			kind = entity.ErrTransientRemote
		}
		return entity.ImportedArticle{}, fmt.Errorf("%w: HTTP %d", kind, resp.StatusCode)
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return entity.ImportedArticle{}, fmt.Errorf("%w: failed to read response body: %v", entity.ErrNetwork, err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return entity.ImportedArticle{}, fmt.Errorf("%w: response exceeds limit of %d bytes",
			ErrBodyTooLarge, f.config.MaxBodySize)
	}

	// The final URL may differ after redirects.
	pageURL := resp.Request.URL

	return extract(htmlBytes, pageURL)
}

// extract runs Readability over page and fills the metadata readability
// does not expose.
func extract(page []byte, pageURL *url.URL) (entity.ImportedArticle, error) {
	parsed, err := readability.FromReader(bytes.NewReader(page), pageURL)
	if err != nil {
		return entity.ImportedArticle{}, fmt.Errorf("%w: %v", ErrReadabilityFailed, err)
	}

	text := strings.TrimSpace(parsed.TextContent)
	if text == "" {
		return entity.ImportedArticle{}, fmt.Errorf("%w: no readable content found", ErrReadabilityFailed)
	}

	article := entity.ImportedArticle{
		URL:      pageURL.String(),
		Title:    strings.TrimSpace(parsed.Title),
		Byline:   strings.TrimSpace(parsed.Byline),
		SiteName: strings.TrimSpace(parsed.SiteName),
		Text:     text,
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		slog.Debug("metadata extraction skipped",
			slog.String("url", article.URL),
			slog.Any("error", err))
		article.Description = strings.TrimSpace(parsed.Excerpt)
		return article, nil
	}

	article.Keywords = splitKeywords(metaContent(doc, `meta[name="keywords"]`))
	article.Description = firstNonEmpty(
		metaContent(doc, `meta[name="description"]`),
		metaContent(doc, `meta[property="og:description"]`),
		parsed.Excerpt,
	)
	if article.Title == "" {
		article.Title = firstNonEmpty(
			metaContent(doc, `meta[property="og:title"]`),
			doc.Find("title").First().Text(),
		)
	}
	return article, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
