// Package importer turns a web page into source text for generation.
package importer

import (
	"context"
	"log/slog"
	"strings"

	"contentflow/internal/domain/entity"
	"contentflow/internal/observability/logging"
	"contentflow/internal/observability/metrics"
	"contentflow/internal/utils/text"
)

// ArticleFetcher downloads and extracts an article.
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, url string) (entity.ImportedArticle, error)
}

// Service imports articles.
type Service struct {
	Fetcher ArticleFetcher
}

// Import fetches rawURL and returns its article with the text cut to the
// length accepted by generation.
func (s *Service) Import(ctx context.Context, rawURL string) (entity.ImportedArticle, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := entity.ValidateImportURL(rawURL); err != nil {
		return entity.ImportedArticle{}, err
	}

	article, err := s.Fetcher.FetchArticle(ctx, rawURL)
	if err != nil {
		metrics.RecordContentImport(false, 0)
		slog.WarnContext(ctx, "article import failed",
			slog.String("url", logging.RedactURL(rawURL)),
			slog.Any("error", err))
		return entity.ImportedArticle{}, err
	}

	if n := text.CountRunes(article.Text); n > entity.MaxContentLength {
		article.Text = text.Truncate(article.Text, entity.MaxContentLength)
		slog.InfoContext(ctx, "imported article truncated",
			slog.Int("original_length", n),
			slog.Int("max_length", entity.MaxContentLength))
	}

	metrics.RecordContentImport(true, text.CountRunes(article.Text))
	slog.InfoContext(ctx, "article imported",
		slog.String("url", logging.RedactURL(article.URL)),
		slog.String("title", article.Title),
		slog.Int("length", text.CountRunes(article.Text)))
	return article, nil
}

// SourceText joins the title and body the way generation expects them.
func SourceText(article entity.ImportedArticle) string {
	if article.Title == "" {
		return article.Text
	}
	return text.Truncate(article.Title+"\n\n"+article.Text, entity.MaxContentLength)
}
