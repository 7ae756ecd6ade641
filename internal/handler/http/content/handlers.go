package content

import (
	"context"
	"net/http"

	"contentflow/internal/domain/entity"
	"contentflow/internal/handler/http/respond"
	"contentflow/internal/usecase/importer"
)

// Generator produces the derived artifacts for a piece of content.
type Generator interface {
	ProcessContent(ctx context.Context, content string, tone entity.Tone) (entity.ContentResult, error)
}

// Importer fetches an article from a URL.
type Importer interface {
	Import(ctx context.Context, rawURL string) (entity.ImportedArticle, error)
}

// GenerateHandler serves POST /content/generate.
type GenerateHandler struct{ Svc Generator }

func (h GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Failure(w, r, err)
		return
	}
	tone, err := entity.ParseTone(req.Tone)
	if err != nil {
		respond.Failure(w, r, err)
		return
	}

	result, err := h.Svc.ProcessContent(r.Context(), req.Content, tone)
	if err != nil {
		respond.Failure(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

// ImportHandler serves POST /content/import.
type ImportHandler struct{ Svc Importer }

func (h ImportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Failure(w, r, err)
		return
	}

	article, err := h.Svc.Import(r.Context(), req.URL)
	if err != nil {
		respond.Failure(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, ImportResponse{
		Article:    article,
		SourceText: importer.SourceText(article),
	})
}

// Register registers the content routes. limit wraps the generation route,
// which fans out into four model calls; pass nil to leave it unlimited.
func Register(mux *http.ServeMux, gen Generator, imp Importer, limit func(http.Handler) http.Handler) {
	var generate http.Handler = GenerateHandler{Svc: gen}
	if limit != nil {
		generate = limit(generate)
	}
	mux.Handle("POST /content/generate", generate)
	mux.Handle("POST /content/import", ImportHandler{Svc: imp})
}
