// Package posts provides the HTTP handlers of the blog-post editor: draft
// creation, editing, preview, publishing and the repository access check.
package posts

import (
	"context"
	"net/http"

	"contentflow/internal/domain/entity"
	"contentflow/internal/handler/http/respond"
	"contentflow/internal/infra/markdown"
	"contentflow/internal/usecase/publish"
)

// Publisher is the subset of publish.Service the handlers use.
type Publisher interface {
	NewDraft(result entity.ContentResult, content string) *entity.BlogPost
	Preview(post *entity.BlogPost) (markdown.Preview, error)
	Publish(ctx context.Context, post *entity.BlogPost) entity.CommitResult
	CheckAccess(ctx context.Context) entity.AccessResult
}

// DraftRequest is the body of POST /posts/draft.
type DraftRequest struct {
	Result  entity.ContentResult `json:"result"`
	Content string               `json:"content"`
	Edit    *publish.Edit        `json:"edit,omitempty"`
}

// EditRequest is the body of POST /posts/edit.
type EditRequest struct {
	Post *entity.BlogPost `json:"post"`
	Edit publish.Edit     `json:"edit"`
}

// PostRequest is the body of POST /posts/preview and POST /posts/publish.
type PostRequest struct {
	Post *entity.BlogPost `json:"post"`
}

// DraftHandler builds a draft from a generation result.
type DraftHandler struct{ Svc Publisher }

func (h DraftHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Failure(w, r, err)
		return
	}

	post := h.Svc.NewDraft(req.Result, req.Content)
	if req.Edit != nil {
		if err := publish.ApplyEdit(post, *req.Edit); err != nil {
			respond.Failure(w, r, err)
			return
		}
	}
	respond.JSON(w, http.StatusOK, post)
}

// EditHandler applies an edit to a draft and returns the updated draft.
type EditHandler struct{}

func (EditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Failure(w, r, err)
		return
	}
	if req.Post == nil {
		respond.Failure(w, r, &entity.ValidationError{Field: "post", Message: "post is required"})
		return
	}

	if err := publish.ApplyEdit(req.Post, req.Edit); err != nil {
		respond.Failure(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, req.Post)
}

// PreviewHandler renders a draft to Markdown and HTML.
type PreviewHandler struct{ Svc Publisher }

func (h PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Failure(w, r, err)
		return
	}
	if req.Post == nil {
		respond.Failure(w, r, &entity.ValidationError{Field: "post", Message: "post is required"})
		return
	}

	preview, err := h.Svc.Preview(req.Post)
	if err != nil {
		respond.Failure(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, preview)
}

// PublishHandler commits a draft. Invalid drafts are rejected with 400
// before any repository call; repository failures answer 502 with the
// CommitResult as the body.
type PublishHandler struct{ Svc Publisher }

func (h PublishHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Failure(w, r, err)
		return
	}
	if err := publish.ValidateDraft(req.Post); err != nil {
		respond.Failure(w, r, err)
		return
	}

	result := h.Svc.Publish(r.Context(), req.Post)
	code := http.StatusCreated
	if !result.Success {
		code = http.StatusBadGateway
	}
	respond.JSON(w, code, result)
}

// AccessHandler reports whether the blog repository is reachable.
type AccessHandler struct{ Svc Publisher }

func (h AccessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	result := h.Svc.CheckAccess(r.Context())
	code := http.StatusOK
	if !result.Accessible {
		code = http.StatusBadGateway
	}
	respond.JSON(w, code, result)
}

// Register registers the post routes.
func Register(mux *http.ServeMux, svc Publisher) {
	mux.Handle("POST /posts/draft", DraftHandler{Svc: svc})
	mux.Handle("POST /posts/edit", EditHandler{})
	mux.Handle("POST /posts/preview", PreviewHandler{Svc: svc})
	mux.Handle("POST /posts/publish", PublishHandler{Svc: svc})
	mux.Handle("GET /posts/access", AccessHandler{Svc: svc})
}
