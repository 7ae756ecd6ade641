// Package github commits rendered blog posts to a repository through the
// GitHub contents API.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"contentflow/internal/domain/entity"
	"contentflow/internal/infra/markdown"
	"contentflow/internal/observability/metrics"
	"contentflow/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const (
	acceptHeader = "application/vnd.github.v3+json"
	// maxErrorBody caps how much of an error response is decoded.
	maxErrorBody = 64 << 10
)

// Config holds the repository coordinates and credentials.
type Config struct {
	Token    string
	Owner    string
	Repo     string
	Branch   string
	PostsDir string
	APIURL   string
	Timeout  time.Duration
}

// DefaultConfig returns the defaults for everything but the credentials.
func DefaultConfig() Config {
	return Config{
		Branch:   "main",
		PostsDir: "posts",
		APIURL:   "https://api.github.com",
		Timeout:  30 * time.Second,
	}
}

// Validate reports missing credentials or coordinates. The message names the
// environment variables to set.
func (c Config) Validate() error {
	if c.Token == "" {
		return errors.New("GitHub token not configured. Please set GITHUB_TOKEN")
	}
	if c.Owner == "" || c.Repo == "" {
		return errors.New("GitHub repository configuration missing. Please check GITHUB_OWNER and GITHUB_BLOG_REPO")
	}
	return nil
}

// Client publishes posts to one repository.
type Client struct {
	config     Config
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a Client. Empty layout fields take their defaults.
func NewClient(config Config) *Client {
	def := DefaultConfig()
	if config.Branch == "" {
		config.Branch = def.Branch
	}
	if config.PostsDir == "" {
		config.PostsDir = def.PostsDir
	}
	if config.APIURL == "" {
		config.APIURL = def.APIURL
	}
	config.APIURL = strings.TrimRight(config.APIURL, "/")

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		now:        time.Now,
	}
}

// WithClock replaces the clock used for file names. Intended for tests.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// Configured reports whether credentials and coordinates are present.
func (c *Client) Configured() bool {
	return c.config.Validate() == nil
}

// FilePath returns the repository path the post would be committed to today.
func (c *Client) FilePath(post *entity.BlogPost) string {
	return path.Join(c.config.PostsDir, post.FileName(c.now().UTC()))
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
}

type putResponse struct {
	Content struct {
		HTMLURL string `json:"html_url"`
	} `json:"content"`
}

type apiError struct {
	Message string `json:"message"`
}

// CollisionMessage is reported when the target file already exists.
const CollisionMessage = "A post with this title already exists. Please modify the title or delete the existing post."

// CommitBlogPost renders post and creates it in the repository.
//
// An existing file at the target path is never overwritten: the call fails
// without writing. A connection failure during the existence check also
// aborts, since absence cannot be confirmed.
func (c *Client) CommitBlogPost(ctx context.Context, post *entity.BlogPost) (result entity.CommitResult) {
	ctx, span := tracing.StartSpan(ctx, "github.commit")
	defer func() {
		span.SetAttributes(attribute.Bool("github.success", result.Success))
		var err error
		label := "success"
		if !result.Success {
			err = errors.New(result.Error)
			label = "failure"
			if result.Error == CollisionMessage {
				label = "collision"
			}
		}
		tracing.EndSpan(span, err)
		metrics.RecordPostPublish(label)
	}()

	if err := c.config.Validate(); err != nil {
		return entity.CommitResult{Error: err.Error()}
	}

	filePath := c.FilePath(post)
	span.SetAttributes(attribute.String("github.path", filePath))

	exists, err := c.fileExists(ctx, filePath)
	if err != nil {
		slog.ErrorContext(ctx, "github existence check failed",
			slog.String("path", filePath),
			slog.Any("error", err))
		return entity.CommitResult{Error: "Unable to reach GitHub to check for an existing post. Please check your network connection."}
	}
	if exists {
		slog.WarnContext(ctx, "post already exists", slog.String("path", filePath))
		return entity.CommitResult{Error: CollisionMessage}
	}

	doc, err := markdown.Render(post)
	if err != nil {
		return entity.CommitResult{Error: err.Error()}
	}

	body, err := json.Marshal(putRequest{
		Message: "Add new blog post: " + post.Title,
		Content: base64.StdEncoding.EncodeToString([]byte(doc)),
		Branch:  c.config.Branch,
	})
	if err != nil {
		return entity.CommitResult{Error: fmt.Sprintf("encode commit request: %v", err)}
	}

	resp, err := c.do(ctx, http.MethodPut, c.contentsPath(filePath), body)
	if err != nil {
		slog.ErrorContext(ctx, "github commit request failed",
			slog.String("path", filePath),
			slog.Any("error", err))
		return entity.CommitResult{Error: fmt.Sprintf("GitHub API error: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		msg := errorMessage(resp)
		slog.ErrorContext(ctx, "github rejected commit",
			slog.String("path", filePath),
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg))
		return entity.CommitResult{Error: "GitHub API error: " + msg}
	}

	var out putResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		slog.WarnContext(ctx, "github commit response not decodable", slog.Any("error", err))
	}
	htmlURL := out.Content.HTMLURL
	if htmlURL == "" {
		htmlURL = fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s",
			c.config.Owner, c.config.Repo, c.config.Branch, filePath)
	}

	slog.InfoContext(ctx, "post committed",
		slog.String("path", filePath),
		slog.String("url", htmlURL))
	return entity.CommitResult{Success: true, URL: htmlURL}
}

// CheckRepositoryAccess verifies the token can see the configured repository.
func (c *Client) CheckRepositoryAccess(ctx context.Context) entity.AccessResult {
	if err := c.config.Validate(); err != nil {
		return entity.AccessResult{Error: err.Error()}
	}

	resp, err := c.do(ctx, http.MethodGet, c.repoPath(), nil)
	if err != nil {
		return entity.AccessResult{Error: fmt.Sprintf("Network error: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return entity.AccessResult{
			Error: fmt.Sprintf("Repository %s/%s not found or not accessible", c.config.Owner, c.config.Repo),
		}
	case !isSuccess(resp.StatusCode):
		return entity.AccessResult{Error: "GitHub API error: " + errorMessage(resp)}
	}
	return entity.AccessResult{Accessible: true}
}

// fileExists reports whether filePath exists. Any non-2xx answer counts as
// absent; only transport failures are errors.
func (c *Client) fileExists(ctx context.Context, filePath string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, c.contentsPath(filePath), nil)
	if err != nil {
		return false, err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
	return isSuccess(resp.StatusCode), nil
}

func (c *Client) do(ctx context.Context, method, apiPath string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.config.APIURL+apiPath, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", acceptHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func (c *Client) repoPath() string {
	return "/repos/" + url.PathEscape(c.config.Owner) + "/" + url.PathEscape(c.config.Repo)
}

func (c *Client) contentsPath(filePath string) string {
	segments := strings.Split(filePath, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.repoPath() + "/contents/" + strings.Join(segments, "/")
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func errorMessage(resp *http.Response) string {
	var apiErr apiError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Unknown error"
}
