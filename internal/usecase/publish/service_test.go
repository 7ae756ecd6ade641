package publish_test

import (
	"context"
	"testing"
	"time"

	"contentflow/internal/domain/entity"
	"contentflow/internal/usecase/publish"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommitter struct {
	committed []*entity.BlogPost
	result    entity.CommitResult
	access    entity.AccessResult
}

func (s *stubCommitter) CommitBlogPost(_ context.Context, post *entity.BlogPost) entity.CommitResult {
	s.committed = append(s.committed, post)
	return s.result
}

func (s *stubCommitter) CheckRepositoryAccess(context.Context) entity.AccessResult {
	return s.access
}

func ptr(s string) *string { return &s }

func newService(c publish.Committer) *publish.Service {
	return publish.NewService(c).WithClock(func() time.Time {
		return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	})
}

var result = entity.ContentResult{
	SEOTitle:        "Workflow Automation in Practice",
	MetaDescription: "Meta",
	Summary:         []string{"one", "two", "three"},
	SocialPosts:     entity.SocialPosts{Twitter: "tw", LinkedIn: "li"},
}

func TestService_NewDraft(t *testing.T) {
	post := newService(&stubCommitter{}).NewDraft(result, "A post about workflow and productivity.")

	assert.Equal(t, "Workflow Automation in Practice", post.Title)
	assert.Equal(t, "workflow-automation-in-practice", post.Slug)
	assert.Equal(t, "2024-06-01", post.Date)
	assert.Equal(t, []string{"blog", "content", "productivity", "workflow"}, post.Tags)
}

func TestApplyEdit(t *testing.T) {
	post := newService(&stubCommitter{}).NewDraft(result, "Body")

	err := publish.ApplyEdit(post, publish.Edit{
		Title:      ptr("Fresh Title"),
		Slug:       ptr("Custom Slug"),
		Meta:       ptr("New meta"),
		Date:       ptr("2024-07-04"),
		Tags:       ptr("go, testing"),
		CoverImage: ptr("https://example.com/c.png"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Fresh Title", post.Title)
	assert.Equal(t, "custom-slug", post.Slug)
	assert.Equal(t, "New meta", post.Meta)
	assert.Equal(t, "2024-07-04", post.Date)
	assert.Equal(t, []string{"go", "testing"}, post.Tags)
	assert.Equal(t, "https://example.com/c.png", post.CoverImage)
	assert.Equal(t, "Body", post.Content)
}

func TestApplyEdit_TitleAloneRegeneratesSlug(t *testing.T) {
	post := newService(&stubCommitter{}).NewDraft(result, "Body")

	require.NoError(t, publish.ApplyEdit(post, publish.Edit{Title: ptr("Another Title")}))

	assert.Equal(t, "another-title", post.Slug)
}

func TestApplyEdit_InvalidFieldsReported(t *testing.T) {
	post := newService(&stubCommitter{}).NewDraft(result, "Body")

	err := publish.ApplyEdit(post, publish.Edit{
		Meta:       ptr("still applied"),
		Date:       ptr("yesterday"),
		CoverImage: ptr("not a url"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	assert.Contains(t, err.Error(), "date")
	assert.Contains(t, err.Error(), "cover image")
	assert.Equal(t, "still applied", post.Meta)
	assert.Equal(t, "2024-06-01", post.Date)
}

func TestApplyEdit_AutoTags(t *testing.T) {
	post := newService(&stubCommitter{}).NewDraft(result, "Body")

	require.NoError(t, publish.ApplyEdit(post, publish.Edit{
		Content:  ptr("Notes on python and react."),
		AutoTags: true,
	}))

	assert.Equal(t, []string{"blog", "content", "react", "python"}, post.Tags)
}

func TestService_Preview(t *testing.T) {
	post := newService(&stubCommitter{}).NewDraft(result, "## Hello")

	preview, err := newService(&stubCommitter{}).Preview(post)
	require.NoError(t, err)

	assert.Contains(t, preview.FrontMatter, "title: Workflow Automation in Practice")
	assert.Equal(t, "## Hello", preview.Content)
	assert.Equal(t, "<h2>Hello</h2>\n", preview.HTML)
}

func TestService_Publish(t *testing.T) {
	committer := &stubCommitter{result: entity.CommitResult{Success: true, URL: "https://github.com/o/r/blob/main/posts/x.md"}}
	svc := newService(committer)
	post := svc.NewDraft(result, "Body")

	got := svc.Publish(context.Background(), post)

	assert.True(t, got.Success)
	require.Len(t, committer.committed, 1)
	assert.Same(t, post, committer.committed[0])
}

func TestService_PublishRejectsInvalidDraft(t *testing.T) {
	tests := []struct {
		name string
		post *entity.BlogPost
		want string
	}{
		{name: "nil", post: nil, want: "post is required"},
		{name: "punctuation title", post: &entity.BlogPost{Title: "!!!", Content: "Body"}, want: "title"},
		{name: "blank content", post: &entity.BlogPost{Title: "Title", Content: "  "}, want: "content is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			committer := &stubCommitter{}
			got := newService(committer).Publish(context.Background(), tt.post)

			assert.False(t, got.Success)
			assert.Contains(t, got.Error, tt.want)
			assert.Empty(t, committer.committed)
		})
	}
}

func TestService_CheckAccess(t *testing.T) {
	committer := &stubCommitter{access: entity.AccessResult{Error: "Repository o/r not found or not accessible"}}

	got := newService(committer).CheckAccess(context.Background())

	assert.False(t, got.Accessible)
	assert.Contains(t, got.Error, "not found")
}
