package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/pagination"
)

func TestCommentHandlerListDefaults(t *testing.T) {
	var gotVideoID, gotViewer string
	var gotParams pagination.Params
	views := &stubViews{
		CommentsForVideoFunc: func(_ context.Context, videoID, viewerID string, params pagination.Params) (pagination.Page[models.CommentView], error) {
			gotVideoID, gotViewer, gotParams = videoID, viewerID, params
			return pagination.Page[models.CommentView]{Items: []models.CommentView{}}, nil
		},
	}
	handler := CommentHandler{Views: views}

	req := authedRequest(http.MethodGet, "/api/v1/comments/v-001", nil, "user-1")
	req.SetPathValue("videoId", "v-001")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if gotVideoID != "v-001" || gotViewer != "user-1" {
		t.Fatalf("unexpected query args %q/%q", gotVideoID, gotViewer)
	}
	if gotParams.Page != 1 || gotParams.Limit != defaultCommentLimit {
		t.Fatalf("expected default page 1 limit %d, got %+v", defaultCommentLimit, gotParams)
	}
}

func TestCommentHandlerListAnonymousViewer(t *testing.T) {
	views := &stubViews{
		CommentsForVideoFunc: func(_ context.Context, _, viewerID string, _ pagination.Params) (pagination.Page[models.CommentView], error) {
			if viewerID != "" {
				t.Fatalf("expected empty viewer id for anonymous request, got %q", viewerID)
			}
			return pagination.Page[models.CommentView]{}, nil
		},
	}
	handler := CommentHandler{Views: views}

	req := authedRequest(http.MethodGet, "/api/v1/comments/v-001", nil, "")
	req.SetPathValue("videoId", "v-001")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestCommentHandlerAdd(t *testing.T) {
	var created models.Comment
	comments := &stubCommentStore{
		CreateFunc: func(_ context.Context, comment models.Comment) error {
			created = comment
			return nil
		},
	}
	videos := &stubVideoStore{
		FindByIDFunc: func(_ context.Context, id string) (models.Video, error) {
			return models.Video{ID: id}, nil
		},
	}
	handler := CommentHandler{Comments: comments, Videos: videos}

	req := authedRequest(http.MethodPost, "/api/v1/comments/v-001",
		strings.NewReader(`{"content":"  great video  "}`), "user-1")
	req.SetPathValue("videoId", "v-001")
	rec := httptest.NewRecorder()

	handler.Add(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if created.Content != "great video" {
		t.Fatalf("expected trimmed content, got %q", created.Content)
	}
	if created.VideoID != "v-001" || created.OwnerID != "user-1" {
		t.Fatalf("unexpected comment %+v", created)
	}
	if created.ID == "" {
		t.Fatal("expected a generated comment id")
	}
}

func TestCommentHandlerAddRejectsEmptyContent(t *testing.T) {
	handler := CommentHandler{Comments: &stubCommentStore{}, Videos: &stubVideoStore{}}

	req := authedRequest(http.MethodPost, "/api/v1/comments/v-001",
		strings.NewReader(`{"content":"   "}`), "user-1")
	req.SetPathValue("videoId", "v-001")
	rec := httptest.NewRecorder()

	handler.Add(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCommentHandlerAddUnknownVideo(t *testing.T) {
	handler := CommentHandler{Comments: &stubCommentStore{}, Videos: &stubVideoStore{}}

	req := authedRequest(http.MethodPost, "/api/v1/comments/missing",
		strings.NewReader(`{"content":"hello"}`), "user-1")
	req.SetPathValue("videoId", "missing")
	rec := httptest.NewRecorder()

	handler.Add(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCommentHandlerUpdateRejectsNonAuthor(t *testing.T) {
	comments := &stubCommentStore{
		FindByIDFunc: func(_ context.Context, id string) (models.Comment, error) {
			return models.Comment{ID: id, OwnerID: "someone-else"}, nil
		},
	}
	handler := CommentHandler{Comments: comments}

	req := authedRequest(http.MethodPatch, "/api/v1/comments/c/c-001",
		strings.NewReader(`{"content":"edited"}`), "user-1")
	req.SetPathValue("commentId", "c-001")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestCommentHandlerDelete(t *testing.T) {
	var deleted string
	comments := &stubCommentStore{
		FindByIDFunc: func(_ context.Context, id string) (models.Comment, error) {
			return models.Comment{ID: id, OwnerID: "user-1"}, nil
		},
		DeleteFunc: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	handler := CommentHandler{Comments: comments}

	req := authedRequest(http.MethodDelete, "/api/v1/comments/c/c-001", nil, "user-1")
	req.SetPathValue("commentId", "c-001")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if deleted != "c-001" {
		t.Fatalf("expected c-001 to be deleted, got %q", deleted)
	}
}
