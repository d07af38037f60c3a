package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanman2016/fine-grained-sentiment/internal/domain/entity"
)

type stubRunRepository struct {
	runs []*entity.Run
	err  error

	lastMethod string
	lastLimit  int
	lastOffset int
}

func (s *stubRunRepository) Create(ctx context.Context, run *entity.Run) error {
	return s.err
}

func (s *stubRunRepository) GetByMethod(ctx context.Context, method string, limit, offset int) ([]*entity.Run, int64, error) {
	s.lastMethod, s.lastLimit, s.lastOffset = method, limit, offset
	return s.runs, int64(len(s.runs)), s.err
}

func (s *stubRunRepository) List(ctx context.Context, limit, offset int) ([]*entity.Run, int64, error) {
	s.lastLimit, s.lastOffset = limit, offset
	return s.runs, int64(len(s.runs)), s.err
}

func newRunsRouter(repo *stubRunRepository) *gin.Engine {
	router := gin.New()
	router.GET("/runs", NewRunsHandler(repo).List)
	return router
}

func TestRunsHandler_List(t *testing.T) {
	completed := entity.NewRun("fasttext", 1, "Light , cute and forgettable .")
	completed.SetResult(2, 10, "1-explanation-fasttext.html", 1200)

	t.Run("lists recorded runs in the envelope", func(t *testing.T) {
		repo := &stubRunRepository{runs: []*entity.Run{completed}}
		router := newRunsRouter(repo)

		req, _ := http.NewRequest("GET", "/runs", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Success bool          `json:"success"`
			Data    RunListResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Success)
		require.Len(t, response.Data.Runs, 1)
		assert.Equal(t, "fasttext", response.Data.Runs[0].Method)
		assert.Equal(t, "1-explanation-fasttext.html", response.Data.Runs[0].ArtifactPath)
		assert.Equal(t, int64(1), response.Data.Total)
		assert.False(t, response.Data.HasMore)
		assert.Equal(t, 20, repo.lastLimit)
	})

	t.Run("filters by method", func(t *testing.T) {
		repo := &stubRunRepository{runs: []*entity.Run{completed}}
		router := newRunsRouter(repo)

		req, _ := http.NewRequest("GET", "/runs?method=fasttext&limit=5&offset=10", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "fasttext", repo.lastMethod)
		assert.Equal(t, 5, repo.lastLimit)
		assert.Equal(t, 10, repo.lastOffset)
	})

	t.Run("clamps oversized limits", func(t *testing.T) {
		repo := &stubRunRepository{}
		router := newRunsRouter(repo)

		req, _ := http.NewRequest("GET", "/runs?limit=5000", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 100, repo.lastLimit)
	})

	t.Run("repository failure returns 500", func(t *testing.T) {
		repo := &stubRunRepository{err: errors.New("connection refused")}
		router := newRunsRouter(repo)

		req, _ := http.NewRequest("GET", "/runs", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	})
}
