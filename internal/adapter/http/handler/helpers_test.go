package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackID(t *testing.T) {
	route := func(handle gin.HandlerFunc) *gin.Engine {
		router := gin.New()
		router.POST("/callbacks/:id/score", handle)
		return router
	}

	t.Run("parses the binding ID minted by Bind", func(t *testing.T) {
		want := uuid.New()
		router := route(func(c *gin.Context) {
			id, err := CallbackID(c)
			require.NoError(t, err)
			assert.Equal(t, want, id)
			c.Status(http.StatusOK)
		})

		req, _ := http.NewRequest("POST", "/callbacks/"+want.String()+"/score", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a malformed binding ID", func(t *testing.T) {
		router := route(func(c *gin.Context) {
			_, err := CallbackID(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "malformed callback id")
			c.Status(http.StatusBadRequest)
		})

		req, _ := http.NewRequest("POST", "/callbacks/run-7/score", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
