package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsThenBlocks(t *testing.T) {
	rl := NewRateLimiter(1, 2, time.Minute)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	// Burst exhausted.
	assert.False(t, rl.Allow("10.0.0.1"))

	// A different client has its own bucket.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(1, 1, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestValidationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type payload struct {
		Name string `json:"name"`
	}

	r := gin.New()
	r.Use(ValidationMiddleware())
	r.POST("/echo", func(c *gin.Context) {
		var p payload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bind failed"})
			return
		}
		c.JSON(http.StatusOK, p)
	})

	t.Run("Malformed JSON rejected before the handler", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/echo", strings.NewReader(`{"name": `))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "malformed JSON body")
	})

	t.Run("Valid JSON still reaches the handler intact", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/echo", strings.NewReader(`{"name":"squat rack"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "squat rack")
	})

	t.Run("Non-JSON content type passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/echo", nil)
		r.ServeHTTP(w, req)

		// GET on a POST route: middleware must not interfere with routing.
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestValidateStruct(t *testing.T) {
	type form struct {
		Email string  `validate:"required,email"`
		Price float64 `validate:"gte=0"`
	}

	t.Run("Valid struct has no errors", func(t *testing.T) {
		errs := ValidateStruct(form{Email: "a@b.com", Price: 10})
		assert.Empty(t, errs)
	})

	t.Run("Invalid fields are reported with messages", func(t *testing.T) {
		errs := ValidateStruct(form{Email: "not-an-email", Price: -1})
		require.Len(t, errs, 2)
		assert.Equal(t, "Email", errs[0].Field)
		assert.Contains(t, errs[0].Message, "valid email")
	})
}
