package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(`{"price":3900.5}`))
		default:
			http.Error(w, "not here", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHeaders(YahooFinanceHeaders()), WithTimeout(time.Second))

	resp, err := c.GET(context.Background(), "/ok")
	require.NoError(t, err)
	var v struct{ Price float64 }
	require.NoError(t, resp.ParseJSON(&v))
	assert.Equal(t, 3900.5, v.Price)

	_, err = c.GET(context.Background(), "/missing")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusTooManyRequests))
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestRateLimitHonoursContext(t *testing.T) {
	c := NewClient(WithBaseURL("http://127.0.0.1:1"), WithRateLimit(0.001))
	c.limiter.Allow() // spend the only token

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.GET(ctx, "/")
	assert.Error(t, err)
}
