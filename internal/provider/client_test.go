package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"name":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, 6000, nil)
	var out struct{ Name string }
	err := c.GetJSON(context.Background(), srv.URL, url.Values{"year": {"2024"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Name)
}

func TestClient_ErrorKinds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/broken":
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
		default:
			w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, 6000, nil)
	var out map[string]interface{}

	err := c.GetJSON(context.Background(), srv.URL+"/missing", nil, &out)
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))

	err = c.GetJSON(context.Background(), srv.URL+"/broken", nil, &out)
	require.Error(t, err)
	assert.False(t, IsUnavailable(err))
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")

	err = c.GetJSON(context.Background(), srv.URL+"/garbage", nil, &out)
	require.Error(t, err)
	assert.False(t, IsUnavailable(err))
}

func TestClient_CancelledContext(t *testing.T) {
	c := NewClient("test", time.Second, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx, "http://127.0.0.1:0", nil)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate([]byte("abc"), 5))
	assert.Equal(t, "ab...", Truncate([]byte("abcdef"), 2))
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "https://api.example.com/forecast",
		redact("https://api.example.com/forecast?appid=secret&lat=1"))
}
