package httpserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/f3rmion/fy-multisig/logutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(&HTTPServerConfig{
		Log: logutil.Discard(),
	}, func(r chi.Router) {
		r.Get("/hello", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("hi"))
		})
		r.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRoutes(t *testing.T) {
	_, ts := newTestServer(t)

	code, body := get(t, ts.URL+"/hello")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "hi", body)

	code, body = get(t, ts.URL+"/livez")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"status":"alive"}`, body)

	code, _ = get(t, ts.URL+"/panic")
	require.Equal(t, http.StatusInternalServerError, code)
}

func TestDrainUndrain(t *testing.T) {
	srv, ts := newTestServer(t)

	code, _ := get(t, ts.URL+"/readyz")
	require.Equal(t, http.StatusOK, code)

	_, body := get(t, ts.URL+"/drain")
	require.JSONEq(t, `{"status":"draining"}`, body)
	require.False(t, srv.IsReady())

	_, body = get(t, ts.URL+"/drain")
	require.JSONEq(t, `{"status":"already draining"}`, body)

	code, _ = get(t, ts.URL+"/readyz")
	require.Equal(t, http.StatusServiceUnavailable, code)

	_, body = get(t, ts.URL+"/undrain")
	require.JSONEq(t, `{"status":"ready"}`, body)
	require.True(t, srv.IsReady())
}
