package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher() *HTTPFetcher {
	f := NewHTTPFetcher(HTTPOptions{MaxRetries: 3})
	f.backoffBase = time.Millisecond
	return f
}

func TestHTTPFetcher_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "okved-cli/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("01,Растениеводство\n"))
	}))
	defer srv.Close()

	body, err := newTestFetcher().Download(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "01,Растениеводство\n", string(data))
}

func TestHTTPFetcher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := newTestFetcher().Download(context.Background(), srv.URL)
	require.NoError(t, err)
	body.Close()
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPFetcher_RetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all retries exhausted")
}

func TestHTTPFetcher_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newTestFetcher().Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestNewHTTPFetcher_NonPositiveOptionsUseDefaults(t *testing.T) {
	f := NewHTTPFetcher(HTTPOptions{MaxRetries: -1, Timeout: -time.Second})
	assert.Equal(t, 3, f.opts.MaxRetries)
	assert.Equal(t, 30*time.Second, f.opts.Timeout)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	assert.NotPanics(t, func() {
		body, err := f.Download(context.Background(), srv.URL)
		require.NoError(t, err)
		body.Close()
	})
}

func TestNewFTPFetcher_NonPositiveTimeout(t *testing.T) {
	f := NewFTPFetcher(FTPOptions{Timeout: -time.Second})
	assert.Equal(t, 30*time.Second, f.opts.Timeout)
}

func TestParseFTPURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPath string
		wantErr  bool
	}{
		{
			name:     "standard ftp url",
			url:      "ftp://ftp.example.com/pub/okved2.csv",
			wantHost: "ftp.example.com:21",
			wantPath: "/pub/okved2.csv",
		},
		{
			name:     "ftp url with port",
			url:      "ftp://ftp.example.com:2121/data/okved2.xlsx",
			wantHost: "ftp.example.com:2121",
			wantPath: "/data/okved2.xlsx",
		},
		{
			name:    "http scheme rejected",
			url:     "http://example.com/okved2.csv",
			wantErr: true,
		},
		{
			name:    "empty path",
			url:     "ftp://ftp.example.com",
			wantErr: true,
		},
		{
			name:    "invalid url",
			url:     "://bad",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, path, err := parseFTPURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/okved.csv"))
	assert.True(t, IsRemote("HTTP://example.com/okved.csv"))
	assert.True(t, IsRemote("ftp://example.com/okved.csv"))
	assert.False(t, IsRemote("/data/okved.csv"))
	assert.False(t, IsRemote("okved.xlsx"))
}

type stubFetcher struct {
	body string
	url  string
}

func (s *stubFetcher) Download(_ context.Context, rawURL string) (io.ReadCloser, error) {
	s.url = rawURL
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func TestOpener_RoutesByScheme(t *testing.T) {
	httpStub := &stubFetcher{body: "http"}
	ftpStub := &stubFetcher{body: "ftp"}
	o := &Opener{HTTP: httpStub, FTP: ftpStub}

	rc, err := o.Open(context.Background(), "ftp://host/okved.csv")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "ftp", string(data))
	assert.Equal(t, "ftp://host/okved.csv", ftpStub.url)

	rc, err = o.Open(context.Background(), "https://host/okved.csv")
	require.NoError(t, err)
	data, _ = io.ReadAll(rc)
	assert.Equal(t, "http", string(data))

	path := filepath.Join(t.TempDir(), "okved.csv")
	require.NoError(t, os.WriteFile(path, []byte("local"), 0o644))
	rc, err = o.Open(context.Background(), path)
	require.NoError(t, err)
	data, _ = io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "local", string(data))

	_, err = o.Open(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source: open file")
}

func TestOpener_Fetch(t *testing.T) {
	o := &Opener{HTTP: &stubFetcher{body: "payload"}}

	tmp, err := o.Fetch(context.Background(), "https://host/okved.xlsx", "okved-*.xlsx")
	require.NoError(t, err)
	defer os.Remove(tmp)

	data, err := os.ReadFile(tmp)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, ".xlsx", filepath.Ext(tmp))
}
