package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"tweet2sky/pkg/logger"
)

func newResolver() *HTTP {
	return New(Opts{Logger: logger.NewNop()})
}

func TestResolveFollowsRedirects(t *testing.T) {
	var target string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/short":
			http.Redirect(w, r, "/canonical", http.StatusMovedPermanently)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()
	target = srv.URL + "/canonical"

	got := newResolver().Resolve(context.Background(), srv.URL+"/short")
	assert.Equal(t, target, got)
}

func TestResolveReturnsInputOnNetworkError(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL + "/gone"
	srv.Close()

	got := newResolver().Resolve(context.Background(), url)
	assert.Equal(t, url, got)
}

func TestResolveReturnsInputOnUnparsableURL(t *testing.T) {
	got := newResolver().Resolve(context.Background(), "http://%zz invalid")
	assert.Equal(t, "http://%zz invalid", got)
}

func TestResolveReturnsInputOnCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	url := srv.URL + "/short"
	got := newResolver().Resolve(ctx, url)
	assert.Equal(t, url, got)
}
