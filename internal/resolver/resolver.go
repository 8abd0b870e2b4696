package resolver

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/fx"

	"tweet2sky/pkg/logger"
)

// resolveTimeout bounds how long a single expansion may take. When it
// expires the shortened URL is returned as-is.
const resolveTimeout = 10 * time.Second

// Resolver expands a possibly-shortened link to its canonical form.
type Resolver interface {
	// Resolve never fails: on timeout or network error it returns url
	// unchanged so the pipeline always makes progress.
	Resolve(ctx context.Context, url string) string
}

type Opts struct {
	fx.In

	Logger logger.Logger
}

type HTTP struct {
	Client *http.Client
	Logger logger.Logger
}

func New(opts Opts) *HTTP {
	return &HTTP{
		Client: &http.Client{Timeout: resolveTimeout},
		Logger: opts.Logger.WithComponent("URLResolver"),
	}
}

var _ Resolver = (*HTTP)(nil)

func (r *HTTP) Resolve(ctx context.Context, url string) string {
	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return url
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		r.Logger.Debug("URL resolution failed, keeping original", "url", url, "error", err)
		return url
	}
	defer resp.Body.Close()

	// The default client follows redirects, so the request URL after Do is
	// the canonical destination.
	final := resp.Request.URL.String()
	if final == "" {
		return url
	}
	return final
}
