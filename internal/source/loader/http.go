package loader

import (
	"context"
	"errors"
	"net/http"
	"time"
)

type httpRequest struct {
	url       string
	timeout   time.Duration
	userAgent string
	maxBytes  int64
}

func loadHTTP(ctx context.Context, client *http.Client, in httpRequest) ([]byte, error) {
	if client == nil {
		return nil, errors.New("source loader: http client is not configured")
	}
	if in.url == "" {
		return nil, errors.New("source loader: url is required")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if in.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, in.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, in.url, nil)
	if err != nil {
		return nil, err
	}
	if in.userAgent != "" {
		req.Header.Set("User-Agent", in.userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("source loader: unexpected status " + resp.Status)
	}

	return readLimited(resp.Body, in.maxBytes)
}
