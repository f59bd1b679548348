package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-parselet/pkg/source"
)

// Loader implements source.Loader by delegating to file, fs.FS, or HTTP
// strategies. Construction helpers live in the top-level parselet package.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	userAgent string
	maxBytes  int64
}

// Ensure the implementation satisfies the public interface.
var _ source.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options source.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		userAgent: options.UserAgent,
		maxBytes:  options.MaxBytes,
	}
}

// Load fetches the payload identified by src.
func (l *Loader) Load(ctx context.Context, src source.Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("source loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case source.KindFile:
		data, err = loadFile(ctx, src.Location(), l.maxBytes)
	case source.KindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location(), l.maxBytes)
	case source.KindURL:
		if !l.allowHTTP {
			return nil, errors.New("source loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, httpRequest{
			url:       src.Location(),
			timeout:   l.timeout,
			userAgent: l.userAgent,
			maxBytes:  l.maxBytes,
		})
	case source.KindMemory:
		err = errors.New("source loader: memory sources carry their own payload")
	default:
		err = errors.New("source loader: unsupported source kind")
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("source loader: " + src.Location() + " is empty")
	}
	return data, nil
}
