// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package chunked

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/masterpiece/internal/breaker"
)

const maxErrorBodySize = 64 * 1024

// ErrNotFound is returned by a Source when the named file does not exist.
var ErrNotFound = errors.New("chunked: file not found")

// Source opens dataset files by name (the manifest, a chunk or the
// monolithic fallback). Implementations must honor ctx.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FSSource reads files from a directory of an fs.FS.
type FSSource struct {
	FS  fs.FS
	Dir string
}

// Open implements Source.
func (s FSSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := name
	if s.Dir != "" && s.Dir != "." {
		p = path.Join(s.Dir, name)
	}
	f, err := s.FS.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, err
	}
	return f, nil
}

// HTTPSourceConfig configures an HTTPSource.
type HTTPSourceConfig struct {
	// BaseURL is the directory URL holding the files.
	BaseURL string

	// Timeout per request. Ignored when Client is set.
	Timeout time.Duration

	// RequestsPerSecond limits outbound requests. Zero means unlimited.
	RequestsPerSecond float64

	// MaxBytes bounds a single response body.
	MaxBytes int64

	// Client overrides the default http.Client.
	Client *http.Client
}

// HTTPSource fetches files relative to a base URL. Requests are rate limited
// and go through a circuit breaker so a failing CDN is not hammered by
// periodic reloads.
type HTTPSource struct {
	base     *url.URL
	client   *http.Client
	limiter  *rate.Limiter
	breaker  *breaker.Breaker[[]byte]
	maxBytes int64
}

// NewHTTPSource validates cfg and returns a source.
func NewHTTPSource(cfg HTTPSourceConfig) (*HTTPSource, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid music base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("music base URL must be http or https, got %q", base.Scheme)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &HTTPSource{
		base:     base,
		client:   client,
		limiter:  limiter,
		breaker:  breaker.New[[]byte](breaker.Settings{Name: "music-cdn"}),
		maxBytes: maxBytes,
	}, nil
}

// Open implements Source. The body is read fully inside the breaker so that
// truncated transfers count as failures.
func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("invalid file name %q: %w", name, err)
	}
	target := s.base.ResolveReference(ref)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := s.breaker.Execute(func() ([]byte, error) {
		return s.fetch(ctx, target.String())
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (s *HTTPSource) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s failed with status %d: %s", target, resp.StatusCode, readBodyForError(resp.Body))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("GET %s: reading body: %w", target, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, target, s.maxBytes)
	}
	return data, nil
}

// BreakerState reports the circuit state for health output.
func (s *HTTPSource) BreakerState() string {
	return s.breaker.State()
}

func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	if len(body) == maxErrorBodySize {
		return string(body) + "\n... (truncated)"
	}
	return string(body)
}
