// Package imageio resolves image sources to bytes, decodes photographs and
// encodes annotated exports.
package imageio

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 64 << 20
	userAgent       = "champimark/1.0"
)

var ErrTooLarge = errors.New("image exceeds size limit")

// Fetcher reads image bytes from paths, file:// and http(s):// URLs and
// data: URLs.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// FetchOption configures a Fetcher.
type FetchOption func(*Fetcher)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) FetchOption { return func(f *Fetcher) { f.client = c } }

// WithMaxBytes limits how much is read from any source.
func WithMaxBytes(n int64) FetchOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...FetchOption) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: DefaultTimeout},
		maxBytes: DefaultMaxBytes,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch returns the raw bytes behind src.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return f.limit(decodeDataURL(src))
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return f.fetchHTTP(ctx, src)
	case strings.HasPrefix(src, "file://"):
		u, err := url.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("invalid file URL: %w", err)
		}
		return f.readFile(u.Path)
	case strings.Contains(src, "://"):
		return nil, fmt.Errorf("unsupported image source scheme in %q", src)
	}
	return f.readFile(src)
}

// Load fetches and decodes src.
func (f *Fetcher) Load(ctx context.Context, src string) (image.Image, error) {
	data, err := f.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Describe(src), err)
	}
	return img, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: HTTP %s", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "application/octet-stream") {
		return nil, fmt.Errorf("download image: unexpected Content-Type %s", ct)
	}
	return f.readAll(resp.Body)
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return f.readAll(fh)
}

func (f *Fetcher) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return f.limit(data, nil)
}

func (f *Fetcher) limit(data []byte, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// decodeDataURL handles data:[<mediatype>][;base64],<data>.
func decodeDataURL(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URL")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// some encoders drop the padding
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return nil, fmt.Errorf("data URL: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("data URL: %w", err)
	}
	return []byte(s), nil
}

// Describe shortens data URLs for error messages and logs.
func Describe(src string) string {
	if strings.HasPrefix(src, "data:") {
		meta, _, _ := strings.Cut(src, ",")
		return meta + ",..."
	}
	return src
}
