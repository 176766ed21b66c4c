// Package assets loads agency branding images (logo, signature) referenced
// by URL in the agency settings.
package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultMaxSize bounds the size of a fetched asset.
const DefaultMaxSize = 5 << 20

// ErrTooLarge is returned for assets larger than the configured maximum.
var ErrTooLarge = errors.New("assets: asset exceeds maximum size")

// GetObjectAPI is the part of *s3.Client used to read s3:// references.
type GetObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Fetcher resolves asset references. Supported forms are http(s) URLs,
// s3://bucket/key, data: URLs with base64 payloads, file:// URLs and plain
// file paths.
type Fetcher struct {
	client  *http.Client
	s3      GetObjectAPI
	maxSize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the client used for http(s) references.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithS3 enables s3:// references.
func WithS3(c GetObjectAPI) Option {
	return func(f *Fetcher) {
		f.s3 = c
	}
}

// WithMaxSize sets the largest accepted asset in bytes.
func WithMaxSize(n int64) Option {
	return func(f *Fetcher) {
		f.maxSize = n
	}
}

// NewFetcher creates a Fetcher with a 10 second HTTP timeout.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{Timeout: 10 * time.Second},
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the bytes referenced by ref.
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, errors.New("assets: empty reference")
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return f.fetchHTTP(ctx, ref)
	case strings.HasPrefix(ref, "s3://"):
		return f.fetchS3(ctx, ref)
	case strings.HasPrefix(ref, "data:"):
		return f.decodeData(ref)
	case strings.HasPrefix(ref, "file://"):
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("assets: parsing %s: %w", ref, err)
		}
		return f.readFile(u.Path)
	}
	return f.readFile(ref)
}

func (f *Fetcher) fetchHTTP(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assets: fetching %s: %w", ref, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("assets: fetching %s: http status %d", ref, resp.StatusCode)
	}
	return f.readLimited(resp.Body)
}

func (f *Fetcher) fetchS3(ctx context.Context, ref string) ([]byte, error) {
	if f.s3 == nil {
		return nil, fmt.Errorf("assets: no s3 client configured for %s", ref)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(ref, "s3://"), "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("assets: invalid s3 reference %s", ref)
	}
	out, err := f.s3.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, fmt.Errorf("assets: fetching %s: %w", ref, err)
	}
	defer out.Body.Close()
	return f.readLimited(out.Body)
}

func (f *Fetcher) decodeData(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("assets: only base64 data URLs are supported")
	}
	if int64(base64.StdEncoding.DecodedLen(len(payload))) > f.maxSize {
		return nil, ErrTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("assets: decoding data URL: %w", err)
	}
	return data, nil
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	defer fh.Close()
	return f.readLimited(fh)
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("assets: reading: %w", err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, ErrTooLarge
	}
	return data, nil
}
