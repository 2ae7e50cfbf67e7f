package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/go-resty/resty/v2"

	"github.com/bluebrandly-api/internal/domain"
)

// ImageProxyService fetches remote images for relay, with an optional
// cache in front. Cache failures never fail the relay.
type ImageProxyService struct {
	fetcher ImageFetcher
	cache   ImageCache
	logger  *slog.Logger
}

// NewImageProxyService creates a new image proxy; cache may be nil
func NewImageProxyService(fetcher ImageFetcher, cache ImageCache, logger *slog.Logger) *ImageProxyService {
	return &ImageProxyService{
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
	}
}

// Fetch returns the image behind rawURL. Only http and https URLs are
// relayed.
func (s *ImageProxyService) Fetch(ctx context.Context, rawURL string) (string, []byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", nil, domain.ErrInvalidRequest
	}

	if s.cache != nil {
		if ct, body, ok := s.cache.Get(ctx, rawURL); ok {
			return ct, body, nil
		}
	}

	contentType, body, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("fetching image: %w", err)
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rawURL, contentType, body); err != nil {
			s.logger.Warn("image cache write failed", "url", rawURL, "error", err)
		}
	}

	return contentType, body, nil
}

// HTTPFetcher is the default ImageFetcher over plain HTTP
type HTTPFetcher struct {
	httpClient *resty.Client
}

// NewHTTPFetcher creates an HTTP image fetcher
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{httpClient: resty.New()}
}

// Fetch downloads the image and reports its content type
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, []byte, error) {
	resp, err := f.httpClient.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.IsError() {
		return "", nil, fmt.Errorf("fetching image: unexpected status code: %d", resp.StatusCode())
	}
	return resp.Header().Get("Content-Type"), resp.Body(), nil
}
