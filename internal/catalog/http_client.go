package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shelfmark/engagement-api/internal/cache"
	"github.com/shelfmark/engagement-api/internal/pkg/log"
	platformconfig "github.com/shelfmark/engagement-api/internal/platform/config"
)

// httpClient is the production implementation of the Client interface. It
// POSTs command envelopes to the library service and caches positive and
// negative answers in redis (existence rarely flips, and the fan-out path
// asks the same questions repeatedly).
type httpClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Service
}

// NewHTTPClient creates a catalog client against the configured library
// service. The cache may be nil.
func NewHTTPClient(config *platformconfig.LibraryConfig, cacheService *cache.Service) (Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("library base URL cannot be empty")
	}
	return &httpClient{
		baseURL:    config.BaseURL,
		httpClient: &http.Client{Timeout: config.Timeout},
		cache:      cacheService,
	}, nil
}

type commandResponse struct {
	Has bool `json:"has"`
}

func (c *httpClient) HasBook(ctx context.Context, bookID uint32) (bool, error) {
	cacheKey := fmt.Sprintf("catalog:book:%d", bookID)
	if has, ok := c.cachedAnswer(ctx, cacheKey); ok {
		return has, nil
	}

	body := struct {
		Kind   string `json:"kind"`
		BookID uint32 `json:"book_id"`
	}{
		Kind:   "has_book",
		BookID: bookID,
	}

	has, err := c.command(ctx, body)
	if err != nil {
		return false, err
	}

	c.storeAnswer(ctx, cacheKey, has)
	return has, nil
}

func (c *httpClient) HasBookTag(ctx context.Context, tagKind, tagName string) (bool, error) {
	cacheKey := fmt.Sprintf("catalog:tag:%s:%s", tagKind, tagName)
	if has, ok := c.cachedAnswer(ctx, cacheKey); ok {
		return has, nil
	}

	body := struct {
		Kind    string `json:"kind"`
		TagKind string `json:"tag_kind"`
		TagName string `json:"tag_name"`
	}{
		Kind:    "has_book_tag",
		TagKind: tagKind,
		TagName: tagName,
	}

	has, err := c.command(ctx, body)
	if err != nil {
		return false, err
	}

	c.storeAnswer(ctx, cacheKey, has)
	return has, nil
}

func (c *httpClient) command(ctx context.Context, body interface{}) (bool, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return false, fmt.Errorf("failed to encode catalog command: %w", err)
	}

	url := fmt.Sprintf("%s/command", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to call catalog service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("catalog service returned status %d", resp.StatusCode)
	}

	var cmdResp commandResponse
	if err := json.NewDecoder(resp.Body).Decode(&cmdResp); err != nil {
		return false, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return cmdResp.Has, nil
}

func (c *httpClient) cachedAnswer(ctx context.Context, key string) (has, ok bool) {
	val, found, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Warn("catalog cache read failed: %v", err)
		return false, false
	}
	if !found {
		return false, false
	}
	return val == "1", true
}

func (c *httpClient) storeAnswer(ctx context.Context, key string, has bool) {
	val := "0"
	if has {
		val = "1"
	}
	if err := c.cache.Set(ctx, key, val); err != nil {
		log.Warn("catalog cache write failed: %v", err)
	}
}
