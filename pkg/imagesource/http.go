// Package imagesource acquires the raw image bytes the pipeline runs on,
// either over HTTP (production scans) or from a local demo directory tree
// (simulation runs), funneling both into the same [][]byte shape the
// imaging and pipeline packages consume.
package imagesource

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/inonelg/housecheck/pkg/config"
)

const (
	maxImageBytes  = 50_000_000
	minImageBytes  = 100
	maxURLLength   = 2048
	fetchUserAgent = "HouseCheck/2.0 Image Fetcher"
	maxConcurrent  = 5
)

var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
	"image/gif":  true,
}

// Fetcher fetches images from HTTP(S) URLs, subject to content-type and
// size checks and, unless AllowLocalhostURLs is set, a block on
// loopback/private-network hosts.
type Fetcher struct {
	client         *http.Client
	allowLocalhost bool
}

// NewFetcher builds a Fetcher from security configuration.
func NewFetcher(security config.SecurityConfig) *Fetcher {
	return &Fetcher{
		client:         &http.Client{},
		allowLocalhost: security.AllowLocalhostURLs,
	}
}

// FetchURLs fetches every URL concurrently (capped at maxConcurrent
// in-flight requests) and returns the bytes of every image that fetched
// successfully, in no guaranteed order. Individual failures are logged
// and dropped rather than aborting the whole batch — a single bad image
// URL never fails an entire room.
func (f *Fetcher) FetchURLs(ctx context.Context, urls []string) [][]byte {
	if len(urls) == 0 {
		return nil
	}

	sem := make(chan struct{}, maxConcurrent)
	results := make([][]byte, len(urls))
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := f.fetchSingle(ctx, u)
			if err != nil {
				slog.Warn("image fetch failed", "url", u, "error", err)
				return
			}
			results[i] = data
		}(i, u)
	}
	wg.Wait()

	fetched := make([][]byte, 0, len(urls))
	for _, data := range results {
		if data != nil {
			fetched = append(fetched, data)
		}
	}
	return fetched
}

func (f *Fetcher) fetchSingle(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.validateURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &httpStatusError{status: resp.StatusCode}
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0]))
	if !imageContentTypes[contentType] {
		return nil, errNonImageContentType
	}

	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.Atoi(cl); err == nil && n > maxImageBytes {
			return nil, errImageTooLarge
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, errImageTooLarge
	}
	if len(data) < minImageBytes {
		return nil, errImageTooSmall
	}

	return data, nil
}

// validateURL rejects URLs that are malformed, use a scheme other than
// http/https, lack a hostname, exceed the length limit, or (unless the
// security configuration opts in) target localhost or an obviously
// private network.
func (f *Fetcher) validateURL(rawURL string) error {
	if len(rawURL) > maxURLLength {
		return errURLTooLong
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errUnsupportedScheme
	}
	host := parsed.Hostname()
	if host == "" {
		return errMissingHostname
	}

	if !f.allowLocalhost {
		if host == "localhost" || host == "127.0.0.1" || host == "::1" {
			return errBlockedLocalhost
		}
		if strings.HasPrefix(host, "10.") || strings.HasPrefix(host, "192.168.") || strings.HasPrefix(host, "172.") {
			return errBlockedPrivateNetwork
		}
	}

	return nil
}
