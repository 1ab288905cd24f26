package providers

import (
	"chat-relay/errors"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

const (
	blobName = "blob"
	// MaxBlobSize caps a fetched audio file.
	MaxBlobSize = 25 << 20

	maxBlobRedirects = 5
)

// HTTPBlobStore resolves a message content pointer to bytes. Pointers are paths under
// the base URL; an absolute URL is only accepted when it already lies under the base.
type HTTPBlobStore struct {
	client *http.Client
	base   *url.URL
}

// NewHTTPBlobStore returns a store that refuses every pointer when baseURL is empty
// or unparsable. Redirects are followed only while they stay under the base.
func NewHTTPBlobStore(client *http.Client, baseURL string) *HTTPBlobStore {
	if client == nil {
		client = http.DefaultClient
	}
	store := &HTTPBlobStore{}
	if base, err := url.Parse(strings.TrimRight(baseURL, "/")); err == nil && base.IsAbs() && base.Host != "" {
		store.base = base
	}

	restricted := *client
	restricted.CheckRedirect = func(request *http.Request, via []*http.Request) error {
		if len(via) >= maxBlobRedirects {
			return fmt.Errorf("%s: stopped after %d redirects", blobName, maxBlobRedirects)
		}
		if store.base == nil || !store.owns(request.URL) {
			return fmt.Errorf("%s: redirect to %s: %w", blobName, request.URL.Redacted(), errors.ErrForeignBlob)
		}
		return nil
	}
	store.client = &restricted
	return store
}

func (b *HTTPBlobStore) FetchBytes(ctx context.Context, pointer string) ([]byte, error) {
	endpoint, err := b.resolve(pointer)
	if err != nil {
		return nil, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", blobName, err)
	}
	response, err := do(b.client, request, blobName)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	data, err := io.ReadAll(io.LimitReader(response.Body, MaxBlobSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: reading body: %w", blobName, err)
	}
	if len(data) > MaxBlobSize {
		return nil, fmt.Errorf("%s: blob exceeds %d bytes", blobName, MaxBlobSize)
	}
	return data, nil
}

// resolve maps pointer to a URL under the base. Foreign hosts, other schemes, embedded
// credentials and paths escaping the base path are refused.
func (b *HTTPBlobStore) resolve(pointer string) (string, error) {
	if b.base == nil {
		return "", fmt.Errorf("%s: no base url configured: %w", blobName, errors.ErrForeignBlob)
	}
	parsed, err := url.Parse(pointer)
	if err != nil {
		return "", fmt.Errorf("%s: invalid pointer %q: %w", blobName, pointer, err)
	}

	var target *url.URL
	if parsed.Scheme != "" || parsed.Host != "" {
		target = parsed
		target.Path = path.Clean("/" + target.Path)
	} else {
		target = b.base.JoinPath(parsed.EscapedPath())
		target.RawQuery = parsed.RawQuery
	}
	target.RawPath = ""
	target.Fragment = ""

	if !b.owns(target) {
		return "", fmt.Errorf("%s: %q: %w", blobName, pointer, errors.ErrForeignBlob)
	}
	return target.String(), nil
}

func (b *HTTPBlobStore) owns(target *url.URL) bool {
	if target.User != nil || target.Scheme != b.base.Scheme || target.Host != b.base.Host {
		return false
	}
	basePath := strings.TrimRight(b.base.Path, "/")
	return basePath == "" || target.Path == basePath || strings.HasPrefix(target.Path, basePath+"/")
}
