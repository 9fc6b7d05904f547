package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher resolves an asset URL into its raw bytes.
type Fetcher interface {
	Fetch(ctx context.Context, assetURL string) ([]byte, error)
}

// ResourceFetcher serves "/assets/<name>" style URLs either from a local
// directory or, when BaseURL is set, from a remote server. Absolute http(s)
// URLs are always fetched over the network.
type ResourceFetcher struct {
	// Root is the local directory mapped onto PathPrefix.
	Root string
	// BaseURL, when set, is joined with relative asset URLs.
	BaseURL string
	// PathPrefix is stripped from relative URLs before they are mapped onto Root.
	PathPrefix string
	Client     *http.Client
}

func NewResourceFetcher(root, baseURL, pathPrefix string) *ResourceFetcher {
	return &ResourceFetcher{
		Root:       root,
		BaseURL:    baseURL,
		PathPrefix: pathPrefix,
		Client:     http.DefaultClient,
	}
}

func (rf *ResourceFetcher) Fetch(ctx context.Context, assetURL string) ([]byte, error) {
	u, err := url.Parse(strings.Replace(assetURL, `\`, `/`, -1))
	if err != nil {
		return nil, err
	}

	if u.Scheme == "" && rf.BaseURL != "" {
		base, err := url.Parse(rf.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("resource: invalid base url '%s': %w", rf.BaseURL, err)
		}
		u = base.ResolveReference(u)
	}

	switch u.Scheme {
	case "":
		return rf.readLocal(u.Path)
	case "http", "https":
		return rf.readRemote(ctx, u)
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", u.Scheme)
	}
}

func (rf *ResourceFetcher) readLocal(p string) ([]byte, error) {
	rel := strings.TrimPrefix(p, rf.PathPrefix)
	rel = strings.TrimPrefix(filepath.Clean("/"+rel), "/")
	return os.ReadFile(filepath.Join(rf.Root, filepath.FromSlash(rel)))
}

func (rf *ResourceFetcher) readRemote(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	client := rf.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resource: could not fetch '%s': %w", u.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("resource: could not fetch '%s': status %d", u.String(), resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
