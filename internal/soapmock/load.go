package soapmock

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/getmockd/mockrunner/pkg/api"
	"github.com/getmockd/mockrunner/pkg/boundary"
)

// maxProjectSize bounds project documents fetched over HTTP.
const maxProjectSize = 64 << 20

// loadProject reads the project document at loc. Classpath locations are
// looked up through the boundary carried by ctx.
func loadProject(ctx context.Context, loc *url.URL) ([]byte, error) {
	switch strings.ToLower(loc.Scheme) {
	case "", "file":
		return os.ReadFile(filePath(loc))
	case "http", "https":
		return fetchProject(ctx, loc)
	case "classpath":
		return readClasspath(ctx, loc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, loc.Scheme)
	}
}

func filePath(loc *url.URL) string {
	p := loc.Path
	if p == "" {
		p = loc.Opaque
	}
	return filepath.FromSlash(p)
}

func fetchProject(ctx context.Context, loc *url.URL) ([]byte, error) {
	client, err := boundary.Symbol[*http.Client](ctx, api.SymbolHTTPClient)
	if err != nil || client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch project %s: status %d", loc.Redacted(), resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxProjectSize))
}

func readClasspath(ctx context.Context, loc *url.URL) ([]byte, error) {
	loader, ok := boundary.FromContext(ctx)
	if !ok {
		return nil, boundary.ErrNoContextBoundary
	}
	name := loc.Opaque
	if name == "" {
		name = loc.Path
	}
	location, ok := loader.LoadResource(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}
	return boundary.ReadResource(location)
}
