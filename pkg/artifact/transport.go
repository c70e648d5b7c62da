package artifact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

// transportError is a repository failure other than a missing file.
type transportError struct {
	Repository string
	URL        string
	Err        error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("repository %s: %s: %v", e.Repository, e.URL, e.Err)
}

func (e *transportError) Unwrap() error { return e.Err }

// transport downloads repository files into the local repository.
type transport struct {
	local   string
	client  *http.Client
	logger  *slog.Logger
	metrics *Metrics

	mu      sync.Mutex
	proxied map[string]*http.Client
}

// localPath returns where c lives in the local repository.
func (t *transport) localPath(c Coordinate) string {
	return filepath.Join(t.local, filepath.FromSlash(c.Path()))
}

// fetch returns the local path of c, downloading it from the first repository
// that has it. A nil error with an empty path means no repository has the
// file. When nothing was found and any repository failed, the first failure
// is returned.
func (t *transport) fetch(ctx context.Context, c Coordinate, repos []Repository) (string, error) {
	dst := t.localPath(c)
	if isFile(dst) {
		return dst, nil
	}

	var firstErr error
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		ok, err := t.download(ctx, repo, c, dst)
		if err != nil {
			t.logger.Debug("transfer failed", "repository", repo.ID, "artifact", c.String(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			return dst, nil
		}
	}
	return "", firstErr
}

func (t *transport) download(ctx context.Context, repo Repository, c Coordinate, dst string) (bool, error) {
	u := repo.fileURL(c.Path())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, &transportError{Repository: repo.ID, URL: u, Err: err}
	}

	resp, err := t.clientFor(repo).Do(req)
	if err != nil {
		t.metrics.transfer(repo.ID, resultError, 0)
		return false, &transportError{Repository: repo.ID, URL: u, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		t.metrics.transfer(repo.ID, resultNotFound, 0)
		t.logger.Debug("not in repository", "repository", repo.ID, "url", u)
		return false, nil
	case resp.StatusCode != http.StatusOK:
		t.metrics.transfer(repo.ID, resultError, 0)
		return false, &transportError{Repository: repo.ID, URL: u, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	n, err := writeFile(dst, resp.Body)
	if err != nil {
		t.metrics.transfer(repo.ID, resultError, n)
		return false, &transportError{Repository: repo.ID, URL: u, Err: err}
	}
	t.metrics.transfer(repo.ID, resultOK, n)
	t.logger.Debug("downloaded", "repository", repo.ID, "url", u, "bytes", n)
	return true, nil
}

// clientFor returns the HTTP client for repo, routed through its proxy.
func (t *transport) clientFor(repo Repository) *http.Client {
	if repo.Proxy == nil {
		return t.client
	}

	key := repo.Proxy.URL().String()
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.proxied[key]; ok {
		return c
	}

	var tr *http.Transport
	if base, ok := t.client.Transport.(*http.Transport); ok {
		tr = base.Clone()
	} else {
		tr = http.DefaultTransport.(*http.Transport).Clone()
	}
	tr.Proxy = http.ProxyURL(repo.Proxy.URL())

	c := &http.Client{Transport: tr, Timeout: t.client.Timeout}
	if t.proxied == nil {
		t.proxied = make(map[string]*http.Client)
	}
	t.proxied[key] = c
	return c
}

// writeFile streams r into dst through a temporary file in the same directory.
func writeFile(dst string, r io.Reader) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), dst)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return n, err
	}
	return n, nil
}
