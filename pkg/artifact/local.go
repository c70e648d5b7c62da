package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// EnvLocalRepository names a local repository directory.
	EnvLocalRepository = "M2_REPO"

	// FallbackLocalRepository is created when no other local repository exists.
	FallbackLocalRepository = "target/mockrunner-repo"
)

// LocalRepository returns the local repository directory. Candidates are, in
// order: $M2_REPO, ~/.m2/repository and FallbackLocalRepository. The first
// existing candidate wins; the fallback is created when nothing else exists.
func LocalRepository() (string, error) {
	for _, candidate := range localCandidates() {
		if isDir(candidate) {
			return candidate, nil
		}
	}

	dir, err := filepath.Abs(FallbackLocalRepository)
	if err != nil {
		return "", fmt.Errorf("cannot resolve local repository: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create local repository %s: %w", dir, err)
	}
	return dir, nil
}

func localCandidates() []string {
	var candidates []string
	if dir := os.Getenv(EnvLocalRepository); dir != "" {
		candidates = append(candidates, dir)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		candidates = append(candidates, filepath.Join(home, ".m2", "repository"))
	}
	return candidates
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
