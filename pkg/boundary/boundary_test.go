package boundary

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockrunner/pkg/api"
)

type stubService struct{ running bool }

func (s *stubService) Start(context.Context, *api.Task) error {
	s.running = true
	return nil
}

func (s *stubService) Stop() error {
	s.running = false
	return nil
}

func (s *stubService) IsRunning() bool {
	return s.running
}

func stubRegistry(t *testing.T, names ...string) *api.Registry {
	t.Helper()
	reg := api.NewRegistry()
	for _, name := range names {
		require.NoError(t, reg.Register(name, func() api.MockService { return &stubService{} }))
	}
	return reg
}

// writeJar creates a zip archive holding the given entries.
func writeJar(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func newTestBoundary(t *testing.T, classpath ...string) *Boundary {
	t.Helper()
	f := &Factory{
		Classpath:       StaticClasspath(classpath),
		Parent:          hostNamespace(),
		Rules:           DefaultRules(),
		Implementations: stubRegistry(t, "mockrunner.internal.soapmock.SimpleRunner"),
	}
	b, err := f.CreateBoundary(context.Background())
	require.NoError(t, err)
	return b
}

func TestBoundary_LoadSymbol_ParentFirst(t *testing.T) {
	b := newTestBoundary(t)

	v, err := b.LoadSymbol("std.slog.Logger")
	require.NoError(t, err)
	assert.Equal(t, "logger", v)

	// The host copy is blocked, so the boundary's own implementation answers.
	v, err = b.LoadSymbol("mockrunner.internal.soapmock.SimpleRunner")
	require.NoError(t, err)
	factory, ok := v.(api.Factory)
	require.True(t, ok)
	assert.False(t, factory().IsRunning())

	_, err = b.LoadSymbol("org.example.Thing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = b.LoadSymbol("soap.Missing")
	assert.True(t, errors.Is(err, ErrDenied))
}

func TestBoundary_LoadResource_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "projects"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects", "weather.xml"), []byte("<project/>"), 0o644))

	b := newTestBoundary(t, dir)

	loc, ok := b.LoadResource("/projects/weather.xml")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "projects", "weather.xml"), loc)

	data, err := ReadResource(loc)
	require.NoError(t, err)
	assert.Equal(t, "<project/>", string(data))

	_, ok = b.LoadResource("projects/missing.xml")
	assert.False(t, ok)
}

func TestBoundary_LoadResource_Archive(t *testing.T) {
	jar := filepath.Join(t.TempDir(), "impl-1.0.jar")
	writeJar(t, jar, map[string]string{"projects/weather.xml": "<from-jar/>"})

	b := newTestBoundary(t, jar)

	loc, ok := b.LoadResource("projects/weather.xml")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(loc, "jar:file:"))
	assert.True(t, strings.HasSuffix(loc, "!/projects/weather.xml"))

	data, err := ReadResource(loc)
	require.NoError(t, err)
	assert.Equal(t, "<from-jar/>", string(data))
}

func TestBoundary_LoadResource_HostWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "mockrunner", "api"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mockrunner", "api", "schema.xsd"), []byte("local"), 0o644))

	b := newTestBoundary(t, dir)
	loc, ok := b.LoadResource("mockrunner/api/schema.xsd")
	require.True(t, ok)
	assert.Equal(t, "/host/schema.xsd", loc)
}

func TestBoundary_Accessors(t *testing.T) {
	dir := t.TempDir()
	b := newTestBoundary(t, dir, dir)

	assert.NotEmpty(t, b.ID())
	assert.Equal(t, []string{dir}, b.Classpath())
	assert.Equal(t, DefaultRules(), b.Rules())
	assert.Equal(t, []string{"mockrunner.internal.soapmock.SimpleRunner"}, b.Implementations())

	other := newTestBoundary(t)
	assert.NotEqual(t, b.ID(), other.ID())
}

func TestOpenResource_Errors(t *testing.T) {
	_, err := OpenResource("jar:file:/nowhere.jar")
	assert.Error(t, err)

	jar := filepath.Join(t.TempDir(), "a.jar")
	writeJar(t, jar, map[string]string{"x.txt": "x"})
	_, err = OpenResource("jar:file:" + jar + "!/y.txt")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = OpenResource(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpenResource_FileURL(t *testing.T) {
	p := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(p, []byte("hello"), 0o644))

	data, err := ReadResource("file://" + filepath.ToSlash(p))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
