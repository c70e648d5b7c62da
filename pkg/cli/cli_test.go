package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockrunner/pkg/config"
)

const projectFile = "../../internal/soapmock/testdata/weather-soapui-project.xml"

// syncBuffer is a bytes.Buffer safe for a writer and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// resetFlags returns every flag to its default so commands can run more
// than once per process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(ctx context.Context, stdout, stderr io.Writer, args ...string) error {
	resetFlags(rootCmd)
	// subcommands keep the context of their first execution
	for _, c := range rootCmd.Commands() {
		c.SetContext(ctx)
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), &stdout, &stderr, args...)
	return stdout.String(), err
}

// writeConfig writes a config file that resolves nothing.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mockrunner.yaml")
	data := "artifacts: []\nlocalRepository: " + t.TempDir() + "\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestVersion(t *testing.T) {
	out, err := executeCommand(t, "version", "--json")
	require.NoError(t, err)

	var v VersionOutput
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "5.1.2", v.SoapUI)
	assert.Equal(t, config.DefaultArtifact(), v.Artifact)
	assert.NotEmpty(t, v.Go)

	out, err = executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mockrunner ")
	assert.Contains(t, out, "soapui 5.1.2")
}

func TestCheck(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := executeCommand(t, "check", "-c", cfg, "--json",
		"std.slog.Logger", config.DefaultImplementation, "com.example.Other")
	require.NoError(t, err)

	var results []CheckOutput
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)

	assert.Equal(t, "allow", results[0].Decision)
	assert.Equal(t, "std.", results[0].Rule)
	assert.True(t, results[0].Visible)

	assert.Equal(t, "block", results[1].Decision)
	assert.Equal(t, "mockrunner.internal.", results[1].Rule)
	assert.False(t, results[1].Visible)

	assert.Equal(t, "not-allowed", results[2].Decision)
	assert.False(t, results[2].Allowed)
}

func TestCheck_ExtraRules(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := executeCommand(t, "check", "-c", cfg, "--allow", "com.example.", "com.example.Other")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Regexp(t, `com\.example\.Other\s+allow\s+com\.example\.\s+false`, out)

	// flags do not leak into the next invocation
	out, err = executeCommand(t, "check", "-c", cfg, "com.example.Other")
	require.NoError(t, err)
	assert.Regexp(t, `com\.example\.Other\s+not-allowed\s+-\s+false`, out)
}

func TestCheck_RequiresName(t *testing.T) {
	_, err := executeCommand(t, "check")
	assert.Error(t, err)
}

func TestConfig_Sources(t *testing.T) {
	t.Setenv(config.EnvLogFormat, "json")
	cfg := writeConfig(t, "")

	out, err := executeCommand(t, "config", "-c", cfg, "--sources", "--log-level", "debug", "--json")
	require.NoError(t, err)

	var sources map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &sources))
	assert.Equal(t, config.SourceFile, sources["artifacts"])
	assert.Equal(t, config.SourceEnv, sources["log.format"])
	assert.Equal(t, config.SourceFlag, sources["log.level"])
	assert.Equal(t, config.SourceDefault, sources["implementation"])
}

func TestConfig_Show(t *testing.T) {
	cfg := writeConfig(t, "task:\n  project: weather.xml\n  port: 9000\n")

	out, err := executeCommand(t, "config", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "implementation: "+config.DefaultImplementation)
	assert.Contains(t, out, "project: weather.xml")
	assert.Contains(t, out, "port: 9000")
}

func TestConfig_MissingFile(t *testing.T) {
	_, err := executeCommand(t, "config", "-c", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, config.ErrFileNotFound)
}

func TestResolve_Nothing(t *testing.T) {
	out, err := executeCommand(t, "resolve", "-c", writeConfig(t, ""), "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestResolve_Coordinates(t *testing.T) {
	var jar bytes.Buffer
	zw := zip.NewWriter(&jar)
	_, err := zw.Create("META-INF/MANIFEST.MF")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	files := map[string][]byte{
		"com/example/weather-mock/1.0.0/weather-mock-1.0.0.pom": []byte(`<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <groupId>com.example</groupId>
  <artifactId>weather-mock</artifactId>
  <version>1.0.0</version>
</project>`),
		"com/example/weather-mock/1.0.0/weather-mock-1.0.0.jar": jar.Bytes(),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := files[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	cfg := writeConfig(t, "repositories:\n  - id: test\n    url: "+srv.URL+"/\n")
	local := t.TempDir()

	out, err := executeCommand(t, "resolve", "-c", cfg, "--local-repo", local, "com.example:weather-mock:1.0.0")
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(local, "com", "example", "weather-mock", "1.0.0", "weather-mock-1.0.0.jar")+"\n",
		out)
}

func TestResolve_InvalidCoordinate(t *testing.T) {
	_, err := executeCommand(t, "resolve", "-c", writeConfig(t, ""), "not-a-coordinate")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRun(t *testing.T) {
	port := freePort(t)
	cfg := writeConfig(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	errc := make(chan error, 1)
	go func() {
		errc <- execute(ctx, &stdout, &stderr, "run", "-c", cfg,
			"--project", projectFile,
			"--service", "WeatherMock",
			"--host", "127.0.0.1",
			"--port", strconv.Itoa(port),
			"--path", "/weather")
	}()

	endpoint := "http://127.0.0.1:" + strconv.Itoa(port) + "/weather"
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), endpoint)
	}, 10*time.Second, 20*time.Millisecond, "stderr: %s", stderr.String())

	resp, err := http.Get(endpoint + "?wsdl")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
	assert.Contains(t, stderr.String(), "mock service stopped")
}

func TestRun_MissingProject(t *testing.T) {
	_, err := executeCommand(t, "run", "-c", writeConfig(t, ""))
	assert.ErrorContains(t, err, "project")
}
