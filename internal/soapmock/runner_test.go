package soapmock

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockrunner/pkg/api"
	"github.com/getmockd/mockrunner/pkg/boundary"
	"github.com/getmockd/mockrunner/pkg/logging"
)

const getWeatherRequest = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:wea="http://example.com/weather">
  <soapenv:Body><wea:GetWeather><wea:city>Oslo</wea:city></wea:GetWeather></soapenv:Body>
</soapenv:Envelope>`

func projectTask(t *testing.T, name string) *api.Task {
	t.Helper()
	task, err := api.NewTask().WithProjectFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return task.WithHost("127.0.0.1").WithPort(0)
}

func startRunner(t *testing.T, ctx context.Context, task *api.Task) *SimpleRunner {
	t.Helper()
	r := NewSimpleRunner()
	require.NoError(t, r.Start(ctx, task))
	t.Cleanup(func() { _ = r.Stop() })
	return r
}

func callSOAP(t *testing.T, client *http.Client, endpoint, action, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	if action != "" {
		req.Header.Set("SOAPAction", `"`+action+`"`)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestSimpleRunner_Registered(t *testing.T) {
	f, ok := api.DefaultRegistry.Lookup(Name)
	require.True(t, ok)
	assert.IsType(t, &SimpleRunner{}, f())
}

func TestSimpleRunner_ServesSequence(t *testing.T) {
	task := projectTask(t, "weather-soapui-project.xml").
		WithServiceName("WeatherMock").
		WithPath("/weather")
	r := startRunner(t, context.Background(), task)
	require.True(t, r.IsRunning())

	endpoint := "http://" + r.Addr().String() + "/weather"
	action := "http://example.com/weather/GetWeather"

	resp, body := callSOAP(t, http.DefaultClient, endpoint, action, getWeatherRequest)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fine", resp.Header.Get("X-Weather"))
	assert.Contains(t, body, "<wea:sky>sunny</wea:sky>")

	_, body = callSOAP(t, http.DefaultClient, endpoint, action, getWeatherRequest)
	assert.Contains(t, body, "<wea:sky>rainy</wea:sky>")

	_, body = callSOAP(t, http.DefaultClient, endpoint, action, getWeatherRequest)
	assert.Contains(t, body, "<wea:sky>sunny</wea:sky>")

	wsdl, err := http.Get(endpoint + "?wsdl")
	require.NoError(t, err)
	defer wsdl.Body.Close()
	assert.Equal(t, http.StatusOK, wsdl.StatusCode)
}

func TestSimpleRunner_DefaultDispatchWrapsBody(t *testing.T) {
	task := projectTask(t, "weather-soapui-project.xml").WithServiceName("WeatherMock")
	r := startRunner(t, context.Background(), task)

	request := strings.ReplaceAll(getWeatherRequest, "GetWeather", "GetForecast")
	_, body := callSOAP(t, http.DefaultClient, "http://"+r.Addr().String()+"/", "", request)
	assert.Contains(t, body, "<soap:Envelope")
	assert.Contains(t, body, "<wea:days>7</wea:days>")
}

func TestSimpleRunner_Stop(t *testing.T) {
	r := NewSimpleRunner()
	assert.NoError(t, r.Stop(), "stop before start is a no-op")

	require.NoError(t, r.Start(context.Background(), projectTask(t, "single-soapui-project.xml")))
	addr := r.Addr().String()
	assert.ErrorIs(t, r.Start(context.Background(), projectTask(t, "single-soapui-project.xml")), ErrAlreadyRunning)

	require.NoError(t, r.Stop())
	assert.False(t, r.IsRunning())
	assert.Nil(t, r.Addr())
	assert.NoError(t, r.Stop())

	_, err := http.Post("http://"+addr+"/", "text/xml", strings.NewReader(getWeatherRequest))
	assert.Error(t, err, "listener must be closed")
}

func TestSimpleRunner_Secure(t *testing.T) {
	task := projectTask(t, "single-soapui-project.xml").SecurePort()
	r := startRunner(t, context.Background(), task)

	client := &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // self-signed test certificate
	}}
	request := `<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope"><soap:Body><Echo><mode>loud</mode></Echo></soap:Body></soap:Envelope>`
	resp, body := callSOAP(t, client, "https://"+r.Addr().String()+"/", "", request)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<EchoResponse>LOUD</EchoResponse>")
}

func TestSimpleRunner_UsesBoundarySymbols(t *testing.T) {
	var buf strings.Builder
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Format: logging.FormatJSON, Output: &buf})

	project, err := os.ReadFile(filepath.Join("testdata", "single-soapui-project.xml"))
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(project)
	}))
	defer srv.Close()

	ns := boundary.NewNamespace().
		Define(api.SymbolLogger, logger).
		Define(api.SymbolHTTPClient, srv.Client())
	ctx := boundary.NewContext(context.Background(), ns)

	loc, err := url.Parse(srv.URL + "/project.xml")
	require.NoError(t, err)
	task := api.NewTask().WithProjectLocation(loc).WithHost("127.0.0.1").WithPort(0)
	startRunner(t, ctx, task)

	assert.Contains(t, buf.String(), `"component":"soapmock"`)
	assert.Contains(t, buf.String(), "mock service started")
}

func TestSimpleRunner_StartErrors(t *testing.T) {
	r := NewSimpleRunner()

	assert.ErrorIs(t, r.Start(context.Background(), api.NewTask()), api.ErrNoProjectLocation)

	task := projectTask(t, "weather-soapui-project.xml").WithServiceName("Nope")
	assert.ErrorIs(t, r.Start(context.Background(), task), ErrServiceNotFound)

	task = projectTask(t, "missing.xml")
	assert.ErrorIs(t, r.Start(context.Background(), task), os.ErrNotExist)

	task = projectTask(t, "weather-soapui-project.xml").WithServiceName("EmptyMock")
	require.NoError(t, r.Start(context.Background(), task), "a service without operations still serves")
	require.NoError(t, r.Stop())

	assert.False(t, r.IsRunning())
}

func TestLoadProject(t *testing.T) {
	abs, err := filepath.Abs(filepath.Join("testdata", "single-soapui-project.xml"))
	require.NoError(t, err)

	t.Run("classpath", func(t *testing.T) {
		ns := boundary.NewNamespace().DefineResource("projects/echo.xml", abs)
		ctx := boundary.NewContext(context.Background(), ns)

		data, err := loadProject(ctx, &url.URL{Scheme: "classpath", Opaque: "projects/echo.xml"})
		require.NoError(t, err)
		assert.Contains(t, string(data), "EchoMock")

		_, err = loadProject(ctx, &url.URL{Scheme: "classpath", Opaque: "projects/other.xml"})
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("classpath without boundary", func(t *testing.T) {
		_, err := loadProject(context.Background(), &url.URL{Scheme: "classpath", Opaque: "x.xml"})
		assert.ErrorIs(t, err, boundary.ErrNoContextBoundary)
	})

	t.Run("http status", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()
		loc, _ := url.Parse(srv.URL + "/missing.xml")
		_, err := loadProject(context.Background(), loc)
		assert.ErrorContains(t, err, "status 404")
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := loadProject(context.Background(), &url.URL{Scheme: "ftp", Host: "example.com"})
		assert.ErrorIs(t, err, ErrUnsupportedScheme)
	})

	t.Run("file", func(t *testing.T) {
		data, err := loadProject(context.Background(), &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)})
		require.NoError(t, err)
		assert.Contains(t, string(data), "EchoMock")
	})
}
