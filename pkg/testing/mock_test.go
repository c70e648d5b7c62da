package testing

import (
	"strings"
	stdtesting "testing"

	"github.com/getmockd/mockrunner/pkg/config"
)

const weatherProject = "../../internal/soapmock/testdata/weather-soapui-project.xml"

const getWeather = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:wea="http://example.com/weather">
  <soapenv:Body><wea:GetWeather><wea:city>Oslo</wea:city></wea:GetWeather></soapenv:Body>
</soapenv:Envelope>`

func TestNew(t *stdtesting.T) {
	mock := New(t)
	if mock == nil {
		t.Fatal("New() returned nil")
	}
	if mock.t != t {
		t.Error("New() did not set testing.TB")
	}
	if len(mock.Config().Artifacts) != 0 {
		t.Errorf("expected no artifacts, got %v", mock.Config().Artifacts)
	}
	if mock.URL() != "" {
		t.Errorf("expected empty URL before Start, got %s", mock.URL())
	}
}

func TestStartAndCall(t *stdtesting.T) {
	mock := New(t).
		Project(weatherProject).
		Service("WeatherMock").
		Path("/weather")

	url := mock.Start()
	if !strings.HasPrefix(url, "http://127.0.0.1:") || !strings.HasSuffix(url, "/weather") {
		t.Fatalf("unexpected endpoint %s", url)
	}
	if !mock.IsRunning() {
		t.Fatal("expected mock to be running")
	}
	if again := mock.Start(); again != url {
		t.Errorf("second Start returned %s, want %s", again, url)
	}

	resp := mock.Call("http://example.com/weather/GetWeather", getWeather)
	resp.AssertStatus(t, 200)
	resp.AssertHeader(t, "X-Weather", "fine")
	resp.AssertXPath(t, "//GetWeatherResponse/sky", "sunny")

	resp = mock.Call("http://example.com/weather/GetWeather", getWeather)
	resp.AssertXPath(t, "//sky", "rainy")

	mock.Stop()
	if mock.IsRunning() {
		t.Error("expected mock to be stopped")
	}
	mock.Stop()
}

func TestCall_Fault(t *stdtesting.T) {
	mock := New(t).Project(weatherProject).Service("WeatherMock")
	mock.Start()

	unknown := strings.ReplaceAll(getWeather, "GetWeather", "GetTides")
	resp := mock.Call("", unknown)
	resp.AssertStatus(t, 500)
	resp.AssertFault(t, "unknown operation: GetTides")

	soap12 := `<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope"><soap:Body><GetTides/></soap:Body></soap:Envelope>`
	resp = mock.Call12("urn:GetTides", soap12)
	resp.AssertFault(t, "unknown operation")
}

func TestSecure(t *stdtesting.T) {
	mock := New(t).Project(weatherProject).Service("WeatherMock").Secure()

	url := mock.Start()
	if !strings.HasPrefix(url, "https://") {
		t.Fatalf("expected https endpoint, got %s", url)
	}
	mock.Call("http://example.com/weather/GetWeather", getWeather).AssertXPath(t, "//sky", "sunny")
}

func TestStartE_Errors(t *stdtesting.T) {
	if _, err := New(t).StartE(); err == nil {
		t.Error("expected error without a project")
	}

	_, err := New(t).Project(weatherProject).Service("WeatherMock").Implementation("").StartE()
	if err == nil {
		t.Error("expected configuration error")
	}

	_, err = New(t).Project(weatherProject).Service("WeatherMock").Block("std.").StartE()
	if err == nil {
		t.Error("expected error when the core namespace is blocked")
	}
}

func TestBuilder(t *stdtesting.T) {
	mock := New(t).
		Host("localhost").
		Port(9999).
		Artifact("com.example:mock:1.0").
		Repository("internal", "https://repo.example.com/maven2/").
		LocalRepository("/tmp/repo").
		SharedLocation("fixtures/*.xml").
		Allow("com.example.shared.").
		Block("com.example.internal.")

	cfg := mock.Config()
	if cfg.Task.Host != "localhost" || cfg.Task.Port != 9999 {
		t.Errorf("unexpected task %+v", cfg.Task)
	}
	if len(cfg.Artifacts) != 1 || len(cfg.Repositories) != 1 {
		t.Errorf("unexpected artifacts %v / repositories %v", cfg.Artifacts, cfg.Repositories)
	}
	if got := cfg.Filters.Block[len(cfg.Filters.Block)-1]; got != "com.example.internal." {
		t.Errorf("unexpected block list %v", cfg.Filters.Block)
	}
	if cfg.Implementation != config.DefaultImplementation {
		t.Errorf("unexpected implementation %s", cfg.Implementation)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("builder produced invalid config: %v", err)
	}
}

func TestResponse_XPath(t *stdtesting.T) {
	r := &Response{Body: "not xml"}
	if got := r.XPath("//x"); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}
