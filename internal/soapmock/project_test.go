package soapmock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockrunner/pkg/api"
	"github.com/getmockd/mockrunner/pkg/soap"
)

func loadTestProject(t *testing.T, name string) *Project {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	p, err := ParseProject(data)
	require.NoError(t, err)
	return p
}

func TestParseProject(t *testing.T) {
	p := loadTestProject(t, "weather-soapui-project.xml")

	assert.Equal(t, "Weather", p.Name)
	require.Len(t, p.Interfaces, 1)
	iface := p.Interfaces[0]
	assert.Equal(t, "WeatherSoap11", iface.Name)
	assert.Equal(t, "1_1", iface.SOAPVersion)
	assert.Equal(t, "http://example.com/weather/GetWeather", iface.Actions["GetWeather"])
	assert.Contains(t, iface.WSDL, `name="WeatherService"`)

	require.Len(t, p.MockServices, 2)
	svc := p.MockServices[0]
	assert.Equal(t, "WeatherMock", svc.Name)
	assert.Equal(t, 8089, svc.Port)
	assert.Equal(t, "/mockWeather", svc.Path)
	assert.Equal(t, "localhost", svc.Host)
	require.Len(t, svc.Operations, 2)

	op := svc.Operations[0]
	assert.Equal(t, "GetWeather", op.Operation)
	assert.Equal(t, "SEQUENCE", op.DispatchStyle)
	assert.Equal(t, "Sunny", op.DefaultResponse)
	require.Len(t, op.Responses, 2)
	assert.Equal(t, 200, op.Responses[0].HTTPStatus)
	assert.Equal(t, map[string]string{"X-Weather": "fine"}, op.Responses[0].Headers)
	assert.Contains(t, op.Responses[1].Content, "<wea:sky>rainy</wea:sky>")
}

func TestParseProject_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not xml", "<con:soapui-project"},
		{"wrong root", `<project name="x"/>`},
		{"bad port", `<con:soapui-project xmlns:con="http://eviware.com/soapui/config"><con:mockService name="m" port="http"/></con:soapui-project>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProject([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidProject)
		})
	}
}

func TestProject_Service(t *testing.T) {
	p := loadTestProject(t, "weather-soapui-project.xml")

	svc, err := p.Service("EmptyMock")
	require.NoError(t, err)
	assert.Equal(t, "/mockEmpty", svc.Path)

	_, err = p.Service("Missing")
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = p.Service("")
	assert.ErrorIs(t, err, ErrServiceNotFound, "ambiguous without a name")

	single := loadTestProject(t, "single-soapui-project.xml")
	svc, err = single.Service("")
	require.NoError(t, err)
	assert.Equal(t, "EchoMock", svc.Name)
}

func TestProject_SOAPConfig(t *testing.T) {
	p := loadTestProject(t, "weather-soapui-project.xml")
	svc, err := p.Service("WeatherMock")
	require.NoError(t, err)

	cfg := p.SOAPConfig(svc, "/weather")
	assert.Equal(t, "/weather", cfg.Path)
	assert.Contains(t, cfg.WSDL, "WeatherService")
	require.Len(t, cfg.Operations, 2)

	weather := cfg.Operations["GetWeather"]
	require.NotNil(t, weather)
	assert.Equal(t, "http://example.com/weather/GetWeather", weather.SOAPAction)
	assert.Equal(t, soap.DispatchSequence, weather.Dispatch)
	assert.Len(t, weather.Responses, 2)

	forecast := cfg.Operations["GetForecast"]
	require.NotNil(t, forecast)
	assert.Equal(t, soap.DispatchDefault, forecast.Dispatch)
	assert.Equal(t, "Week", forecast.DefaultResponse)

	empty, err := p.Service("EmptyMock")
	require.NoError(t, err)
	assert.Empty(t, p.SOAPConfig(empty, "/").Operations)
}

func TestServicePort(t *testing.T) {
	withPort := &MockService{Port: 9000}
	noPort := &MockService{}

	tests := []struct {
		name string
		task *api.Task
		svc  *MockService
		want int
	}{
		{"task port wins", api.NewTask().WithPort(7000), withPort, 7000},
		{"project port", api.NewTask(), withPort, 9000},
		{"secure default", api.NewTask().SecurePort(), noPort, DefaultSecurePort},
		{"plain default", api.NewTask(), noPort, DefaultPort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, servicePort(tt.task, tt.svc))
		})
	}
}

func TestParseProject_DeclaredCharset(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<con:soapui-project name=\"Caf\xe9\" xmlns:con=\"http://eviware.com/soapui/config\">" +
		"<con:mockService name=\"CafeMock\" port=\"8090\" path=\"/cafe\"/></con:soapui-project>")

	p, err := ParseProject(data)
	require.NoError(t, err)
	assert.Equal(t, "Café", p.Name)
	require.Len(t, p.MockServices, 1)
	assert.Equal(t, 8090, p.MockServices[0].Port)
}
