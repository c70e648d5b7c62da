// Package testing runs a mock service for the duration of a Go test.
//
// # Basic Usage
//
//	func TestWeatherClient(t *testing.T) {
//	    mock := mocktesting.New(t).
//	        Project("testdata/weather-soapui-project.xml").
//	        Service("WeatherMock").
//	        Path("/weather")
//
//	    url := mock.Start()
//
//	    resp := mock.Call("http://example.com/weather/GetWeather", request)
//	    resp.AssertStatus(t, 200)
//	    resp.AssertXPath(t, "//sky", "sunny")
//	}
//
// The mock is stopped automatically when the test completes. By default no
// artifacts are resolved and a free local port is picked, so tests run
// without network access.
//
// # Isolation
//
// Filter rules, artifacts and shared locations are configured the same way
// as in the runner configuration:
//
//	mock := mocktesting.New(t).
//	    Project("classpath:projects/weather.xml").
//	    Artifact("com.example:weather-mock:1.0.0").
//	    Repository("internal", repoURL).
//	    Block("com.example.internal.")
package testing
