// Package config loads the runner configuration.
//
// Values are layered: built-in defaults, then a YAML file, then environment
// variables, then command line flags applied by the caller. Sources records
// where each value came from.
//
// Example configuration:
//
//	artifacts:
//	  - com.smartbear.soapui:soapui:5.1.2
//	repositories:
//	  - id: central
//	    url: https://repo1.maven.org/maven2/
//	proxy: http://proxy.internal:3128
//	filters:
//	  allow: ["std.", "mockrunner.api."]
//	  block: ["mockrunner.internal.", "soap."]
//	task:
//	  project: testdata/weather-soapui-project.xml
//	  service: WeatherMock
//	  port: 8088
//	log:
//	  level: debug
package config
