package testing

import (
	"net/http"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/getmockd/mockrunner/pkg/soap"
)

// Response is a response received from the mock.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// XPath returns the text at xpath in the response body, or an empty string.
// Unprefixed steps match elements in any namespace.
func (r *Response) XPath(xpath string) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(r.Body); err != nil {
		return ""
	}
	return soap.ExtractXPath(doc, xpath)
}

// AssertStatus asserts the HTTP status code.
func (r *Response) AssertStatus(t testing.TB, expected int) {
	t.Helper()

	if r.StatusCode != expected {
		t.Errorf("status mismatch\nexpected: %d\nactual: %d\nbody: %s", expected, r.StatusCode, r.Body)
	}
}

// AssertBodyContains asserts that the body contains substr.
func (r *Response) AssertBodyContains(t testing.TB, substr string) {
	t.Helper()

	if !strings.Contains(r.Body, substr) {
		t.Errorf("response body does not contain %q\nbody: %s", substr, r.Body)
	}
}

// AssertHeader asserts a response header value.
func (r *Response) AssertHeader(t testing.TB, key, expected string) {
	t.Helper()

	if actual := r.Header.Get(key); actual != expected {
		t.Errorf("header %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

// AssertXPath asserts the text at xpath.
func (r *Response) AssertXPath(t testing.TB, xpath, expected string) {
	t.Helper()

	if actual := r.XPath(xpath); actual != expected {
		t.Errorf("xpath %s mismatch\nexpected: %q\nactual: %q\nbody: %s", xpath, expected, actual, r.Body)
	}
}

// AssertFault asserts that the response is a SOAP fault whose reason
// contains substr.
func (r *Response) AssertFault(t testing.TB, substr string) {
	t.Helper()

	reason := r.XPath("//Fault/faultstring")
	if reason == "" {
		reason = r.XPath("//Fault/Reason/Text")
	}
	if reason == "" {
		t.Errorf("response is not a SOAP fault\nbody: %s", r.Body)
		return
	}
	if !strings.Contains(reason, substr) {
		t.Errorf("fault reason does not contain %q\nreason: %q", substr, reason)
	}
}
