package soap

import "strings"

// SOAPVersion represents the SOAP protocol version.
type SOAPVersion string

const (
	// SOAP11 represents SOAP 1.1 protocol.
	SOAP11 SOAPVersion = "1.1"
	// SOAP12 represents SOAP 1.2 protocol.
	SOAP12 SOAPVersion = "1.2"
)

// SOAP namespace URIs
const (
	SOAP11Namespace = "http://schemas.xmlsoap.org/soap/envelope/"
	SOAP12Namespace = "http://www.w3.org/2003/05/soap-envelope"
)

// ContentTypes for SOAP versions
const (
	SOAP11ContentType = "text/xml; charset=utf-8"
	SOAP12ContentType = "application/soap+xml; charset=utf-8"
)

// Config configures one mocked SOAP endpoint.
type Config struct {
	Name       string                `json:"name,omitempty" yaml:"name,omitempty"`
	Path       string                `json:"path" yaml:"path"`
	WSDL       string                `json:"wsdl,omitempty" yaml:"wsdl,omitempty"` // Inline WSDL
	Operations map[string]*Operation `json:"operations,omitempty" yaml:"operations,omitempty"`
}

// Operation configures the canned responses of one SOAP operation.
type Operation struct {
	Name       string        `json:"name" yaml:"name"`
	SOAPAction string        `json:"soapAction,omitempty" yaml:"soapAction,omitempty"`
	Dispatch   DispatchStyle `json:"dispatch,omitempty" yaml:"dispatch,omitempty"`
	// DispatchPath is evaluated against the request for DispatchXPath; the
	// result names the response to send.
	DispatchPath    string     `json:"dispatchPath,omitempty" yaml:"dispatchPath,omitempty"`
	DefaultResponse string     `json:"defaultResponse,omitempty" yaml:"defaultResponse,omitempty"`
	Responses       []Response `json:"responses,omitempty" yaml:"responses,omitempty"`
	Delay           string     `json:"delay,omitempty" yaml:"delay,omitempty"`
	Fault           *SOAPFault `json:"fault,omitempty" yaml:"fault,omitempty"`
}

// Response is one canned response. Content is either a complete envelope,
// which is sent as is, or body content that gets wrapped in an envelope of
// the request's SOAP version.
type Response struct {
	Name       string            `json:"name" yaml:"name"`
	Content    string            `json:"content" yaml:"content"` // XML template
	HTTPStatus int               `json:"httpStatus,omitempty" yaml:"httpStatus,omitempty"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// SOAPFault defines a SOAP fault response.
type SOAPFault struct {
	Code    string `json:"code" yaml:"code"`       // soap:Client, soap:Server
	Message string `json:"message" yaml:"message"` // Human readable error
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// DispatchStyle selects which response of an operation is sent.
type DispatchStyle string

const (
	// DispatchSequence cycles through the responses in order.
	DispatchSequence DispatchStyle = "SEQUENCE"
	// DispatchRandom picks a random response.
	DispatchRandom DispatchStyle = "RANDOM"
	// DispatchXPath sends the response named by the request value at DispatchPath.
	DispatchXPath DispatchStyle = "XPATH"
	// DispatchDefault always sends the default response.
	DispatchDefault DispatchStyle = "DEFAULT"
)

// ParseDispatchStyle maps a style name to a DispatchStyle. Unknown names,
// including script-based styles, map to DispatchDefault.
func ParseDispatchStyle(s string) DispatchStyle {
	switch d := DispatchStyle(strings.ToUpper(strings.TrimSpace(s))); d {
	case DispatchSequence, DispatchRandom, DispatchXPath:
		return d
	default:
		return DispatchDefault
	}
}
