package soap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"

	"github.com/getmockd/mockrunner/pkg/logging"
)

// maxSOAPBodySize bounds request bodies.
const maxSOAPBodySize = 10 << 20 // 10MB

// Handler handles SOAP HTTP requests.
type Handler struct {
	config *Config
	logger *slog.Logger

	mu      sync.Mutex
	cursors map[string]int
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the handler logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a new SOAP handler with the given configuration.
// Every operation needs at least one response or a fault.
func NewHandler(config *Config, opts ...Option) (*Handler, error) {
	if config == nil {
		return nil, errors.New("soap: config is required")
	}
	for name, op := range config.Operations {
		if op == nil || (len(op.Responses) == 0 && op.Fault == nil) {
			return nil, fmt.Errorf("soap: operation %q has no responses", name)
		}
	}

	h := &Handler{
		config:  config,
		logger:  logging.Nop(),
		cursors: make(map[string]int),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = logging.Component(h.logger, "soap")
	return h, nil
}

// Config returns the handler's configuration.
func (h *Handler) Config() *Config {
	return h.config
}

// ServeHTTP implements the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Handle WSDL request - check if ?wsdl query param is present (case-insensitive)
	for key := range r.URL.Query() {
		if strings.EqualFold(key, "wsdl") {
			h.serveWSDL(w, r)
			return
		}
	}

	start := time.Now()

	// Only accept POST for SOAP operations
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSOAPBodySize))
	defer func() { _ = r.Body.Close() }()
	if err != nil {
		h.writeFault(w, &SOAPFault{Code: "soap:Client", Message: "Failed to read request body"}, SOAP11)
		return
	}

	doc, err := parseEnvelope(body)
	if err != nil {
		h.writeFault(w, &SOAPFault{
			Code:    "soap:Client",
			Message: "Failed to parse SOAP envelope: " + err.Error(),
		}, SOAP11)
		return
	}

	version := detectSOAPVersion(doc)
	soapAction := getSOAPAction(r, version)

	op, err := h.matchOperation(doc, soapAction)
	if err != nil {
		h.logger.Debug("no operation matched", "soapAction", soapAction, "error", err)
		h.writeFault(w, &SOAPFault{Code: "soap:Client", Message: err.Error()}, version)
		return
	}

	if op.Delay != "" {
		if delay, err := parseDuration(op.Delay); err == nil {
			time.Sleep(delay)
		}
	}

	if op.Fault != nil {
		h.writeFault(w, op.Fault, version)
		return
	}

	resp := h.selectResponse(op, doc)
	status := h.writeResponse(w, resp, processTemplate(resp.Content, doc), version)
	h.logger.Debug("request served",
		"operation", op.Name,
		"response", resp.Name,
		"status", status,
		"duration", time.Since(start))
}

// serveWSDL serves the WSDL document.
func (h *Handler) serveWSDL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if h.config.WSDL == "" {
		h.writeError(w, http.StatusNotFound, "WSDL not available")
		return
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.config.WSDL))
}

// parseEnvelope parses a SOAP envelope from the request body.
func parseEnvelope(body []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("invalid XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, errors.New("empty document")
	}
	if root.Tag != "Envelope" {
		return nil, fmt.Errorf("root element must be Envelope, got %s", root.Tag)
	}
	return doc, nil
}

// detectSOAPVersion detects the SOAP version from the envelope namespace.
func detectSOAPVersion(doc *etree.Document) SOAPVersion {
	root := doc.Root()
	if root == nil {
		return SOAP11
	}
	for _, attr := range root.Attr {
		if strings.HasPrefix(attr.Key, "xmlns") && attr.Value == SOAP12Namespace {
			return SOAP12
		}
	}
	if root.NamespaceURI() == SOAP12Namespace {
		return SOAP12
	}
	return SOAP11
}

// getSOAPAction extracts the SOAPAction from request headers.
func getSOAPAction(r *http.Request, version SOAPVersion) string {
	if version == SOAP12 {
		// SOAP 1.2 uses action parameter in Content-Type
		for _, part := range strings.Split(r.Header.Get("Content-Type"), ";") {
			part = strings.TrimSpace(part)
			if action, ok := strings.CutPrefix(part, "action="); ok {
				return strings.Trim(action, "\"")
			}
		}
	}

	// SOAP 1.1 uses SOAPAction header
	return strings.Trim(r.Header.Get("SOAPAction"), "\"")
}

// matchOperation finds the operation by SOAPAction, then by the local name
// of the first Body child.
func (h *Handler) matchOperation(doc *etree.Document, soapAction string) (*Operation, error) {
	if soapAction != "" {
		for _, op := range h.config.Operations {
			if op.SOAPAction == soapAction {
				return op, nil
			}
		}
	}

	body := doc.FindElement("//Body")
	if body == nil {
		return nil, errors.New("SOAP Body not found")
	}
	children := body.ChildElements()
	if len(children) == 0 {
		return nil, errors.New("no operation element found in Body")
	}

	opName := children[0].Tag
	if op, ok := h.config.Operations[opName]; ok {
		return op, nil
	}
	return nil, errors.New("unknown operation: " + opName)
}

// selectResponse applies the operation's dispatch style.
func (h *Handler) selectResponse(op *Operation, doc *etree.Document) Response {
	switch op.Dispatch {
	case DispatchSequence:
		h.mu.Lock()
		i := h.cursors[op.Name] % len(op.Responses)
		h.cursors[op.Name] = i + 1
		h.mu.Unlock()
		return op.Responses[i]
	case DispatchRandom:
		return op.Responses[rand.IntN(len(op.Responses))]
	case DispatchXPath:
		if name := ExtractXPath(doc, op.DispatchPath); name != "" {
			if resp, ok := op.response(name); ok {
				return resp
			}
		}
	}

	if resp, ok := op.response(op.DefaultResponse); ok {
		return resp
	}
	return op.Responses[0]
}

func (op *Operation) response(name string) (Response, bool) {
	if name == "" {
		return Response{}, false
	}
	for _, r := range op.Responses {
		if r.Name == name {
			return r, true
		}
	}
	return Response{}, false
}

// processTemplate replaces {{xpath:/path}} variables in the template.
var xpathVarRegex = regexp.MustCompile(`\{\{xpath:([^}]+)\}\}`)

func processTemplate(template string, doc *etree.Document) string {
	return xpathVarRegex.ReplaceAllStringFunc(template, func(match string) string {
		submatch := xpathVarRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		return ExtractXPath(doc, submatch[1])
	})
}

// isEnvelope reports whether content already is a complete SOAP envelope.
func isEnvelope(content string) bool {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); err != nil {
		return false
	}
	root := doc.Root()
	return root != nil && root.Tag == "Envelope"
}

// writeResponse writes a canned response and returns the status sent.
func (h *Handler) writeResponse(w http.ResponseWriter, resp Response, content string, version SOAPVersion) int {
	ns, contentType := SOAP11Namespace, SOAP11ContentType
	if version == SOAP12 {
		ns, contentType = SOAP12Namespace, SOAP12ContentType
	}

	var out bytes.Buffer
	if isEnvelope(content) {
		out.WriteString(content)
	} else {
		out.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
		out.WriteString(`<soap:Envelope xmlns:soap="` + ns + `">`)
		out.WriteString(`<soap:Body>`)
		out.WriteString(content)
		out.WriteString(`</soap:Body>`)
		out.WriteString(`</soap:Envelope>`)
	}

	w.Header().Set("Content-Type", contentType)
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	status := resp.HTTPStatus
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(out.Bytes())
	return status
}

// writeFault writes a SOAP fault response.
func (h *Handler) writeFault(w http.ResponseWriter, fault *SOAPFault, version SOAPVersion) {
	if version == SOAP12 {
		w.Header().Set("Content-Type", SOAP12ContentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(BuildFault12(fault))
		return
	}
	w.Header().Set("Content-Type", SOAP11ContentType)
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(BuildFault11(fault))
}

// BuildFault11 builds a SOAP 1.1 fault response.
func BuildFault11(fault *SOAPFault) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString(`<soap:Envelope xmlns:soap="` + SOAP11Namespace + `">`)
	buf.WriteString(`<soap:Body>`)
	buf.WriteString(`<soap:Fault>`)
	buf.WriteString(`<faultcode>` + escapeXML(fault.Code) + `</faultcode>`)
	buf.WriteString(`<faultstring>` + escapeXML(fault.Message) + `</faultstring>`)
	if fault.Detail != "" {
		buf.WriteString(`<detail>` + fault.Detail + `</detail>`)
	}
	buf.WriteString(`</soap:Fault>`)
	buf.WriteString(`</soap:Body>`)
	buf.WriteString(`</soap:Envelope>`)
	return buf.Bytes()
}

// BuildFault12 builds a SOAP 1.2 fault response.
func BuildFault12(fault *SOAPFault) []byte {
	// Map common fault codes to SOAP 1.2 codes
	code := fault.Code
	switch code {
	case "soap:Client", "Client":
		code = "soap:Sender"
	case "soap:Server", "Server":
		code = "soap:Receiver"
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString(`<soap:Envelope xmlns:soap="` + SOAP12Namespace + `">`)
	buf.WriteString(`<soap:Body>`)
	buf.WriteString(`<soap:Fault>`)
	buf.WriteString(`<soap:Code><soap:Value>` + escapeXML(code) + `</soap:Value></soap:Code>`)
	buf.WriteString(`<soap:Reason><soap:Text xml:lang="en">` + escapeXML(fault.Message) + `</soap:Text></soap:Reason>`)
	if fault.Detail != "" {
		buf.WriteString(`<soap:Detail>` + fault.Detail + `</soap:Detail>`)
	}
	buf.WriteString(`</soap:Fault>`)
	buf.WriteString(`</soap:Body>`)
	buf.WriteString(`</soap:Envelope>`)
	return buf.Bytes()
}

// writeError writes an HTTP error response.
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

// escapeXML escapes special XML characters.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

// parseDuration parses a duration string (supports "100ms", "1s", etc.)
func parseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	// Try parsing as milliseconds number
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return 0, fmt.Errorf("invalid duration: %s", s)
}
