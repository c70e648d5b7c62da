package soapmock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"github.com/getmockd/mockrunner/pkg/soap"
)

// Project is the subset of a SoapUI project the runner serves.
type Project struct {
	Name         string
	Interfaces   []Interface
	MockServices []MockService
}

// Interface is a WSDL binding declared in the project.
type Interface struct {
	Name        string
	SOAPVersion string
	// Actions maps operation names to their SOAPAction.
	Actions map[string]string
	// WSDL is the cached definition, when the project carries one.
	WSDL string
}

// MockService is a mock service declared in the project.
type MockService struct {
	Name       string
	Host       string
	Port       int
	Path       string
	Operations []MockOperation
}

// MockOperation is the canned behaviour of one operation.
type MockOperation struct {
	Name            string
	Interface       string
	Operation       string
	DispatchStyle   string
	DispatchPath    string
	DefaultResponse string
	Responses       []MockResponse
}

// MockResponse is one canned response of a mock operation.
type MockResponse struct {
	Name       string
	Content    string
	HTTPStatus int
	Headers    map[string]string
}

// ParseProject parses a SoapUI project document.
func ParseProject(data []byte) (*Project, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "soapui-project" {
		return nil, fmt.Errorf("%w: root element is not soapui-project", ErrInvalidProject)
	}

	p := &Project{Name: root.SelectAttrValue("name", "")}
	for _, el := range root.SelectElements("interface") {
		p.Interfaces = append(p.Interfaces, parseInterface(el))
	}
	for _, el := range root.SelectElements("mockService") {
		svc, err := parseMockService(el)
		if err != nil {
			return nil, err
		}
		p.MockServices = append(p.MockServices, svc)
	}
	return p, nil
}

func parseInterface(el *etree.Element) Interface {
	iface := Interface{
		Name:        el.SelectAttrValue("name", ""),
		SOAPVersion: el.SelectAttrValue("soapVersion", ""),
		Actions:     make(map[string]string),
	}
	for _, op := range el.SelectElements("operation") {
		iface.Actions[op.SelectAttrValue("name", "")] = op.SelectAttrValue("action", "")
	}
	if part := el.FindElement("./definitionCache/part/content"); part != nil {
		iface.WSDL = strings.TrimSpace(part.Text())
	}
	return iface
}

func parseMockService(el *etree.Element) (MockService, error) {
	svc := MockService{
		Name: el.SelectAttrValue("name", ""),
		Host: el.SelectAttrValue("host", ""),
		Path: el.SelectAttrValue("path", ""),
	}
	if v := el.SelectAttrValue("port", ""); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return svc, fmt.Errorf("%w: mock service %q has invalid port %q", ErrInvalidProject, svc.Name, v)
		}
		svc.Port = port
	}

	for _, opEl := range el.SelectElements("mockOperation") {
		op := MockOperation{
			Name:            opEl.SelectAttrValue("name", ""),
			Interface:       opEl.SelectAttrValue("interface", ""),
			Operation:       opEl.SelectAttrValue("operation", ""),
			DispatchStyle:   childText(opEl, "dispatchStyle"),
			DispatchPath:    childText(opEl, "dispatchPath"),
			DefaultResponse: childText(opEl, "defaultResponse"),
		}
		if op.Operation == "" {
			op.Operation = op.Name
		}
		for _, respEl := range opEl.SelectElements("response") {
			resp := MockResponse{
				Name:    respEl.SelectAttrValue("name", ""),
				Content: childText(respEl, "responseContent"),
			}
			if v := respEl.SelectAttrValue("httpResponseStatus", ""); v != "" {
				if status, err := strconv.Atoi(v); err == nil {
					resp.HTTPStatus = status
				}
			}
			for _, h := range respEl.SelectElements("header") {
				if resp.Headers == nil {
					resp.Headers = make(map[string]string)
				}
				resp.Headers[childText(h, "name")] = childText(h, "value")
			}
			op.Responses = append(op.Responses, resp)
		}
		svc.Operations = append(svc.Operations, op)
	}
	return svc, nil
}

func childText(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

// Service returns the mock service called name. An empty name selects the
// only mock service of the project.
func (p *Project) Service(name string) (*MockService, error) {
	if name == "" {
		if len(p.MockServices) == 1 {
			return &p.MockServices[0], nil
		}
		return nil, fmt.Errorf("%w: project %q has %d mock services and none was named",
			ErrServiceNotFound, p.Name, len(p.MockServices))
	}
	for i := range p.MockServices {
		if p.MockServices[i].Name == name {
			return &p.MockServices[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q in project %q", ErrServiceNotFound, name, p.Name)
}

func (p *Project) iface(name string) *Interface {
	for i := range p.Interfaces {
		if p.Interfaces[i].Name == name {
			return &p.Interfaces[i]
		}
	}
	return nil
}

// SOAPConfig converts a mock service into the handler configuration served
// under path. Operations without responses are skipped.
func (p *Project) SOAPConfig(svc *MockService, path string) *soap.Config {
	cfg := &soap.Config{
		Name:       svc.Name,
		Path:       path,
		Operations: make(map[string]*soap.Operation, len(svc.Operations)),
	}
	for _, mo := range svc.Operations {
		if len(mo.Responses) == 0 {
			continue
		}
		op := &soap.Operation{
			Name:            mo.Operation,
			Dispatch:        soap.ParseDispatchStyle(mo.DispatchStyle),
			DispatchPath:    mo.DispatchPath,
			DefaultResponse: mo.DefaultResponse,
		}
		if iface := p.iface(mo.Interface); iface != nil {
			op.SOAPAction = iface.Actions[mo.Operation]
			if cfg.WSDL == "" {
				cfg.WSDL = iface.WSDL
			}
		}
		for _, r := range mo.Responses {
			op.Responses = append(op.Responses, soap.Response{
				Name:       r.Name,
				Content:    r.Content,
				HTTPStatus: r.HTTPStatus,
				Headers:    r.Headers,
			})
		}
		cfg.Operations[op.Name] = op
	}
	return cfg
}
