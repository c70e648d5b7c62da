package artifact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Dependency scopes that matter to classpath construction.
const (
	ScopeCompile  = "compile"
	ScopeRuntime  = "runtime"
	ScopeTest     = "test"
	ScopeProvided = "provided"
	ScopeSystem   = "system"
	ScopeImport   = "import"
)

// exclusion removes group:name from a dependency's subtree. Either side may be "*".
type exclusion struct {
	Group string
	Name  string
}

func (e exclusion) matches(c Coordinate) bool {
	return (e.Group == "*" || e.Group == c.Group) && (e.Name == "*" || e.Name == c.Name)
}

// dependency is one <dependency> element.
type dependency struct {
	Group      string
	Name       string
	Version    string
	Type       string
	Classifier string
	Scope      string
	Optional   bool
	Exclusions []exclusion
}

// key matches Coordinate.Key for the dependency's extension and classifier.
func (d dependency) key() string {
	return d.coordinate().Key()
}

func (d dependency) coordinate() Coordinate {
	ext, classifier := typeCoordinate(d.Type, d.Classifier)
	return Coordinate{Group: d.Group, Name: d.Name, Extension: ext, Classifier: classifier, Version: resolveVersion(d.Version)}
}

// pom is the raw content of a POM file.
type pom struct {
	Group      string
	Name       string
	Version    string
	Packaging  string
	Parent     *Coordinate
	Properties map[string]string
	Deps       []dependency
	Managed    []dependency
}

// model is a POM with parent inheritance, interpolation and imports applied.
type model struct {
	Coordinate Coordinate
	Deps       []dependency
	Managed    map[string]dependency
}

// manages returns the managed declaration for the dependency key, if any.
func (m *model) manages(key string) dependency {
	if m == nil {
		return dependency{}
	}
	return m.Managed[key]
}

func parsePOM(data []byte) (*pom, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPOM, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "project" {
		return nil, fmt.Errorf("%w: missing <project> element", ErrInvalidPOM)
	}

	p := &pom{
		Group:      childText(root, "groupId"),
		Name:       childText(root, "artifactId"),
		Version:    childText(root, "version"),
		Packaging:  childText(root, "packaging"),
		Properties: make(map[string]string),
	}

	if parent := root.SelectElement("parent"); parent != nil {
		p.Parent = &Coordinate{
			Group:     childText(parent, "groupId"),
			Name:      childText(parent, "artifactId"),
			Extension: "pom",
			Version:   childText(parent, "version"),
		}
		if p.Group == "" {
			p.Group = p.Parent.Group
		}
		if p.Version == "" {
			p.Version = p.Parent.Version
		}
	}

	if props := root.SelectElement("properties"); props != nil {
		for _, el := range props.ChildElements() {
			p.Properties[el.Tag] = strings.TrimSpace(el.Text())
		}
	}

	p.Deps = parseDependencies(root.SelectElement("dependencies"))
	if dm := root.SelectElement("dependencyManagement"); dm != nil {
		p.Managed = parseDependencies(dm.SelectElement("dependencies"))
	}
	return p, nil
}

func parseDependencies(el *etree.Element) []dependency {
	if el == nil {
		return nil
	}
	var deps []dependency
	for _, d := range el.SelectElements("dependency") {
		dep := dependency{
			Group:      childText(d, "groupId"),
			Name:       childText(d, "artifactId"),
			Version:    childText(d, "version"),
			Type:       childText(d, "type"),
			Classifier: childText(d, "classifier"),
			Scope:      childText(d, "scope"),
			Optional:   strings.EqualFold(childText(d, "optional"), "true"),
		}
		if ex := d.SelectElement("exclusions"); ex != nil {
			for _, e := range ex.SelectElements("exclusion") {
				dep.Exclusions = append(dep.Exclusions, exclusion{
					Group: childText(e, "groupId"),
					Name:  childText(e, "artifactId"),
				})
			}
		}
		deps = append(deps, dep)
	}
	return deps
}

func childText(el *etree.Element, tag string) string {
	c := el.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}

var propertyRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// maxInterpolationPasses bounds nested property expansion.
const maxInterpolationPasses = 8

// interpolator expands ${...} references against a property set.
type interpolator map[string]string

func newInterpolator(p *pom, props map[string]string) interpolator {
	vars := make(interpolator, len(props)+12)
	for k, v := range props {
		vars[k] = v
	}
	for _, prefix := range []string{"project.", "pom.", ""} {
		vars[prefix+"groupId"] = p.Group
		vars[prefix+"artifactId"] = p.Name
		vars[prefix+"version"] = p.Version
	}
	if p.Parent != nil {
		for _, prefix := range []string{"parent.", "project.parent."} {
			vars[prefix+"groupId"] = p.Parent.Group
			vars[prefix+"artifactId"] = p.Parent.Name
			vars[prefix+"version"] = p.Parent.Version
		}
	}
	return vars
}

func (vars interpolator) expand(s string) string {
	for range maxInterpolationPasses {
		if !strings.Contains(s, "${") {
			return s
		}
		next := propertyRef.ReplaceAllStringFunc(s, func(ref string) string {
			if v, ok := vars[ref[2:len(ref)-1]]; ok {
				return v
			}
			return ref
		})
		if next == s {
			return s
		}
		s = next
	}
	return s
}

func (vars interpolator) dependency(d dependency) dependency {
	d.Group = vars.expand(d.Group)
	d.Name = vars.expand(d.Name)
	d.Version = vars.expand(d.Version)
	d.Type = vars.expand(d.Type)
	d.Classifier = vars.expand(d.Classifier)
	d.Scope = vars.expand(d.Scope)
	return d
}
