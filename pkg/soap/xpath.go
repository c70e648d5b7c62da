package soap

import (
	"strings"

	"github.com/beevik/etree"
)

// ExtractXPath extracts the text value at the given XPath from a document.
// Returns an empty string if the path is not found or cannot be compiled.
//
// Supported XPath syntax:
//   - /path/to/element - absolute path
//   - //element - find anywhere in document
//   - /path/to/element/@attr - attribute value
//   - /path/to/element[1] - indexed access (1-based)
//
// Unprefixed steps match elements in any namespace.
func ExtractXPath(doc *etree.Document, xpath string) string {
	if doc == nil || xpath == "" {
		return ""
	}

	if element := findElement(doc, xpath); element != nil {
		return strings.TrimSpace(element.Text())
	}

	// Try to find attribute
	if elemPath, attrName, ok := strings.Cut(xpath, "/@"); ok {
		if elem := findElement(doc, elemPath); elem != nil {
			if attr := elem.SelectAttr(attrName); attr != nil {
				return attr.Value
			}
		}
	}

	return ""
}

// findElement is FindElement without the panic on malformed paths.
func findElement(doc *etree.Document, xpath string) *etree.Element {
	path, err := etree.CompilePath(xpath)
	if err != nil {
		return nil
	}
	return doc.FindElementPath(path)
}
