package cfdi

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

const (
	// DefaultNamespace is used when the root element carries no namespace (CFDI 4.0).
	DefaultNamespace = "http://www.sat.gob.mx/cfd/4"

	// StampNamespace is the TimbreFiscalDigital complement, the same for every CFDI version.
	StampNamespace = "http://www.sat.gob.mx/TimbreFiscalDigital"

	// PaymentsNamespace is the payments complement 2.0, independent of the CFDI version.
	PaymentsNamespace = "http://www.sat.gob.mx/Pagos20"
)

// Namespaces holds the URIs used for every element lookup in a document.
type Namespaces struct {
	CFDI  string
	Stamp string
}

// ResolveNamespaces derives the namespace mapping from the root element's
// qualified tag in {uri}local form. A tag without a namespace falls back to
// DefaultNamespace.
func ResolveNamespaces(rootTag string) Namespaces {
	ns := Namespaces{CFDI: DefaultNamespace, Stamp: StampNamespace}
	if strings.HasPrefix(rootTag, "{") {
		if uri, _, ok := strings.Cut(rootTag[1:], "}"); ok {
			ns.CFDI = uri
		}
	}
	return ns
}

// QualifiedTag returns the element's tag in {uri}local form, or just the
// local name when the element is not in a namespace.
func QualifiedTag(el *etree.Element) string {
	if uri := el.NamespaceURI(); uri != "" {
		return "{" + uri + "}" + el.Tag
	}
	return el.Tag
}

// checkPrefixes reports the first element or attribute in the tree whose
// prefix has no namespace declaration in scope.
func checkPrefixes(el *etree.Element) error {
	if el == nil {
		return nil
	}
	if el.Space != "" && el.NamespaceURI() == "" {
		return fmt.Errorf("unbound prefix %q on element %s", el.Space, el.Tag)
	}
	for i := range el.Attr {
		attr := &el.Attr[i]
		if attr.Space == "" || attr.Space == "xmlns" || attr.Space == "xml" {
			continue
		}
		if attr.NamespaceURI() == "" {
			return fmt.Errorf("unbound prefix %q on attribute %s", attr.Space, attr.Key)
		}
	}
	for _, child := range el.ChildElements() {
		if err := checkPrefixes(child); err != nil {
			return err
		}
	}
	return nil
}

func matches(el *etree.Element, uri, tag string) bool {
	return el.Tag == tag && el.NamespaceURI() == uri
}

// findChild returns the first direct child with the given namespace and local name.
func findChild(el *etree.Element, uri, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if matches(child, uri, tag) {
			return child
		}
	}
	return nil
}

// findDescendant returns the first descendant, in document order, with the
// given namespace and local name.
func findDescendant(el *etree.Element, uri, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if matches(child, uri, tag) {
			return child
		}
		if found := findDescendant(child, uri, tag); found != nil {
			return found
		}
	}
	return nil
}

// findDescendants returns every descendant with the given namespace and local
// name in document order. Matches nested inside a match are included.
func findDescendants(el *etree.Element, uri, tag string) []*etree.Element {
	var found []*etree.Element
	for _, child := range el.ChildElements() {
		if matches(child, uri, tag) {
			found = append(found, child)
		}
		found = append(found, findDescendants(child, uri, tag)...)
	}
	return found
}
