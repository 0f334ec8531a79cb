// Package regtext builds label-addressed trees from Federal Register
// regulation text XML (REGTEXT, SECTION and P elements).
package regtext

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/coolbeans/regparser/pkg/markup"
)

// Element is a generic XML element. Federal Register documents mix
// structure and inline markup freely, so elements keep their raw inner XML
// alongside the decoded children.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	CharData string     `xml:",chardata"`
	InnerXML string     `xml:",innerxml"`
	Children []Element  `xml:",any"`
}

// Decode reads one XML document into an Element tree. Decoding is lenient
// the way Federal Register XML needs: HTML entities are accepted and
// unknown constructs do not abort the parse.
func Decode(reader io.Reader) (*Element, error) {
	decoder := xml.NewDecoder(reader)
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity

	root := &Element{}
	if err := decoder.Decode(root); err != nil {
		return nil, fmt.Errorf("decoding XML: %w", err)
	}
	return root, nil
}

// Name returns the element's local tag name.
func (e *Element) Name() string {
	return e.XMLName.Local
}

// Attr returns the value of the named attribute, or "".
func (e *Element) Attr(name string) string {
	for _, attr := range e.Attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// Text returns the element's text content with markup removed and
// whitespace collapsed.
func (e *Element) Text() string {
	return markup.CollapseSpace(markup.StripTags(e.InnerXML))
}

// OwnText returns only the character data directly inside the element,
// excluding text of child elements.
func (e *Element) OwnText() string {
	return markup.CollapseSpace(e.CharData)
}

// Child returns the first direct child with the given name, or nil.
func (e *Element) Child(name string) *Element {
	for i := range e.Children {
		if e.Children[i].Name() == name {
			return &e.Children[i]
		}
	}
	return nil
}

// ChildrenNamed returns every direct child with the given name.
func (e *Element) ChildrenNamed(name string) []*Element {
	var matches []*Element
	for i := range e.Children {
		if e.Children[i].Name() == name {
			matches = append(matches, &e.Children[i])
		}
	}
	return matches
}

// FindAll returns every descendant (including e itself) with the given
// name, in document order.
func (e *Element) FindAll(name string) []*Element {
	var matches []*Element
	e.Walk(func(element *Element) bool {
		if element.Name() == name {
			matches = append(matches, element)
		}
		return true
	})
	return matches
}

// Find returns the first descendant (including e itself) with the given
// name, or nil.
func (e *Element) Find(name string) *Element {
	var found *Element
	e.Walk(func(element *Element) bool {
		if found != nil {
			return false
		}
		if element.Name() == name {
			found = element
			return false
		}
		return true
	})
	return found
}

// Walk visits e and its descendants depth first. Returning false from visit
// skips the element's children.
func (e *Element) Walk(visit func(*Element) bool) {
	if !visit(e) {
		return
	}
	for i := range e.Children {
		e.Children[i].Walk(visit)
	}
}

// FindSection returns the first SECTION among siblings after index, or nil.
// Amendment instructions are followed by the section text they amend.
func FindSection(siblings []Element, index int) *Element {
	return findFollowing(siblings, index, "SECTION")
}

// FindSubpart returns the first SUBPART among siblings after index, or nil.
func FindSubpart(siblings []Element, index int) *Element {
	return findFollowing(siblings, index, "SUBPART")
}

func findFollowing(siblings []Element, index int, name string) *Element {
	for i := index + 1; i < len(siblings); i++ {
		if strings.EqualFold(siblings[i].Name(), name) {
			return &siblings[i]
		}
	}
	return nil
}
