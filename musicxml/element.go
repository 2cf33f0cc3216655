package musicxml

import (
	"encoding/xml"
	"strings"
)

// Element is an arbitrary child element, used for open-ended groups such as
// ornaments, technical marks, articulations and dynamics.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Value    string     `xml:",chardata"`
	Children []Element  `xml:",any"`
}

func (e Element) Name() string {
	return e.XMLName.Local
}

func (e Element) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (e Element) Text() string {
	return strings.TrimSpace(e.Value)
}

func (e Element) Child(name string) (Element, bool) {
	for _, c := range e.Children {
		if c.Name() == name {
			return c, true
		}
	}
	return Element{}, false
}

type Group struct {
	Items []Element `xml:",any"`
}
