package musicxml

import (
	"encoding/xml"

	"github.com/pkg/errors"
)

// Measure keeps its children in document order. Elements holds values of
// type Attributes, Note, Backup, Forward, Direction, Barline and Sound.
type Measure struct {
	Number   string
	Elements []interface{}
}

func decodeInto[T any](d *xml.Decoder, start *xml.StartElement) (T, error) {
	var v T
	err := d.DecodeElement(&v, start)
	return v, errors.Wrapf(err, "decoding <%s>", start.Name.Local)
}

func (m *Measure) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "number" {
			m.Number = a.Value
		}
	}
	for {
		token, err := d.Token()
		if err != nil {
			return errors.Wrapf(err, "reading measure %s", m.Number)
		}
		var el interface{}
		switch t := token.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			switch t.Name.Local {
			case "attributes":
				el, err = decodeInto[Attributes](d, &t)
			case "note":
				el, err = decodeInto[Note](d, &t)
			case "backup":
				el, err = decodeInto[Backup](d, &t)
			case "forward":
				el, err = decodeInto[Forward](d, &t)
			case "direction":
				el, err = decodeInto[Direction](d, &t)
			case "barline":
				el, err = decodeInto[Barline](d, &t)
			case "sound":
				el, err = decodeInto[Sound](d, &t)
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
			if el != nil {
				m.Elements = append(m.Elements, el)
			}
		}
	}
}
