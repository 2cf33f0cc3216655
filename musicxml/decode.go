package musicxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path"
	"strings"

	"github.com/jsphweid/scoretree/scoreerr"
	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

// Decode reads a partwise document. Timewise documents are rejected as
// unsupported.
func Decode(r io.Reader) (*Document, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil, scoreerr.Malformedf("document has no root element")
		}
		if err != nil {
			return nil, scoreerr.Wrap(scoreerr.Malformed, err, "reading document")
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "score-partwise":
			var doc Document
			if err := d.DecodeElement(&doc, &start); err != nil {
				return nil, scoreerr.Wrap(scoreerr.Malformed, err, "decoding score-partwise")
			}
			return &doc, nil
		case "score-timewise":
			return nil, scoreerr.Unsupportedf("timewise scores are not supported")
		default:
			return nil, scoreerr.Malformedf("unexpected root element <%s>", start.Name.Local)
		}
	}
}

// ReadFile decodes a .musicxml/.xml file or a compressed .mxl container.
func ReadFile(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	if strings.EqualFold(path.Ext(filename), ".mxl") || bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return decodeCompressed(data)
	}
	return Decode(bytes.NewReader(data))
}

type container struct {
	RootFiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

func decodeCompressed(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, scoreerr.Wrap(scoreerr.Malformed, err, "opening mxl archive")
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	rootPath := ""
	if f, ok := files["META-INF/container.xml"]; ok {
		var c container
		if err := decodeZipEntry(f, func(r io.Reader) error { return xml.NewDecoder(r).Decode(&c) }); err != nil {
			return nil, scoreerr.Wrap(scoreerr.Malformed, err, "reading container.xml")
		}
		if len(c.RootFiles) > 0 {
			rootPath = c.RootFiles[0].FullPath
		}
	}
	if rootPath == "" {
		for _, f := range zr.File {
			name := f.Name
			if !strings.HasPrefix(name, "META-INF/") && (strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".musicxml")) {
				rootPath = name
				break
			}
		}
	}
	f, ok := files[rootPath]
	if !ok {
		return nil, scoreerr.Malformedf("mxl archive has no score file")
	}
	var doc *Document
	err = decodeZipEntry(f, func(r io.Reader) error {
		var err error
		doc, err = Decode(r)
		return err
	})
	return doc, err
}

func decodeZipEntry(f *zip.File, fn func(io.Reader) error) error {
	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "opening %s", f.Name)
	}
	defer rc.Close()
	return fn(rc)
}
