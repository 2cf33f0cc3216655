// Package storage reads and writes converted compositions on disk.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jsphweid/scoretree/structure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func ReadJSON(path string) (*structure.Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var c structure.Composition
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return &c, nil
}

func EncodeJSON(c *structure.Composition) ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	return data, errors.Wrap(err, "encoding composition")
}

// EncodeYAML produces the same document as EncodeJSON in YAML form.
func EncodeYAML(c *structure.Composition) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encoding composition")
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(doc)
	return out, errors.Wrap(err, "encoding yaml")
}

func WriteJSON(path string, c *structure.Composition) error {
	data, err := EncodeJSON(c)
	if err != nil {
		return err
	}
	return write(path, data)
}

func WriteYAML(path string, c *structure.Composition) error {
	data, err := EncodeYAML(c)
	if err != nil {
		return err
	}
	return write(path, data)
}

func ReadYAML(path string) (*structure.Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	var c structure.Composition
	if err := json.Unmarshal(asJSON, &c); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return &c, nil
}

func write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "writing %s", path)
}
