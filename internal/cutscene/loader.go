package cutscene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a cutscene document on disk.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode parses a document without checking its schema version, so
// authoring tools can still report every problem of an outdated document.
func Decode(data []byte, format Format) (*Document, error) {
	if format == FormatYAML {
		var tree interface{}
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse cutscene YAML: %w", err)
		}
		b, err := json.Marshal(tree)
		if err != nil {
			return nil, fmt.Errorf("failed to convert cutscene YAML: %w", err)
		}
		data = b
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse cutscene JSON: %w", err)
	}
	return &doc, nil
}

// ReadDocument reads and decodes a document file of any supported format.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cutscene file: %w", err)
	}
	return Decode(data, FormatFromPath(path))
}

// LoadDocument reads a document and rejects unsupported schema versions.
func LoadDocument(path string) (*Document, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}

	if doc.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported cutscene schema version: %d", doc.SchemaVersion)
	}

	return doc, nil
}
