package io

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an artifact file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Encoding selects the loop table layout.
type Encoding string

const (
	// EncodingMap maps each stub to its partners.
	EncodingMap Encoding = "map"
	// EncodingPairs lists sorted unordered pairs.
	EncodingPairs Encoding = "pairs"
)

// ParseFormat validates a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
}

// ParseEncoding validates an encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToLower(s)) {
	case EncodingMap:
		return EncodingMap, nil
	case EncodingPairs:
		return EncodingPairs, nil
	}
	return "", fmt.Errorf("unknown encoding %q (want map or pairs)", s)
}

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}
