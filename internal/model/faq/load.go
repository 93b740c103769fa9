package faq

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/faq.json
var defaultDataset []byte

// ErrEmptyCorpus is returned when a dataset holds no usable entries.
var ErrEmptyCorpus = errors.New("faq corpus is empty")

// Default returns the corpus bundled with the binary.
func Default() ([]Entry, error) {
	return ParseJSON(defaultDataset)
}

// LoadFile reads a dataset from disk. Files ending in .yaml or .yml are parsed as YAML,
// everything else as JSON.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes a JSON array of {question, answer} records.
func ParseJSON(data []byte) ([]Entry, error) {
	var entries []Entry
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode json corpus: %w", err)
	}
	return validate(entries)
}

// ParseYAML decodes a YAML sequence of {question, answer} records.
func ParseYAML(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode yaml corpus: %w", err)
	}
	return validate(entries)
}

func validate(entries []Entry) ([]Entry, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}
	for i, entry := range entries {
		if strings.TrimSpace(entry.Question) == "" || strings.TrimSpace(entry.Answer) == "" {
			return nil, fmt.Errorf("corpus entry %d: question and answer are required", i)
		}
	}
	return entries, nil
}
