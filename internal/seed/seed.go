// Package seed reads catalog seed files.
//
// A seed file is YAML or JSON holding either a list of products or a mapping
// with a "products" list. Images may be given as bare URLs.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	domproduct "github.com/kailas-cloud/showroom/internal/domain/product"
)

// Load reads and decodes a seed file.
func Load(path string) ([]domproduct.Product, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	products, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return products, nil
}

// Decode parses seed content. JSON is accepted since it is valid YAML.
func Decode(data []byte) ([]domproduct.Product, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	switch v := raw.(type) {
	case nil:
		return []domproduct.Product{}, nil
	case map[string]any:
		list, ok := v["products"]
		if !ok {
			return nil, fmt.Errorf("seed mapping has no products list")
		}
		raw = list
	}
	if _, ok := raw.([]any); !ok {
		return nil, fmt.Errorf("seed must be a list of products, got %T", raw)
	}

	// Round-trip through JSON so the wire field names and image decoding apply.
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encode seed: %w", err)
	}
	var products []domproduct.Product
	if err := json.Unmarshal(buf, &products); err != nil {
		return nil, fmt.Errorf("decode seed products: %w", err)
	}
	return products, nil
}
