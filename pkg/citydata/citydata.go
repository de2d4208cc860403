// Package citydata loads and saves the building records a city is built
// from. YAML files hold records directly; GeoJSON feature collections are
// converted feature by feature.
package citydata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/IrdiZ/kaiju/pkg/building"
)

// ErrUnsupportedFormat is returned for files that are neither YAML nor GeoJSON.
var ErrUnsupportedFormat = errors.New("unsupported city file format")

// DefaultFile is the file looked up when Load is given a directory.
const DefaultFile = "city.yaml"

// File is a city on disk.
type File struct {
	Name      string           `yaml:"name,omitempty" json:"name,omitempty"`
	Buildings []building.Input `yaml:"buildings" json:"buildings"`

	// Skipped counts GeoJSON features that carried no polygon.
	Skipped int `yaml:"-" json:"-"`
}

// Load reads a city from a YAML or GeoJSON file, chosen by extension. A
// directory is read as its city.yaml.
func Load(path string) (*File, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, DefaultFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading city file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".geojson", ".json":
		return ParseGeoJSON(data)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// ParseYAML decodes a city from YAML.
func ParseYAML(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing city YAML: %w", err)
	}
	return &f, nil
}

// Save writes the city as YAML.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding city YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing city file: %w", err)
	}
	return nil
}
