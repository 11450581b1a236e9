package input

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed devices.yaml
var defaultDevices []byte

// Family is one gamepad family's button layout.
type Family struct {
	Name    string         `yaml:"name"`
	Match   []string       `yaml:"match"`
	Buttons map[int]string `yaml:"buttons"`
}

type deviceFile struct {
	Families []Family `yaml:"families"`
	Default  string   `yaml:"default"`
}

// DeviceMap resolves gamepad ids to logical button names.
type DeviceMap struct {
	families []Family
	fallback *Family
}

// LoadDevices reads a device table from path. An empty path loads the
// built-in table.
func LoadDevices(path string) (*DeviceMap, error) {
	if path == "" {
		return ParseDevices(defaultDevices)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read devices %s: %w", path, err)
	}
	m, err := ParseDevices(data)
	if err != nil {
		return nil, fmt.Errorf("devices %s: %w", path, err)
	}
	return m, nil
}

// ParseDevices decodes a YAML device table.
func ParseDevices(data []byte) (*DeviceMap, error) {
	var f deviceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse device table: %w", err)
	}
	if len(f.Families) == 0 {
		return nil, fmt.Errorf("device table has no families")
	}

	m := &DeviceMap{families: f.Families}
	for i := range m.families {
		fam := &m.families[i]
		for j, s := range fam.Match {
			fam.Match[j] = strings.ToLower(s)
		}
		if fam.Name == f.Default {
			m.fallback = fam
		}
	}
	if f.Default != "" && m.fallback == nil {
		return nil, fmt.Errorf("default family %q not defined", f.Default)
	}
	return m, nil
}

// Resolve returns the family whose match list covers padID, or the default.
func (m *DeviceMap) Resolve(padID string) *Family {
	id := strings.ToLower(padID)
	for i := range m.families {
		for _, s := range m.families[i].Match {
			if s != "" && strings.Contains(id, s) {
				return &m.families[i]
			}
		}
	}
	return m.fallback
}

// Button maps a raw button index of padID to its logical name.
func (m *DeviceMap) Button(padID string, index int) (string, bool) {
	fam := m.Resolve(padID)
	if fam == nil {
		return "", false
	}
	name, ok := fam.Buttons[index]
	return name, ok
}
