package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/siege/asset"
	"github.com/lixenwraith/siege/config"
)

// Placement puts an asset at a world position
type Placement struct {
	Asset    string      `yaml:"asset"`
	Position config.Vec3 `yaml:"position"`
	Yaw      *float64    `yaml:"yaw,omitempty"` // Degrees; nil faces the field
}

// Defense names the sensor and turret assets placed by the fortress layout
type Defense struct {
	Radar  string `yaml:"radar"`
	Turret string `yaml:"turret"`
}

// Battlefield is the session layout document
type Battlefield struct {
	Field     Placement   `yaml:"field"`
	Defense   Defense     `yaml:"defense"`
	Launchers []Placement `yaml:"launchers"`
	Props     []Placement `yaml:"props,omitempty"`
}

// ParseBattlefield decodes a layout document
func ParseBattlefield(data []byte) (*Battlefield, error) {
	var bf Battlefield
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("%w: battlefield: %v", ErrInvalidAsset, err)
	}
	if bf.Field.Asset == "" {
		return nil, fmt.Errorf("%w: battlefield has no field", ErrInvalidAsset)
	}
	return &bf, nil
}

// LoadBattlefield reads path, or the embedded default when path is empty
func LoadBattlefield(path string) (*Battlefield, error) {
	if path == "" {
		return ParseBattlefield(asset.DefaultBattlefield)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read battlefield %s: %w", path, err)
	}
	return ParseBattlefield(data)
}

// DefaultLibrary loads the embedded assets
func DefaultLibrary() (*Library, error) {
	return LoadLibrary(asset.Scenes())
}
