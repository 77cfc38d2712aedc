// Package scene decodes YAML node trees and instantiates them into the world arena
package scene

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/siege/config"
	"github.com/lixenwraith/siege/vmath"
)

var (
	// ErrUnknownAsset is returned when a placement names an asset missing from the library
	ErrUnknownAsset = errors.New("unknown asset")
	// ErrInvalidAsset wraps structural decode failures
	ErrInvalidAsset = errors.New("invalid asset")
)

// Kind selects which controller owns an asset root
type Kind string

const (
	KindLauncher Kind = "launcher"
	KindRadar    Kind = "radar"
	KindTurret   Kind = "turret"
	KindField    Kind = "field"
	KindProp     Kind = "prop"
)

// Node is one authored scene object, pose relative to its parent
type Node struct {
	Name     string      `yaml:"name"`
	Tag      string      `yaml:"tag,omitempty"`
	Position config.Vec3 `yaml:"position,omitempty"`
	Rotation config.Vec3 `yaml:"rotation,omitempty"` // Degrees about X, Y, Z, applied X first
	Size     config.Vec3 `yaml:"size,omitempty"`
	Children []Node      `yaml:"children,omitempty"`
}

// Asset is a named node tree with a controller kind
type Asset struct {
	Node `yaml:",inline"`
	Kind Kind `yaml:"kind"`
}

// LocalRotation composes the authored euler angles
func (n *Node) LocalRotation() vmath.Quat {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	qx := vmath.QFromAxisAngle(vmath.V3FUnitX, rad(n.Rotation[0]))
	qy := vmath.QFromAxisAngle(vmath.V3FUnitY, rad(n.Rotation[1]))
	qz := vmath.QFromAxisAngle(vmath.V3FUnitZ, rad(n.Rotation[2]))
	return vmath.QNormalize(vmath.QMul(qz, vmath.QMul(qy, qx)))
}

// ParseAsset decodes one asset document
func ParseAsset(data []byte) (*Asset, error) {
	var a Asset
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	if a.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidAsset)
	}
	switch a.Kind {
	case KindLauncher, KindRadar, KindTurret, KindField, KindProp:
	case "":
		a.Kind = KindProp
	default:
		return nil, fmt.Errorf("%w: %s has unknown kind %q", ErrInvalidAsset, a.Name, a.Kind)
	}
	return &a, nil
}

// Library resolves asset names
type Library struct {
	assets map[string]*Asset
}

func NewLibrary() *Library {
	return &Library{assets: make(map[string]*Asset)}
}

// LoadLibrary reads every *.yaml file of fsys, keyed by file stem
func LoadLibrary(fsys fs.FS) (*Library, error) {
	lib := NewLibrary()
	entries, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	for _, name := range entries {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read asset %s: %w", name, err)
		}
		a, err := ParseAsset(data)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", name, err)
		}
		lib.Add(strings.TrimSuffix(path.Base(name), ".yaml"), a)
	}
	return lib, nil
}

// Add registers or replaces an asset
func (l *Library) Add(name string, a *Asset) {
	l.assets[name] = a
}

// Get returns the asset or ErrUnknownAsset
func (l *Library) Get(name string) (*Asset, error) {
	a, ok := l.assets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAsset, name)
	}
	return a, nil
}

// Len returns the number of assets
func (l *Library) Len() int {
	return len(l.assets)
}
