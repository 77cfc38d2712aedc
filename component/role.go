package component

import (
	"strings"

	"github.com/lixenwraith/siege/vmath"
)

// Role is a typed structural role resolved from authored tags
type Role uint8

const (
	RoleNone Role = iota
	RoleArm
	RolePivot
	RoleCounterWeight
	RoleBar
	RoleLock
	RoleHill
	RoleAntenna
	RoleBarrel
	RoleFieldTarget
)

var roleNames = [...]string{
	RoleNone:          "",
	RoleArm:           "Arm",
	RolePivot:         "Pivot",
	RoleCounterWeight: "CounterWeight",
	RoleBar:           "Bar",
	RoleLock:          "Lock",
	RoleHill:          "Hill",
	RoleAntenna:       "Antenna",
	RoleBarrel:        "Barrel",
	RoleFieldTarget:   "FieldTarget",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "Unknown"
}

// RoleFromTag is the only place authored tag strings are interpreted
// A tag matches when it contains a vocabulary word; CounterWeight is checked before shorter words
func RoleFromTag(tag string) (Role, bool) {
	if tag == "" {
		return RoleNone, false
	}
	for _, r := range [...]Role{
		RoleCounterWeight, RoleFieldTarget, RoleAntenna, RoleBarrel,
		RolePivot, RoleHill, RoleLock, RoleArm, RoleBar,
	} {
		if strings.Contains(tag, roleNames[r]) {
			return r, true
		}
	}
	return RoleNone, false
}

// TagComponent carries the authored name, free-form tag and box extent of a scene node
type TagComponent struct {
	Name string
	Tag  string
	Size vmath.Vec3F // Full dimensions, zero when unauthored
}

// RoleComponent is the lightweight marker attached once a node's role is bound
type RoleComponent struct {
	Role Role
}
