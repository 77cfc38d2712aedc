package scene

import (
	"fmt"
	"math"

	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/parameter"
	"github.com/lixenwraith/siege/vmath"
)

// Result lists the asset roots created by Load
type Result struct {
	Field     core.Entity
	Radars    []core.Entity
	Turrets   []core.Entity
	Launchers []core.Entity
	Props     []core.Entity
}

// Instantiate creates every node of an asset as an entity
// Roots of controller kinds get their controller component and a NotReady marker
// Caller holds the world lock
func Instantiate(w *engine.World, a *Asset, pos vmath.Vec3F, rot vmath.Quat) core.Entity {
	root := spawnNode(w, &a.Node, core.NoEntity, pos, rot)

	c := &w.Components
	switch a.Kind {
	case KindLauncher:
		c.Launcher.SetComponent(root, component.LauncherComponent{})
	case KindRadar:
		c.Radar.SetComponent(root, component.RadarComponent{})
	case KindTurret:
		c.Turret.SetComponent(root, component.TurretComponent{})
	case KindField:
		c.Field.SetComponent(root, component.FieldComponent{})
	default:
		return root
	}
	c.NotReady.SetComponent(root, component.NotReadyComponent{})
	return root
}

// spawnNode creates a node and its subtree depth-first
// Root pose is world space, children compose their local pose onto the parent
func spawnNode(w *engine.World, n *Node, parent core.Entity, pos vmath.Vec3F, rot vmath.Quat) core.Entity {
	e := w.CreateEntity()
	c := &w.Components

	c.Transform.SetComponent(e, component.TransformComponent{Position: pos, Rotation: rot})
	c.Tag.SetComponent(e, component.TagComponent{Name: n.Name, Tag: n.Tag, Size: n.Size.V()})

	children := make([]core.Entity, 0, len(n.Children))
	for i := range n.Children {
		child := &n.Children[i]
		cpos := vmath.V3FAdd(pos, vmath.QRotate(rot, child.Position.V()))
		crot := vmath.QNormalize(vmath.QMul(rot, child.LocalRotation()))
		children = append(children, spawnNode(w, child, e, cpos, crot))
	}
	c.Hierarchy.SetComponent(e, component.HierarchyComponent{Parent: parent, Children: children})
	return e
}

// Load instantiates a battlefield: field, defense layout around it, then launchers facing it
// Radar positions are written to the world resource; the fortress position is left to discovery
func Load(w *engine.World, lib *Library, bf *Battlefield) (*Result, error) {
	res := &Result{}

	fieldAsset, err := lib.Get(bf.Field.Asset)
	if err != nil {
		return nil, fmt.Errorf("field: %w", err)
	}
	fieldPos := bf.Field.Position.V()
	res.Field = Instantiate(w, fieldAsset, fieldPos, yawOr(bf.Field.Yaw, vmath.QuatIdentity))

	if bf.Defense.Radar != "" || bf.Defense.Turret != "" {
		radars, turrets, err := placeDefense(w, lib, bf.Defense, fieldPos)
		if err != nil {
			return nil, err
		}
		res.Radars, res.Turrets = radars, turrets
	}

	for i, p := range bf.Launchers {
		a, err := lib.Get(p.Asset)
		if err != nil {
			return nil, fmt.Errorf("launcher %d: %w", i, err)
		}
		pos := p.Position.V()
		res.Launchers = append(res.Launchers, Instantiate(w, a, pos, yawOr(p.Yaw, Facing(pos, fieldPos))))
	}

	for i, p := range bf.Props {
		a, err := lib.Get(p.Asset)
		if err != nil {
			return nil, fmt.Errorf("prop %d: %w", i, err)
		}
		res.Props = append(res.Props, Instantiate(w, a, p.Position.V(), yawOr(p.Yaw, vmath.QuatIdentity)))
	}
	return res, nil
}

// placeDefense puts radars at fortress ± X·lateral + Z·forward and a turret inboard of each
// Both face +Z, away from the fortress toward the attackers
func placeDefense(w *engine.World, lib *Library, d Defense, fortress vmath.Vec3F) ([]core.Entity, []core.Entity, error) {
	var radarAsset, turretAsset *Asset
	var err error
	if d.Radar != "" {
		if radarAsset, err = lib.Get(d.Radar); err != nil {
			return nil, nil, fmt.Errorf("radar: %w", err)
		}
	}
	if d.Turret != "" {
		if turretAsset, err = lib.Get(d.Turret); err != nil {
			return nil, nil, fmt.Errorf("turret: %w", err)
		}
	}

	outward := vmath.QFromRotationY(math.Pi)
	var radars, turrets []core.Entity
	for _, side := range [...]float64{-1, 1} {
		pos := vmath.V3FAdd(fortress, vmath.V3F(side*parameter.RadarLateral, 0, parameter.RadarForward))
		if radarAsset != nil {
			radars = append(radars, Instantiate(w, radarAsset, pos, outward))
			w.Resources.Radars.Positions = append(w.Resources.Radars.Positions, pos)
		}
		if turretAsset != nil {
			tpos := vmath.V3FAdd(pos, vmath.V3F(-side*parameter.TurretInboard, 0, 0))
			turrets = append(turrets, Instantiate(w, turretAsset, tpos, outward))
		}
	}
	return radars, turrets, nil
}

// Facing returns the yaw rotation whose forward (-Z) points from pos toward target in the XZ plane
func Facing(pos, target vmath.Vec3F) vmath.Quat {
	dir := vmath.V3FWithY(vmath.V3FSub(target, pos), 0)
	if vmath.V3FMagSq(dir) == 0 {
		return vmath.QuatIdentity
	}
	return vmath.QLookTo(dir, vmath.V3FUnitY)
}

func yawOr(deg *float64, fallback vmath.Quat) vmath.Quat {
	if deg == nil {
		return fallback
	}
	return vmath.QFromRotationY(*deg * math.Pi / 180)
}
