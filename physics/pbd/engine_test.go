package pbd

import (
	"math"
	"testing"

	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

const dt = 1.0 / 60

func stepN(e *Engine, n int) {
	for i := 0; i < n; i++ {
		e.Step(dt)
	}
}

// Test free fall follows gravity without ground
func TestFreeFall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ground = false
	e := New(cfg)
	id := e.CreateBody(physics.BodyDesc{
		Kind:    physics.Dynamic,
		Shape:   physics.Sphere(1),
		Density: 1,
	})

	stepN(e, 60)

	st, ok := e.Body(id)
	if !ok {
		t.Fatal("Expected body to exist")
	}
	// y = -g t^2 / 2 with symplectic Euler bias
	if st.Position.Y > -4.5 || st.Position.Y < -5.2 {
		t.Errorf("Expected about -4.9 after 1s, got %f", st.Position.Y)
	}
	if math.Abs(st.LinearVelocity.Y+9.81) > 0.05 {
		t.Errorf("Expected velocity about -9.81, got %f", st.LinearVelocity.Y)
	}
}

// Test sphere comes to rest on the ground plane
func TestGroundRest(t *testing.T) {
	e := New(DefaultConfig())
	id := e.CreateBody(physics.BodyDesc{
		Kind:     physics.Dynamic,
		Shape:    physics.Sphere(0.5),
		Density:  1,
		Position: vmath.V3F(0, 3, 0),
		Layers:   physics.LayerAttacker,
		Mask:     physics.LayerAll,
	})

	stepN(e, 240)

	st, _ := e.Body(id)
	if math.Abs(st.Position.Y-0.5) > 0.05 {
		t.Errorf("Expected resting height 0.5, got %f", st.Position.Y)
	}
}

// Test static bodies never move and have mass from density
func TestStaticBody(t *testing.T) {
	e := New(DefaultConfig())
	id := e.CreateBody(physics.BodyDesc{
		Kind:     physics.Static,
		Shape:    physics.Box(vmath.V3F(2, 2, 2)),
		Density:  3,
		Position: vmath.V3F(0, 10, 0),
	})
	stepN(e, 30)
	st, _ := e.Body(id)
	if st.Position != vmath.V3F(0, 10, 0) {
		t.Errorf("Expected static body unmoved, got %v", st.Position)
	}
	if math.Abs(st.Mass-24) > 1e-9 {
		t.Errorf("Expected mass 24, got %f", st.Mass)
	}
}

// Test distance joint upper limit holds a hanging body
func TestDistanceJointLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ground = false
	e := New(cfg)
	anchor := e.CreateBody(physics.BodyDesc{Kind: physics.Static, Shape: physics.Sphere(0.1)})
	bob := e.CreateBody(physics.BodyDesc{
		Kind:     physics.Dynamic,
		Shape:    physics.Sphere(0.2),
		Density:  1,
		Position: vmath.V3F(0, -1, 0),
	})
	j := e.CreateJoint(physics.JointDesc{
		Kind:      physics.Distance,
		A:         anchor,
		B:         bob,
		MinLength: 0.1,
		MaxLength: 2,
	})
	if j == 0 {
		t.Fatal("Expected joint id")
	}

	stepN(e, 120)
	st, _ := e.Body(bob)
	if d := vmath.V3FMag(st.Position); d > 2.01 {
		t.Errorf("Expected separation within 2, got %f", d)
	}

	// Shrinking the limit pulls the body in
	desc, _ := e.Joint(j)
	desc.MaxLength = 1
	if !e.UpdateJoint(j, desc) {
		t.Fatal("Expected update to succeed")
	}
	stepN(e, 120)
	st, _ = e.Body(bob)
	if d := vmath.V3FMag(st.Position); d > 1.01 {
		t.Errorf("Expected separation within 1 after update, got %f", d)
	}
}

// Test revolute joint keeps anchors coincident while swinging
func TestRevolutePendulum(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ground = false
	e := New(cfg)
	pivot := e.CreateBody(physics.BodyDesc{Kind: physics.Static, Shape: physics.Sphere(0.1)})
	arm := e.CreateBody(physics.BodyDesc{
		Kind:     physics.Dynamic,
		Shape:    physics.Box(vmath.V3F(0.2, 0.2, 4)),
		Density:  1,
		Position: vmath.V3F(0, 0, 2),
	})
	e.CreateJoint(physics.JointDesc{
		Kind:    physics.Revolute,
		A:       pivot,
		B:       arm,
		AnchorB: vmath.V3F(0, 0, -2),
		Axis:    vmath.V3FUnitX,
	})

	// Quarter period of a 4m rod is about 0.8s
	stepN(e, 45)

	st, _ := e.Body(arm)
	anchor := vmath.V3FAdd(st.Position, vmath.QRotate(st.Rotation, vmath.V3F(0, 0, -2)))
	if vmath.V3FMag(anchor) > 0.02 {
		t.Errorf("Expected anchor pinned at origin, drift %f", vmath.V3FMag(anchor))
	}
	if st.Position.Y > -1.0 {
		t.Errorf("Expected arm to swing down, centre y %f", st.Position.Y)
	}
	// Rotation stays around X
	side := vmath.QRotate(st.Rotation, vmath.V3FUnitX)
	if math.Abs(side.X-1) > 0.01 {
		t.Errorf("Expected hinge axis preserved, got %v", side)
	}
}

// Test contact end is reported with owners
func TestCollisionEnded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ground = false
	e := New(cfg)
	a := core.Entity(10)
	b := core.Entity(20)
	e.CreateBody(physics.BodyDesc{
		Kind:   physics.Static,
		Shape:  physics.Sphere(1),
		Layers: physics.LayerEnv,
		Mask:   physics.LayerAll,
		Owner:  a,
	})
	ball := e.CreateBody(physics.BodyDesc{
		Kind:        physics.Dynamic,
		Shape:       physics.Sphere(0.5),
		Density:     1,
		Position:    vmath.V3F(0, 1.6, 0),
		Restitution: 0.9,
		Layers:      physics.LayerAttacker,
		Mask:        physics.LayerAll,
		Owner:       b,
	})
	if _, ok := e.Body(ball); !ok {
		t.Fatal("Expected ball body")
	}

	// Dropped from just above the sphere, it lands and bounces clear
	var pairs []physics.CollisionPair
	for i := 0; i < 120 && len(pairs) == 0; i++ {
		e.Step(dt)
		pairs = append(pairs, e.DrainCollisionEnded()...)
	}
	if len(pairs) == 0 {
		t.Fatal("Expected a collision ended pair")
	}
	got := pairs[0]
	if !((got.A == a && got.B == b) || (got.A == b && got.B == a)) {
		t.Errorf("Expected pair {%d,%d}, got %v", a, b, got)
	}
	if len(e.DrainCollisionEnded()) != 0 {
		t.Error("Expected drain to clear pairs")
	}
}

// Test layers and groups filter contacts
func TestLayerFilter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ground = false
	e := New(cfg)
	e.CreateBody(physics.BodyDesc{
		Kind:   physics.Static,
		Shape:  physics.Sphere(1),
		Layers: physics.LayerDefender,
		Mask:   physics.LayerAttacker,
	})
	id := e.CreateBody(physics.BodyDesc{
		Kind:     physics.Dynamic,
		Shape:    physics.Sphere(0.5),
		Density:  1,
		Position: vmath.V3F(0, 2, 0),
		Layers:   physics.LayerDefender,
		Mask:     physics.LayerEnv,
	})
	stepN(e, 60)
	st, _ := e.Body(id)
	if st.Position.Y > 0 {
		t.Errorf("Expected body to pass through filtered static, y %f", st.Position.Y)
	}
}

// Test shape cast returns nearest masked hit and honours origin penetration
func TestShapeCast(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ground = false
	e := New(cfg)
	near := e.CreateBody(physics.BodyDesc{
		Kind: physics.Static, Shape: physics.Sphere(0.5),
		Position: vmath.V3F(0, 0, -40), Layers: physics.LayerAttacker, Owner: 1,
	})
	e.CreateBody(physics.BodyDesc{
		Kind: physics.Static, Shape: physics.Sphere(0.5),
		Position: vmath.V3F(0, 0, -80), Layers: physics.LayerAttacker, Owner: 2,
	})
	e.CreateBody(physics.BodyDesc{
		Kind: physics.Static, Shape: physics.Sphere(0.5),
		Position: vmath.V3F(0, 0, -20), Layers: physics.LayerEnv, Owner: 3,
	})
	origin := e.CreateBody(physics.BodyDesc{
		Kind: physics.Static, Shape: physics.Sphere(0.5),
		Position: vmath.V3F(0, 0, 0), Layers: physics.LayerAttacker, Owner: 4,
	})

	q := physics.ShapeCastQuery{
		HalfExtents:             vmath.V3F(1, 1, 1),
		Direction:               vmath.V3F(0, 0, -1),
		MaxDistance:             150,
		Mask:                    physics.LayerAttacker,
		IgnoreOriginPenetration: true,
	}
	hit, ok := e.ShapeCast(q)
	if !ok {
		t.Fatal("Expected hit")
	}
	if hit.Body != near || hit.Owner != 1 {
		t.Errorf("Expected nearest attacker, got %+v", hit)
	}
	if math.Abs(hit.Distance-38.5) > 1e-9 {
		t.Errorf("Expected distance 38.5, got %f", hit.Distance)
	}

	q.IgnoreOriginPenetration = false
	hit, _ = e.ShapeCast(q)
	if hit.Body != origin {
		t.Errorf("Expected overlapping body at origin, got %+v", hit)
	}

	q.MaxDistance = 10
	q.IgnoreOriginPenetration = true
	if _, ok := e.ShapeCast(q); ok {
		t.Error("Expected miss within short range")
	}
}

// Test removing a body drops its joints
func TestRemoveBodyDropsJoints(t *testing.T) {
	e := New(DefaultConfig())
	a := e.CreateBody(physics.BodyDesc{Kind: physics.Static, Shape: physics.Sphere(1)})
	b := e.CreateBody(physics.BodyDesc{Kind: physics.Dynamic, Shape: physics.Sphere(1), Density: 1})
	j := e.CreateJoint(physics.JointDesc{Kind: physics.Spherical, A: a, B: b})

	e.RemoveBody(b)
	if _, ok := e.Joint(j); ok {
		t.Error("Expected joint removed with body")
	}
	if _, ok := e.Body(b); ok {
		t.Error("Expected stale body handle")
	}
	if e.JointCount() != 0 || e.BodyCount() != 1 {
		t.Errorf("Expected 1 body 0 joints, got %d %d", e.BodyCount(), e.JointCount())
	}
	if e.CreateJoint(physics.JointDesc{Kind: physics.Spherical, A: a, B: b}) != 0 {
		t.Error("Expected zero id for joint on stale body")
	}
}
