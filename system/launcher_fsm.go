package system

import (
	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/config"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/engine/fsm"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

// registerLauncherFSM registers all launch cycle guards and actions
// Actions resolving a stale handle skip silently, the launcher retries or idles
func registerLauncherFSM(m *fsm.Machine[*launcherCtx]) {
	// --- ACTIONS ---

	// ArmReload: sample the Idle duration
	m.RegisterAction("ArmReload", func(ctx *launcherCtx, _ any) {
		cfg := ctx.s.cfg()
		ctx.l.Reload = engine.RandDuration(ctx.s.world.Resources.Rand, cfg.Launcher.ReloadMin, cfg.Launcher.ReloadMax)
		ctx.l.ReloadRemaining = ctx.l.Reload
	})

	// CreateLink: distance joint from the release end to the bar
	m.RegisterAction("CreateLink", func(ctx *launcherCtx, _ any) {
		s := ctx.s
		s.removeLink(ctx.l)

		end, ok := s.body(ctx.l.Parts.ReleaseEnd)
		if !ok {
			return
		}
		bar, ok := s.body(ctx.l.Parts.Bar)
		if !ok {
			return
		}
		cfg := s.cfg().Launcher
		ctx.l.Link = s.physics().CreateJoint(physics.JointDesc{
			Kind:      physics.Distance,
			A:         end,
			B:         bar,
			AnchorB:   cfg.LinkBarAnchor.V(),
			MinLength: cfg.LinkMinLength,
			MaxLength: cfg.LinkMaxLength,
		})
	})

	// SetPivotDamping: args "tension" holds the arm, anything else restores rest damping
	m.RegisterAction("SetPivotDamping", func(ctx *launcherCtx, args any) {
		cfg := ctx.s.cfg().Launcher
		damping := cfg.PivotDampingRest
		if mode, _ := args.(string); mode == "tension" {
			damping = cfg.PivotDampingTension
		}
		pw := ctx.s.physics()
		j, ok := pw.Joint(ctx.l.PivotJoint)
		if !ok {
			return
		}
		j.AngularDamping = damping
		pw.UpdateJoint(ctx.l.PivotJoint, j)
	})

	// TightenLink: shrink the upper limit down to the floor, then pull the bar anchor in
	m.RegisterAction("TightenLink", func(ctx *launcherCtx, _ any) {
		pw := ctx.s.physics()
		j, ok := pw.Joint(ctx.l.Link)
		if !ok {
			return
		}
		cfg := ctx.s.cfg().Launcher
		if j.MaxLength > cfg.LinkMaxFloor {
			j.MaxLength = max(cfg.LinkMaxFloor, j.MaxLength-cfg.LinkLimitStep)
		} else {
			j.AnchorB.Z = max(0, j.AnchorB.Z-cfg.LinkAnchorStep)
		}
		pw.UpdateJoint(ctx.l.Link, j)
	})

	// RequestBall: drop a ball onto the release end, no lifetime until release
	m.RegisterAction("RequestBall", func(ctx *launcherCtx, _ any) {
		ctx.s.requestBall(ctx)
	})

	// RetryBall: a ball that never engaged is retired and replaced
	m.RegisterAction("RetryBall", func(ctx *launcherCtx, _ any) {
		s := ctx.s
		ctx.l.BallWait += s.world.Resources.Time.DeltaTime
		if ctx.l.BallWait < s.cfg().Launcher.ArmingRetry {
			return
		}
		n := s.retireLoaded(ctx.entity)
		s.world.Resources.Log.Debug("ball not engaged, retrying", "launcher", ctx.entity, "retired", n)
		s.requestBall(ctx)
	})

	// CoupleBall: replace the bar link with a short compliant link to the engaged ball
	m.RegisterAction("CoupleBall", func(ctx *launcherCtx, _ any) {
		s := ctx.s
		s.removeLink(ctx.l)
		ctx.l.Carried = ctx.ball

		end, ok := s.body(ctx.l.Parts.ReleaseEnd)
		if !ok {
			return
		}
		ball, ok := s.body(ctx.ball)
		if !ok {
			return
		}
		cfg := s.cfg()
		rest := 2 * cfg.Projectile.BallRadius
		ctx.l.Link = s.physics().CreateJoint(physics.JointDesc{
			Kind:          physics.Distance,
			A:             end,
			B:             ball,
			MinLength:     rest,
			MaxLength:     rest,
			Compliance:    cfg.Launcher.CoupleCompliance,
			LinearDamping: cfg.Launcher.CoupleLinearDamping,
		})
	})

	// ReleaseBall: drop the link, make the carried ball target-eligible with a lifetime
	m.RegisterAction("ReleaseBall", func(ctx *launcherCtx, _ any) {
		s := ctx.s
		s.removeLink(ctx.l)

		ball := ctx.l.Carried
		ctx.l.Carried = core.NoEntity
		c := &s.world.Components
		if !c.Projectile.HasEntity(ball) {
			return
		}

		cfg := s.cfg().Launcher
		life := engine.RandDuration(s.world.Resources.Rand, cfg.ReleaseLifetimeMin, cfg.ReleaseLifetimeMax)
		c.Released.SetComponent(ball, component.ReleasedComponent{})
		c.Lifetime.SetComponent(ball, component.LifetimeComponent{Remaining: life})
		ctx.l.Launches++

		s.world.Resources.Log.Info("ball released", "launcher", ctx.entity, "ball", ball, "lifetime", life)
		s.world.PushEvent(event.EventProjectileReleased, &event.ProjectileReleasedPayload{
			Launcher:   ctx.entity,
			Projectile: ball,
			Lifetime:   life,
		})
	})

	// --- GUARDS ---

	// ReloadElapsed: Idle has lasted the sampled reload
	m.RegisterGuard("ReloadElapsed", func(ctx *launcherCtx, inst *fsm.Instance) bool {
		return inst.TimeInState >= ctx.l.Reload
	})

	// CommandTargetsLauncher: the command names this launcher or every launcher
	m.RegisterGuard("CommandTargetsLauncher", func(ctx *launcherCtx, _ *fsm.Instance) bool {
		if ctx.ev == nil {
			return false
		}
		cmd, ok := ctx.ev.Payload.(*event.LaunchCommandPayload)
		if !ok {
			return false
		}
		return !cmd.Launcher.Valid() || cmd.Launcher == ctx.entity
	})

	// ArmLowered: the long end of the arm sank below the tilt threshold
	m.RegisterGuard("ArmLowered", func(ctx *launcherCtx, _ *fsm.Instance) bool {
		tilt, ok := ctx.s.armTilt(ctx.entity, ctx.l)
		return ok && tilt < ctx.s.cfg().Launcher.TiltThreshold
	})

	// BallEngaged: the collision pair is the release end and an unreleased ball of this launcher
	m.RegisterGuard("BallEngaged", func(ctx *launcherCtx, _ *fsm.Instance) bool {
		if ctx.ev == nil {
			return false
		}
		pair, ok := ctx.ev.Payload.(*event.CollisionEndedPayload)
		if !ok {
			return false
		}
		other := pair.Other(ctx.l.Parts.ReleaseEnd)
		if !other.Valid() {
			return false
		}
		c := &ctx.s.world.Components
		p, ok := c.Projectile.GetComponent(other)
		if !ok || p.Kind != component.ProjectileBall || p.Owner != ctx.entity || c.Released.HasEntity(other) {
			return false
		}
		ctx.ball = other
		return true
	})

	// SlingVertical: the release end swung to near vertical above the release reference point
	m.RegisterGuard("SlingVertical", func(ctx *launcherCtx, _ *fsm.Instance) bool {
		s := ctx.s
		root, ok := s.world.Components.Transform.GetComponent(ctx.entity)
		if !ok {
			return false
		}
		id, ok := s.body(ctx.l.Parts.ReleaseEnd)
		if !ok {
			return false
		}
		end, ok := s.physics().Body(id)
		if !ok {
			return false
		}
		cfg := s.cfg().Launcher
		ref := vmath.V3FAddScaled(root.Position, vmath.V3FUnitY, cfg.ReleaseHeight)
		dir := vmath.V3FNormalize(vmath.V3FSub(end.Position, ref))
		return vmath.V3FDot(dir, vmath.V3FUnitY) >= cfg.ReleaseDot
	})
}

// armTilt is the height of the arm's long end above the launcher base
func (s *LauncherSystem) armTilt(e core.Entity, l *component.LauncherComponent) (float64, bool) {
	root, ok := s.world.Components.Transform.GetComponent(e)
	if !ok {
		return 0, false
	}
	id, ok := s.body(l.Parts.Arm)
	if !ok {
		return 0, false
	}
	arm, ok := s.physics().Body(id)
	if !ok {
		return 0, false
	}
	half := s.cfg().Rig.ArmLength / 2
	tip := vmath.V3FAdd(arm.Position, vmath.QRotate(arm.Rotation, vmath.V3F(0, 0, half)))
	return tip.Y - root.Position.Y, true
}

// requestBall asks for a ball above the live release end, falling back to the build-time drop point
func (s *LauncherSystem) requestBall(ctx *launcherCtx) {
	root, ok := s.world.Components.Transform.GetComponent(ctx.entity)
	if !ok {
		return
	}
	pos := ctx.l.Loader
	if id, ok := s.body(ctx.l.Parts.ReleaseEnd); ok {
		if end, ok := s.physics().Body(id); ok {
			pos = ballDropPoint(s.cfg(), end.Position, root.Rotation)
		}
	}
	ctx.l.Carried = core.NoEntity
	ctx.l.BallWait = 0
	s.world.PushEvent(event.EventProjectileSpawnRequest, &event.ProjectileSpawnRequestPayload{
		Kind:     component.ProjectileBall,
		Owner:    ctx.entity,
		Position: pos,
	})
}

// retireLoaded expires every unreleased ball of a launcher; the projectile system destroys them
func (s *LauncherSystem) retireLoaded(launcher core.Entity) int {
	c := &s.world.Components
	n := 0
	for _, e := range c.Projectile.GetAllEntities() {
		p, ok := c.Projectile.GetComponent(e)
		if !ok || p.Kind != component.ProjectileBall || p.Owner != launcher || c.Released.HasEntity(e) {
			continue
		}
		c.Lifetime.SetComponent(e, component.LifetimeComponent{})
		n++
	}
	return n
}

// removeLink destroys the launcher's link if present
func (s *LauncherSystem) removeLink(l *component.LauncherComponent) {
	if l.Link == 0 {
		return
	}
	s.physics().RemoveJoint(l.Link)
	l.Link = 0
}

func (s *LauncherSystem) body(e core.Entity) (physics.BodyID, bool) {
	b, ok := s.world.Components.Body.GetComponent(e)
	if !ok || b.Body == 0 {
		return 0, false
	}
	return b.Body, true
}

func (s *LauncherSystem) physics() physics.World {
	return s.world.Resources.Physics.World
}

func (s *LauncherSystem) cfg() *config.Config {
	return s.world.Resources.Config.Config
}
