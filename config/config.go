// Package config loads session settings: defaults from parameter, a YAML file, then SIEGE_* environment overrides
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/siege/parameter"
	"github.com/lixenwraith/siege/vmath"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Vec3 is a YAML sequence of three numbers
type Vec3 [3]float64

// Config is the full session configuration
type Config struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	Scene    string `yaml:"scene" env:"SCENE"` // Empty uses the embedded battlefield

	Sim        SimConfig        `yaml:"sim" envPrefix:"SIM_"`
	Launcher   LauncherConfig   `yaml:"launcher" envPrefix:"LAUNCHER_"`
	Rig        RigConfig        `yaml:"rig" envPrefix:"RIG_"`
	Projectile ProjectileConfig `yaml:"projectile" envPrefix:"PROJECTILE_"`
	Radar      RadarConfig      `yaml:"radar" envPrefix:"RADAR_"`
	Turret     TurretConfig     `yaml:"turret" envPrefix:"TURRET_"`
	Physics    PhysicsConfig    `yaml:"physics" envPrefix:"PHYSICS_"`
	Server     ServerConfig     `yaml:"server" envPrefix:"SERVER_"`
	Audio      AudioConfig      `yaml:"audio" envPrefix:"AUDIO_"`
}

// SimConfig drives the clock
type SimConfig struct {
	TickRate       int           `yaml:"tick_rate" env:"TICK_RATE"` // Hz
	Seed           uint64        `yaml:"seed" env:"SEED"`
	LoadingTimeout time.Duration `yaml:"loading_timeout" env:"LOADING_TIMEOUT"`
}

// TickInterval is the fixed step derived from TickRate
func (s SimConfig) TickInterval() time.Duration {
	if s.TickRate <= 0 {
		return parameter.TickInterval
	}
	return time.Second / time.Duration(s.TickRate)
}

// LauncherConfig tunes the launch cycle
type LauncherConfig struct {
	ReloadMin time.Duration `yaml:"reload_min" env:"RELOAD_MIN"`
	ReloadMax time.Duration `yaml:"reload_max" env:"RELOAD_MAX"`

	LinkMinLength  float64 `yaml:"link_min_length" env:"LINK_MIN_LENGTH"`
	LinkMaxLength  float64 `yaml:"link_max_length" env:"LINK_MAX_LENGTH"`
	LinkMaxFloor   float64 `yaml:"link_max_floor" env:"LINK_MAX_FLOOR"`
	LinkLimitStep  float64 `yaml:"link_limit_step" env:"LINK_LIMIT_STEP"`
	LinkAnchorStep float64 `yaml:"link_anchor_step" env:"LINK_ANCHOR_STEP"`
	LinkBarAnchor  Vec3    `yaml:"link_bar_anchor"`
	TiltThreshold  float64 `yaml:"tilt_threshold" env:"TILT_THRESHOLD"`

	PivotDampingBuild   float64 `yaml:"pivot_damping_build" env:"PIVOT_DAMPING_BUILD"`
	PivotDampingTension float64 `yaml:"pivot_damping_tension" env:"PIVOT_DAMPING_TENSION"`
	PivotDampingRest    float64 `yaml:"pivot_damping_rest" env:"PIVOT_DAMPING_REST"`

	CoupleCompliance    float64 `yaml:"couple_compliance" env:"COUPLE_COMPLIANCE"`
	CoupleLinearDamping float64 `yaml:"couple_linear_damping" env:"COUPLE_LINEAR_DAMPING"`

	ReleaseDot         float64       `yaml:"release_dot" env:"RELEASE_DOT"`
	ReleaseHeight      float64       `yaml:"release_height" env:"RELEASE_HEIGHT"`
	ReleaseLifetimeMin time.Duration `yaml:"release_lifetime_min" env:"RELEASE_LIFETIME_MIN"`
	ReleaseLifetimeMax time.Duration `yaml:"release_lifetime_max" env:"RELEASE_LIFETIME_MAX"`

	BallDropNudge  Vec3          `yaml:"ball_drop_nudge"`
	BallDropHeight float64       `yaml:"ball_drop_height" env:"BALL_DROP_HEIGHT"`
	ArmingRetry    time.Duration `yaml:"arming_retry" env:"ARMING_RETRY"`
}

// RigConfig sizes the procedurally built rig
type RigConfig struct {
	ArmLength   float64 `yaml:"arm_length" env:"ARM_LENGTH"`
	ArmWidth    float64 `yaml:"arm_width" env:"ARM_WIDTH"`
	ArmDensity  float64 `yaml:"arm_density" env:"ARM_DENSITY"`
	PivotOffset float64 `yaml:"pivot_offset" env:"PIVOT_OFFSET"`

	CounterWeightRadius  float64 `yaml:"counterweight_radius" env:"COUNTERWEIGHT_RADIUS"`
	CounterWeightHeight  float64 `yaml:"counterweight_height" env:"COUNTERWEIGHT_HEIGHT"`
	CounterWeightDensity float64 `yaml:"counterweight_density" env:"COUNTERWEIGHT_DENSITY"`
	CounterWeightDrop    float64 `yaml:"counterweight_drop" env:"COUNTERWEIGHT_DROP"`

	SlingLengthRatio float64 `yaml:"sling_length_ratio" env:"SLING_LENGTH_RATIO"`
	SlingSegments    int     `yaml:"sling_segments" env:"SLING_SEGMENTS"`
	SlingThickness   float64 `yaml:"sling_thickness" env:"SLING_THICKNESS"`
	SlingDensity     float64 `yaml:"sling_density" env:"SLING_DENSITY"`
	ReleaseEndRadius float64 `yaml:"release_end_radius" env:"RELEASE_END_RADIUS"`
}

// ProjectileConfig sizes projectiles per kind
type ProjectileConfig struct {
	BallRadius    float64 `yaml:"ball_radius" env:"BALL_RADIUS"`
	BallDensity   float64 `yaml:"ball_density" env:"BALL_DENSITY"`
	BulletRadius  float64 `yaml:"bullet_radius" env:"BULLET_RADIUS"`
	BulletDensity float64 `yaml:"bullet_density" env:"BULLET_DENSITY"`
}

// RadarConfig shapes the probe
type RadarConfig struct {
	ProbeSize     Vec3    `yaml:"probe_size"`
	ForwardOffset float64 `yaml:"forward_offset" env:"FORWARD_OFFSET"`
	Range         float64 `yaml:"range" env:"RANGE"`
}

// TurretConfig tunes tracking and bursts
type TurretConfig struct {
	Cooldown   time.Duration `yaml:"cooldown" env:"COOLDOWN"`
	Burst      int           `yaml:"burst" env:"BURST"`
	Muzzle     float64       `yaml:"muzzle" env:"MUZZLE"`
	Spacing    float64       `yaml:"spacing" env:"SPACING"`
	Impulse    float64       `yaml:"impulse" env:"IMPULSE"`
	BulletLife time.Duration `yaml:"bullet_life" env:"BULLET_LIFE"`
	SlewRate   float64       `yaml:"slew_rate" env:"SLEW_RATE"`
	Jitter     float64       `yaml:"jitter" env:"JITTER"`
	AlignDot   float64       `yaml:"align_dot" env:"ALIGN_DOT"`
}

// PhysicsConfig tunes the reference solver
type PhysicsConfig struct {
	Gravity  float64 `yaml:"gravity" env:"GRAVITY"`
	Substeps int     `yaml:"substeps" env:"SUBSTEPS"`
	Ground   bool    `yaml:"ground" env:"GROUND"`
}

// ServerConfig configures the status server
type ServerConfig struct {
	Addr           string        `yaml:"addr" env:"ADDR"`
	StreamInterval time.Duration `yaml:"stream_interval" env:"STREAM_INTERVAL"`
	RateLimit      float64       `yaml:"rate_limit" env:"RATE_LIMIT"`
	RateBurst      int           `yaml:"rate_burst" env:"RATE_BURST"`
}

// AudioConfig toggles cue playback
type AudioConfig struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
}

// Default returns configuration mirroring parameter constants
func Default() Config {
	return Config{
		LogLevel: "info",
		Sim: SimConfig{
			TickRate:       int(time.Second / parameter.TickInterval),
			Seed:           parameter.DefaultSeed,
			LoadingTimeout: parameter.LoadingTimeout,
		},
		Launcher: LauncherConfig{
			ReloadMin:           parameter.ReloadMin,
			ReloadMax:           parameter.ReloadMax,
			LinkMinLength:       parameter.LinkMinLength,
			LinkMaxLength:       parameter.LinkMaxLength,
			LinkMaxFloor:        parameter.LinkMaxFloor,
			LinkLimitStep:       parameter.LinkLimitStep,
			LinkAnchorStep:      parameter.LinkAnchorStep,
			LinkBarAnchor:       parameter.LinkBarAnchor,
			TiltThreshold:       parameter.ArmTiltThreshold,
			PivotDampingBuild:   parameter.PivotDampingBuild,
			PivotDampingTension: parameter.PivotDampingTension,
			PivotDampingRest:    parameter.PivotDampingRest,
			CoupleCompliance:    parameter.CoupleCompliance,
			CoupleLinearDamping: parameter.CoupleLinearDamping,
			ReleaseDot:          parameter.ReleaseDot,
			ReleaseHeight:       parameter.ReleaseCenterHeight,
			ReleaseLifetimeMin:  parameter.ReleaseLifetimeMin,
			ReleaseLifetimeMax:  parameter.ReleaseLifetimeMax,
			BallDropNudge:       parameter.BallDropNudge,
			BallDropHeight:      parameter.BallDropHeight,
			ArmingRetry:         parameter.ArmingRetry,
		},
		Rig: RigConfig{
			ArmLength:            parameter.ArmLength,
			ArmWidth:             parameter.ArmWidth,
			ArmDensity:           parameter.ArmDensity,
			PivotOffset:          parameter.PivotOffset,
			CounterWeightRadius:  parameter.CounterWeightRadius,
			CounterWeightHeight:  parameter.CounterWeightHeight,
			CounterWeightDensity: parameter.CounterWeightDensity,
			CounterWeightDrop:    parameter.CounterWeightDrop,
			SlingLengthRatio:     parameter.SlingLengthRatio,
			SlingSegments:        parameter.SlingSegments,
			SlingThickness:       parameter.SlingThickness,
			SlingDensity:         parameter.SlingDensity,
			ReleaseEndRadius:     parameter.ReleaseEndRadius,
		},
		Projectile: ProjectileConfig{
			BallRadius:    parameter.BallRadius,
			BallDensity:   parameter.BallDensity,
			BulletRadius:  parameter.BulletRadius,
			BulletDensity: parameter.BulletDensity,
		},
		Radar: RadarConfig{
			ProbeSize:     parameter.RadarProbeSize,
			ForwardOffset: parameter.RadarForwardOffset,
			Range:         parameter.RadarRange,
		},
		Turret: TurretConfig{
			Cooldown:   parameter.TurretCooldown,
			Burst:      parameter.TurretBurst,
			Muzzle:     parameter.TurretMuzzle,
			Spacing:    parameter.TurretSpacing,
			Impulse:    parameter.TurretImpulse,
			BulletLife: parameter.TurretBulletLife,
			SlewRate:   parameter.TurretSlewRate,
			Jitter:     parameter.TurretJitter,
			AlignDot:   parameter.TurretAlignDot,
		},
		Physics: PhysicsConfig{
			Gravity:  parameter.Gravity,
			Substeps: parameter.PhysicsSubsteps,
			Ground:   true,
		},
		Server: ServerConfig{
			Addr:           parameter.ServerAddr,
			StreamInterval: parameter.StreamInterval,
			RateLimit:      parameter.APIRateLimit,
			RateBurst:      parameter.APIRateBurst,
		},
		Audio: AudioConfig{Enabled: true},
	}
}

// Load decodes a YAML file over defaults, an empty path returns defaults
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays YAML onto cfg; unknown keys are rejected
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from SIEGE_* environment variables
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "SIEGE_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Resolve is Load followed by ApplyEnv and Validate
func Resolve(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects inverted ranges and non-positive rates
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Sim.TickRate > 0, "sim.tick_rate %d must be positive", c.Sim.TickRate)
	check(c.Sim.LoadingTimeout > 0, "sim.loading_timeout must be positive")

	l := c.Launcher
	check(l.ReloadMin > 0 && l.ReloadMin < l.ReloadMax, "launcher reload range [%v, %v) is empty", l.ReloadMin, l.ReloadMax)
	check(l.LinkMinLength >= 0 && l.LinkMinLength < l.LinkMaxLength, "launcher link limits (%g, %g) are inverted", l.LinkMinLength, l.LinkMaxLength)
	check(l.LinkMaxFloor > l.LinkMinLength, "launcher.link_max_floor %g must exceed link_min_length", l.LinkMaxFloor)
	check(l.LinkLimitStep > 0 && l.LinkAnchorStep > 0, "launcher tighten steps must be positive")
	check(l.ReleaseDot > 0 && l.ReleaseDot <= 1, "launcher.release_dot %g outside (0, 1]", l.ReleaseDot)
	check(l.ReleaseLifetimeMin > 0 && l.ReleaseLifetimeMin < l.ReleaseLifetimeMax, "launcher release lifetime range is empty")
	check(l.BallDropHeight >= 0, "launcher.ball_drop_height must not be negative")
	check(l.ArmingRetry > 0, "launcher.arming_retry must be positive")

	check(c.Rig.ArmLength > 0 && c.Rig.ArmWidth > 0, "rig arm dimensions must be positive")
	check(c.Rig.SlingSegments > 0, "rig.sling_segments %d must be positive", c.Rig.SlingSegments)
	check(c.Rig.SlingLengthRatio > 0, "rig.sling_length_ratio must be positive")

	check(c.Projectile.BallRadius > 0 && c.Projectile.BulletRadius > 0, "projectile radii must be positive")
	check(c.Radar.Range > 0, "radar.range must be positive")

	check(c.Turret.Cooldown >= 0, "turret.cooldown must not be negative")
	check(c.Turret.Burst > 0, "turret.burst %d must be positive", c.Turret.Burst)
	check(c.Turret.SlewRate > 0, "turret.slew_rate must be positive")
	check(c.Turret.Jitter >= 0 && c.Turret.Jitter < 1, "turret.jitter %g outside [0, 1)", c.Turret.Jitter)

	check(c.Physics.Substeps > 0, "physics.substeps %d must be positive", c.Physics.Substeps)
	check(c.Server.StreamInterval > 0, "server.stream_interval must be positive")
	check(c.Server.RateLimit > 0 && c.Server.RateBurst > 0, "server rate limit must be positive")

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		check(false, "log_level %q unknown", c.LogLevel)
	}

	return errors.Join(errs...)
}

// V converts to a vector
func (v Vec3) V() vmath.Vec3F {
	return vmath.Vec3F{X: v[0], Y: v[1], Z: v[2]}
}
