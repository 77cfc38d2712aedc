package parameter

// Ball (attacker projectile)
const (
	BallRadius  = 0.55
	BallDensity = 14.5
)

// Bullet (defender projectile)
const (
	BulletRadius  = 0.5
	BulletDensity = 1.0
)
