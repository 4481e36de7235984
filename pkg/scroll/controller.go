// Package scroll implements the drag-proximity auto-scroll controller: while
// a widget drag is active, the containing viewport scrolls when the pointer
// nears its top or bottom edge, with a grace distance, a velocity-aware edge
// ramp, and critically-damped speed smoothing.
package scroll

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// PositionProvider reports the pointer's vertical position. It is injected
// per gesture rather than read from process-wide state, so one drag cannot
// leak pointer samples into the next and tests stay hermetic.
type PositionProvider interface {
	// PointerY returns the current pointer Y in viewport pixel space and
	// whether a sample is available.
	PointerY() (float64, bool)
}

// Config tunes the controller. Zero fields fall back to the defaults below.
type Config struct {
	// GracePx is how far the pointer must travel from its drag-start
	// position before any scrolling happens. Guards against scroll-jitter
	// on the tiny movements right after grabbing a widget.
	GracePx float64
	// EdgePx is the height of the top and bottom trigger zones.
	EdgePx float64
	// MinSpeed is the crawl speed at a zone's outer boundary, px/s.
	MinSpeed float64
	// MaxSpeed is the speed at the viewport edge, px/s.
	MaxSpeed float64
	// RampPower shapes the speed ramp across the zone; must be >= 2 to keep
	// the outer zone gentle.
	RampPower float64
	// VelocityAlpha is the smoothing factor of the pointer velocity EMA.
	VelocityAlpha float64
}

// Defaults for Config zero fields.
const (
	DefaultGracePx       = 24
	DefaultEdgePx        = 96
	DefaultMinSpeed      = 40
	DefaultMaxSpeed      = 900
	DefaultRampPower     = 2
	DefaultVelocityAlpha = 0.3

	// awayVelocityPx is the smoothed velocity (px/s) above which the pointer
	// counts as clearly moving away from an edge, suppressing that edge.
	awayVelocityPx = 120

	// spring parameters for speed smoothing; damping 1.0 is critical.
	springFrequency = 9.0
	springDamping   = 1.0
)

func (c Config) withDefaults() Config {
	if c.GracePx <= 0 {
		c.GracePx = DefaultGracePx
	}
	if c.EdgePx <= 0 {
		c.EdgePx = DefaultEdgePx
	}
	if c.MinSpeed <= 0 {
		c.MinSpeed = DefaultMinSpeed
	}
	if c.MaxSpeed <= 0 {
		c.MaxSpeed = DefaultMaxSpeed
	}
	if c.RampPower < 2 {
		c.RampPower = DefaultRampPower
	}
	if c.VelocityAlpha <= 0 || c.VelocityAlpha > 1 {
		c.VelocityAlpha = DefaultVelocityAlpha
	}
	return c
}

// Controller drives auto-scroll for one drag gesture. Create it on drag
// start, call Tick every animation frame, and Stop on drag end. A stopped
// controller carries no per-gesture state into the next drag.
type Controller struct {
	cfg Config
	pos PositionProvider

	viewTop    float64
	viewHeight float64

	active       bool
	downOnly     bool
	startY       float64
	haveStart    bool
	graceCleared bool

	lastY    float64
	haveLast bool
	velocity float64

	speed    float64
	speedVel float64
	spring   harmonica.Spring
}

// NewController creates a controller reading pointer samples from pos.
func NewController(cfg Config, pos PositionProvider) *Controller {
	return &Controller{
		cfg:    cfg.withDefaults(),
		pos:    pos,
		spring: harmonica.NewSpring(harmonica.FPS(60), springFrequency, springDamping),
	}
}

// Start begins a gesture over a viewport spanning [top, top+height) in
// pointer pixel space.
func (c *Controller) Start(top, height float64) {
	c.reset()
	c.viewTop = top
	c.viewHeight = height
	c.active = true
	if y, ok := c.pos.PointerY(); ok {
		c.startY = y
		c.haveStart = true
		c.lastY = y
		c.haveLast = true
	}
}

// SetDownOnly suppresses the top edge zone, leaving only downward scrolling.
// Used during resize gestures, where only growing downward is meaningful.
func (c *Controller) SetDownOnly(v bool) { c.downOnly = v }

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool { return c.active }

// Stop ends the gesture and clears all per-gesture state.
func (c *Controller) Stop() {
	c.reset()
}

func (c *Controller) reset() {
	c.active = false
	c.downOnly = false
	c.startY = 0
	c.haveStart = false
	c.graceCleared = false
	c.lastY = 0
	c.haveLast = false
	c.velocity = 0
	c.speed = 0
	c.speedVel = 0
}

// Tick advances the controller by dt seconds and returns the scroll delta in
// pixels to apply this frame. Positive scrolls down. Each tick reads the
// latest pointer sample exactly once.
func (c *Controller) Tick(dt float64) float64 {
	if !c.active || dt <= 0 {
		return 0
	}

	y, ok := c.pos.PointerY()
	if !ok {
		return c.glide(0, dt)
	}

	if !c.haveStart {
		c.startY = y
		c.haveStart = true
	}
	if c.haveLast {
		instant := (y - c.lastY) / dt
		a := c.cfg.VelocityAlpha
		c.velocity = a*instant + (1-a)*c.velocity
	}
	c.lastY = y
	c.haveLast = true

	if !c.graceCleared {
		if math.Abs(y-c.startY) < c.cfg.GracePx {
			return c.glide(0, dt)
		}
		c.graceCleared = true
	}

	return c.glide(c.targetSpeed(y), dt)
}

// targetSpeed computes the raw edge-zone speed for a pointer position:
// a power ramp from MinSpeed at the zone's outer boundary to MaxSpeed at the
// viewport edge, negative for upward scrolling. The smoothed velocity
// suppresses a zone when the pointer is clearly leaving it.
func (c *Controller) targetSpeed(y float64) float64 {
	top := c.viewTop
	bottom := c.viewTop + c.viewHeight

	if dist := bottom - y; dist <= c.cfg.EdgePx && c.velocity > -awayVelocityPx {
		return c.ramp(dist)
	}
	if c.downOnly {
		return 0
	}
	if dist := y - top; dist <= c.cfg.EdgePx && c.velocity < awayVelocityPx {
		return -c.ramp(dist)
	}
	return 0
}

// ramp maps distance-to-edge into speed. dist==EdgePx gives MinSpeed,
// dist<=0 gives MaxSpeed.
func (c *Controller) ramp(dist float64) float64 {
	if dist < 0 {
		dist = 0
	}
	t := 1 - dist/c.cfg.EdgePx
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return c.cfg.MinSpeed + (c.cfg.MaxSpeed-c.cfg.MinSpeed)*math.Pow(t, c.cfg.RampPower)
}

// glide smooths the applied speed toward the target with the critically
// damped spring and converts it into this frame's scroll delta. Speed decays
// toward zero on its own once the pointer leaves a zone.
func (c *Controller) glide(target, dt float64) float64 {
	c.speed, c.speedVel = c.spring.Update(c.speed, c.speedVel, target)
	if math.Abs(c.speed) < 0.5 && target == 0 {
		c.speed = 0
		c.speedVel = 0
	}
	return c.speed * dt
}
