package column

import (
	"time"

	"github.com/dshills/cursorcolumn/internal/host"
	"github.com/dshills/cursorcolumn/internal/logging"
	"github.com/dshills/cursorcolumn/internal/loop"
	"github.com/dshills/cursorcolumn/internal/theme"
)

// Configuration keys read by the controller.
const (
	KeyDisabled      = "cursor-column.disabled"
	KeyLetterSpacing = "editor.letterSpacing"

	sectionColumn = "cursor-column"
	sectionEditor = "editor"
)

// DefaultThrottleWindow bounds marker updates to roughly one per frame.
const DefaultThrottleWindow = 16 * time.Millisecond

// ColorResolver produces the marker color for a theme kind. done must be
// called on the event loop; it may be called before Resolve returns.
type ColorResolver interface {
	Resolve(kind theme.Kind, done func(color string))
}

// ColorResolverFunc adapts a function to ColorResolver.
type ColorResolverFunc func(kind theme.Kind, done func(color string))

// Resolve calls f.
func (f ColorResolverFunc) Resolve(kind theme.Kind, done func(color string)) {
	f(kind, done)
}

// defaultResolver answers with the built-in color for each kind.
var defaultResolver = ColorResolverFunc(func(kind theme.Kind, done func(string)) {
	done(theme.DefaultColor(kind))
})

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithColorResolver sets how marker colors are resolved.
func WithColorResolver(r ColorResolver) Option {
	return func(c *Controller) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithScheduler sets the scheduler used by the update throttle. Without
// one, updates are applied immediately.
func WithScheduler(s loop.Scheduler) Option {
	return func(c *Controller) {
		c.sched = s
	}
}

// WithThrottleWindow sets the minimum interval between marker updates.
func WithThrottleWindow(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.window = d
		}
	}
}

// Controller keeps one column marker in sync with a host.
//
// All methods, including the host's event callbacks, must run on the host's
// event-dispatch goroutine.
type Controller struct {
	host     host.Host
	logger   *logging.Logger
	resolver ColorResolver
	sched    loop.Scheduler
	window   time.Duration
	throttle *Throttle

	started     bool
	enabled     bool
	unsubscribe func()

	color    string
	colorGen uint64

	current  host.Decoration
	drawn    Strategy
	drawnCol string

	creates  int
	disposes int
}

// NewController creates a controller for h. Call Start to attach it.
func NewController(h host.Host, opts ...Option) *Controller {
	c := &Controller{
		host:     h,
		logger:   logging.Nop(),
		resolver: defaultResolver,
		window:   DefaultThrottleWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("column")
	if c.sched != nil {
		c.throttle = NewThrottle(c.sched, c.window, c.render)
	}
	return c
}

// Start reads the enabled setting, subscribes to host events and draws the
// first marker once the theme color is known.
func (c *Controller) Start() {
	if c.started {
		return
	}
	c.started = true
	c.enabled = c.readEnabled()
	c.unsubscribe = c.host.Subscribe(c.HandleEvent)
	c.logger.Debug("controller started", "enabled", c.enabled)
	if c.enabled {
		c.refreshColor()
	}
}

// Stop detaches from the host and removes the marker.
func (c *Controller) Stop() {
	if !c.started {
		return
	}
	c.started = false
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if c.throttle != nil {
		c.throttle.Cancel()
	}
	c.colorGen++
	c.disposeCurrent()
	c.logger.Debug("controller stopped", "creates", c.creates, "disposes", c.disposes)
}

// HandleEvent reacts to a host event.
func (c *Controller) HandleEvent(ev host.Event) {
	if !c.started {
		return
	}
	switch ev.Type {
	case host.EventSelectionChanged, host.EventVisibleRangesChanged:
		c.scheduleUpdate()

	case host.EventThemeChanged:
		c.disposeCurrent()
		c.color = ""
		c.colorGen++
		if c.enabled {
			c.refreshColor()
		}

	case host.EventConfigChanged:
		if host.AffectsConfiguration(ev.Key, sectionColumn) {
			c.setEnabled(c.readEnabled())
		}
		if host.AffectsConfiguration(ev.Key, sectionEditor) {
			c.scheduleUpdate()
		}
	}
}

// Enabled reports whether the marker is active.
func (c *Controller) Enabled() bool {
	return c.enabled
}

// Color returns the resolved marker color, or "" while resolving.
func (c *Controller) Color() string {
	return c.color
}

// Current returns the live decoration, if any.
func (c *Controller) Current() (host.Decoration, bool) {
	return c.current, c.current != nil
}

// Strategy returns the placement of the live decoration.
func (c *Controller) Strategy() (Strategy, bool) {
	return c.drawn, c.current != nil
}

// Stats returns the number of decorations created and disposed.
func (c *Controller) Stats() (creates, disposes int) {
	return c.creates, c.disposes
}

func (c *Controller) setEnabled(enabled bool) {
	if enabled == c.enabled {
		return
	}
	c.enabled = enabled
	c.logger.Debug("enabled changed", "enabled", enabled)
	if enabled {
		c.refreshColor()
		return
	}
	if c.throttle != nil {
		c.throttle.Cancel()
	}
	c.colorGen++
	c.color = ""
	c.disposeCurrent()
}

func (c *Controller) readEnabled() bool {
	disabled, ok := c.host.Config().Bool(KeyDisabled)
	return !ok || !disabled
}

func (c *Controller) letterSpacing() float64 {
	v, ok := c.host.Config().Float(KeyLetterSpacing)
	if !ok {
		return 0
	}
	return v
}

// refreshColor resolves the color for the current theme and renders once it
// arrives. Answers for an older generation are dropped.
func (c *Controller) refreshColor() {
	c.colorGen++
	gen := c.colorGen
	kind := c.host.ThemeKind()
	c.resolver.Resolve(kind, func(color string) {
		if gen != c.colorGen || !c.started || !c.enabled {
			c.logger.Debug("stale color ignored", "kind", kind.String())
			return
		}
		c.color = color
		c.render()
	})
}

func (c *Controller) scheduleUpdate() {
	if !c.enabled {
		return
	}
	if c.throttle == nil {
		c.render()
		return
	}
	c.throttle.Call()
}

func (c *Controller) render() {
	if !c.started || !c.enabled || c.color == "" {
		return
	}
	ed, ok := c.host.ActiveEditor()
	if !ok {
		return
	}
	pos, ok := ed.Selection()
	if !ok {
		return
	}
	ranges := ed.VisibleRanges()
	if len(ranges) == 0 {
		return
	}

	text, _ := ed.LineText(pos.Line)
	s := SelectStrategy(pos, ranges, text, ed.TabSize(), c.letterSpacing())
	if c.current != nil && s.Equal(c.drawn) && c.drawnCol == c.color {
		return
	}

	anchorText := text
	if s.Anchor.Line != pos.Line {
		anchorText, _ = ed.LineText(s.Anchor.Line)
	}
	next := c.host.CreateDecoration(s.Options(c.color, len([]rune(anchorText))))
	if next == nil {
		return
	}
	c.creates++

	prev := c.current
	c.current = next
	c.drawn = s
	c.drawnCol = c.color
	if prev != nil {
		prev.Dispose()
		c.disposes++
	}
}

func (c *Controller) disposeCurrent() {
	if c.current == nil {
		return
	}
	c.current.Dispose()
	c.current = nil
	c.drawn = Strategy{}
	c.drawnCol = ""
	c.disposes++
}
