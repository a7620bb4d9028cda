package column

import (
	"fmt"

	"github.com/dshills/cursorcolumn/internal/host"
	"github.com/dshills/cursorcolumn/internal/theme"
)

type fakeEditor struct {
	pos     host.Position
	hasPos  bool
	ranges  []host.LineRange
	lines   map[int]string
	tabSize int
}

func (e *fakeEditor) Selection() (host.Position, bool) { return e.pos, e.hasPos }
func (e *fakeEditor) VisibleRanges() []host.LineRange  { return e.ranges }
func (e *fakeEditor) TabSize() int                     { return e.tabSize }

func (e *fakeEditor) LineText(line int) (string, bool) {
	s, ok := e.lines[line]
	return s, ok
}

type fakeConfig struct {
	bools  map[string]bool
	floats map[string]float64
}

func (c *fakeConfig) Bool(key string) (bool, bool) {
	v, ok := c.bools[key]
	return v, ok
}

func (c *fakeConfig) Float(key string) (float64, bool) {
	v, ok := c.floats[key]
	return v, ok
}

type fakeDecoration struct {
	id       string
	opts     host.DecorationOptions
	disposed int
	h        *fakeHost
}

func (d *fakeDecoration) ID() string { return d.id }

func (d *fakeDecoration) Dispose() {
	d.disposed++
	if d.disposed == 1 {
		d.h.live--
	}
}

type fakeHost struct {
	editor    *fakeEditor
	kind      theme.Kind
	config    *fakeConfig
	listeners map[int]host.Listener
	nextSub   int

	created []*fakeDecoration
	live    int
	maxLive int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		editor: &fakeEditor{
			pos:     host.Position{Line: 10, Character: 4},
			hasPos:  true,
			ranges:  []host.LineRange{{Start: 5, End: 20}},
			lines:   map[int]string{5: "fifth line", 10: "\tfoo", 30: "\tbar"},
			tabSize: 4,
		},
		kind:      theme.Dark,
		config:    &fakeConfig{bools: map[string]bool{}, floats: map[string]float64{}},
		listeners: map[int]host.Listener{},
	}
}

func (h *fakeHost) ActiveEditor() (host.Editor, bool) {
	if h.editor == nil {
		return nil, false
	}
	return h.editor, true
}

func (h *fakeHost) ThemeKind() theme.Kind     { return h.kind }
func (h *fakeHost) Config() host.ConfigReader { return h.config }

func (h *fakeHost) CreateDecoration(opts host.DecorationOptions) host.Decoration {
	d := &fakeDecoration{id: fmt.Sprintf("d%d", len(h.created)+1), opts: opts, h: h}
	h.created = append(h.created, d)
	h.live++
	if h.live > h.maxLive {
		h.maxLive = h.live
	}
	return d
}

func (h *fakeHost) Subscribe(l host.Listener) func() {
	h.nextSub++
	id := h.nextSub
	h.listeners[id] = l
	return func() { delete(h.listeners, id) }
}

func (h *fakeHost) emit(ev host.Event) {
	for _, l := range h.listeners {
		l(ev)
	}
}

func (h *fakeHost) moveTo(line, character int) {
	h.editor.pos = host.Position{Line: line, Character: character}
	h.emit(host.Event{Type: host.EventSelectionChanged, Position: h.editor.pos})
}

func (h *fakeHost) setConfig(key string, v bool) {
	h.config.bools[key] = v
	h.emit(host.Event{Type: host.EventConfigChanged, Key: key})
}

func (h *fakeHost) disposeCount() int {
	n := 0
	for _, d := range h.created {
		n += d.disposed
	}
	return n
}

func (h *fakeHost) last() *fakeDecoration {
	if len(h.created) == 0 {
		return nil
	}
	return h.created[len(h.created)-1]
}

// deferredResolver holds resolutions until release is called.
type deferredResolver struct {
	pending []func()
}

func (r *deferredResolver) Resolve(kind theme.Kind, done func(string)) {
	color := fmt.Sprintf("color-%s", kind)
	r.pending = append(r.pending, func() { done(color) })
}

func (r *deferredResolver) release(i int) {
	r.pending[i]()
}
