package viewer

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/dshills/cursorcolumn/internal/column"
	"github.com/dshills/cursorcolumn/internal/host"
	"github.com/dshills/cursorcolumn/internal/renderer/overlay"
	"github.com/dshills/cursorcolumn/internal/theme"
)

// Setting keys read by the view.
const (
	KeyTabSize   = "editor.tabSize"
	KeyCellWidth = "editor.cellWidth"
	KeyColors    = "theme.colors"

	defaultCellWidth = 8.0
	minCellWidth     = 1.0
)

// Settings is the configuration the view reads.
type Settings interface {
	host.ConfigReader
	StringMap(key string) map[string]string
}

// StatusFunc supplies extra text for the right side of the status line.
type StatusFunc func() string

// Option configures a View.
type Option func(*View)

// WithSize sets the initial screen size.
func WithSize(width, height int) Option {
	return func(v *View) {
		v.width, v.height = width, height
	}
}

// WithThemeKind sets the initial theme kind.
func WithThemeKind(kind theme.Kind) Option {
	return func(v *View) {
		v.kind = kind
	}
}

// WithStatus sets the status line supplement.
func WithStatus(fn StatusFunc) Option {
	return func(v *View) {
		v.status = fn
	}
}

type fold struct {
	start, end int
}

// View displays a document and hosts decorations.
type View struct {
	doc      *Document
	settings Settings
	kind     theme.Kind
	status   StatusFunc

	width, height int

	cursor   host.Position
	wantChar int
	top      int
	folds    []fold

	overlays  *overlay.Manager
	listeners map[int]host.Listener
	nextSub   int
}

// NewView creates a view of doc.
func NewView(doc *Document, settings Settings, opts ...Option) *View {
	v := &View{
		doc:       doc,
		settings:  settings,
		kind:      theme.Dark,
		width:     80,
		height:    24,
		overlays:  overlay.NewManager(),
		listeners: make(map[int]host.Listener),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Host.

// ActiveEditor returns the view itself.
func (v *View) ActiveEditor() (host.Editor, bool) {
	if v.doc == nil {
		return nil, false
	}
	return v, true
}

// ThemeKind returns the active theme kind.
func (v *View) ThemeKind() theme.Kind {
	return v.kind
}

// Config returns the settings.
func (v *View) Config() host.ConfigReader {
	return v.settings
}

// CreateDecoration adds a column marker overlay.
func (v *View) CreateDecoration(opts host.DecorationOptions) host.Decoration {
	color, alpha, err := theme.ParseColor(opts.Color)
	if err != nil {
		color, alpha, _ = theme.ParseColor(theme.DefaultColor(v.kind))
	}
	id := uuid.NewString()
	v.overlays.Add(overlay.NewColumnMarker(id, overlay.MarkerOptions{
		Line:     opts.Range.Start.Line,
		Column:   opts.Columns + opts.PixelOffset/v.cellWidth(),
		Span:     opts.Span,
		Color:    color,
		Alpha:    alpha,
		Gradient: opts.Gradient,
		Ruler:    opts.OverviewRuler,
	}))
	return &decoration{id: id, overlays: v.overlays}
}

// Subscribe registers a listener.
func (v *View) Subscribe(l host.Listener) func() {
	v.nextSub++
	id := v.nextSub
	v.listeners[id] = l
	return func() { delete(v.listeners, id) }
}

// Overlays returns the decoration store.
func (v *View) Overlays() *overlay.Manager {
	return v.overlays
}

// Editor.

// Selection returns the cursor.
func (v *View) Selection() (host.Position, bool) {
	return v.cursor, v.doc != nil
}

// VisibleRanges returns one range per run of consecutive displayed lines.
func (v *View) VisibleRanges() []host.LineRange {
	var ranges []host.LineRange
	for _, line := range v.displayedLines() {
		if n := len(ranges); n > 0 && ranges[n-1].End == line-1 {
			ranges[n-1].End = line
			continue
		}
		ranges = append(ranges, host.LineRange{Start: line, End: line})
	}
	return ranges
}

// LineText returns a document line.
func (v *View) LineText(line int) (string, bool) {
	return v.doc.Line(line)
}

// TabSize returns editor.tabSize.
func (v *View) TabSize() int {
	if v.settings == nil {
		return column.DefaultTabWidth
	}
	f, ok := v.settings.Float(KeyTabSize)
	if !ok {
		return column.DefaultTabWidth
	}
	return int(f)
}

// State.

// Document returns the displayed document.
func (v *View) Document() *Document {
	return v.doc
}

// Size returns the screen size.
func (v *View) Size() (width, height int) {
	return v.width, v.height
}

// Top returns the first displayed line.
func (v *View) Top() int {
	return v.top
}

// IsHidden reports whether a line is inside a fold.
func (v *View) IsHidden(line int) bool {
	for _, f := range v.folds {
		if line > f.start && line <= f.end {
			return true
		}
	}
	return false
}

// IsFoldStart reports whether a line starts a fold.
func (v *View) IsFoldStart(line int) bool {
	_, ok := v.foldAt(line)
	return ok
}

// Mutations.

// SetCursor moves the cursor, clamped to the document.
func (v *View) SetCursor(line, character int) {
	v.setCursor(line, character, true)
}

// MoveVertical moves the cursor by delta displayed lines.
func (v *View) MoveVertical(delta int) {
	line := v.cursor.Line
	step := 1
	if delta < 0 {
		step, delta = -1, -delta
	}
	for i := 0; i < delta; i++ {
		next, ok := v.nextDisplayed(line, step)
		if !ok {
			break
		}
		line = next
	}
	v.setCursor(line, v.wantChar, false)
}

// MoveHorizontal moves the cursor by one character, wrapping across lines.
func (v *View) MoveHorizontal(delta int) {
	pos := v.cursor
	switch {
	case delta < 0 && pos.Character > 0:
		pos.Character--
	case delta < 0:
		if prev, ok := v.nextDisplayed(pos.Line, -1); ok {
			pos = host.Position{Line: prev, Character: v.doc.RuneCount(prev)}
		}
	case delta > 0 && pos.Character < v.doc.RuneCount(pos.Line):
		pos.Character++
	case delta > 0:
		if next, ok := v.nextDisplayed(pos.Line, 1); ok {
			pos = host.Position{Line: next}
		}
	}
	v.setCursor(pos.Line, pos.Character, true)
}

// Home moves the cursor to the start of its line.
func (v *View) Home() {
	v.setCursor(v.cursor.Line, 0, true)
}

// End moves the cursor to the end of its line.
func (v *View) End() {
	v.setCursor(v.cursor.Line, v.doc.RuneCount(v.cursor.Line), true)
}

// PageDown scrolls and moves the cursor one screen down.
func (v *View) PageDown() {
	v.ScrollBy(v.textHeight())
	v.MoveVertical(v.textHeight())
}

// PageUp scrolls and moves the cursor one screen up.
func (v *View) PageUp() {
	v.ScrollBy(-v.textHeight())
	v.MoveVertical(-v.textHeight())
}

// ScrollBy moves the viewport by delta displayed lines without moving the
// cursor.
func (v *View) ScrollBy(delta int) {
	top := v.top
	step := 1
	if delta < 0 {
		step, delta = -1, -delta
	}
	for i := 0; i < delta; i++ {
		next, ok := v.nextDisplayed(top, step)
		if !ok {
			break
		}
		top = next
	}
	v.setTop(top)
}

// Resize changes the screen size.
func (v *View) Resize(width, height int) {
	if width == v.width && height == v.height {
		return
	}
	v.width, v.height = width, height
	v.ensureCursorVisible()
	v.emit(host.Event{Type: host.EventVisibleRangesChanged, Ranges: v.VisibleRanges()})
}

// ToggleFold unfolds the fold at the cursor or folds the paragraph around
// it. It reports whether anything changed. The cursor is left in place,
// so it may end up inside the fold.
func (v *View) ToggleFold() bool {
	line := v.cursor.Line
	for i, f := range v.folds {
		if line >= f.start && line <= f.end {
			v.folds = append(v.folds[:i], v.folds[i+1:]...)
			v.emit(host.Event{Type: host.EventVisibleRangesChanged, Ranges: v.VisibleRanges()})
			return true
		}
	}

	if v.doc.IsBlank(line) {
		return false
	}
	start, end := line, line
	for start > 0 && !v.doc.IsBlank(start-1) {
		start--
	}
	for end < v.doc.LineCount()-1 && !v.doc.IsBlank(end+1) {
		end++
	}
	if end == start {
		return false
	}

	v.folds = append(v.folds, fold{start: start, end: end})
	sort.Slice(v.folds, func(i, j int) bool { return v.folds[i].start < v.folds[j].start })
	if v.IsHidden(v.top) {
		v.top = start
	}
	v.emit(host.Event{Type: host.EventVisibleRangesChanged, Ranges: v.VisibleRanges()})
	return true
}

// SetThemeKind switches the theme.
func (v *View) SetThemeKind(kind theme.Kind) {
	if kind == v.kind {
		return
	}
	v.kind = kind
	v.emit(host.Event{Type: host.EventThemeChanged, Theme: kind})
}

// ReloadTheme republishes the current theme, e.g. after its colors were
// edited.
func (v *View) ReloadTheme() {
	v.emit(host.Event{Type: host.EventThemeChanged, Theme: v.kind})
}

// ConfigChanged publishes a configuration change.
func (v *View) ConfigChanged(key string) {
	v.emit(host.Event{Type: host.EventConfigChanged, Key: key})
}

// Internals.

func (v *View) emit(ev host.Event) {
	ids := make([]int, 0, len(v.listeners))
	for id := range v.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if l, ok := v.listeners[id]; ok {
			l(ev)
		}
	}
}

func (v *View) setCursor(line, character int, sticky bool) {
	line = clamp(line, 0, v.doc.LineCount()-1)
	if sticky {
		v.wantChar = max(character, 0)
	}
	character = clamp(character, 0, v.doc.RuneCount(line))

	pos := host.Position{Line: line, Character: character}
	if pos == v.cursor {
		return
	}
	v.cursor = pos
	v.ensureCursorVisible()
	v.emit(host.Event{Type: host.EventSelectionChanged, Position: pos})
}

func (v *View) setTop(top int) {
	top = clamp(top, 0, v.doc.LineCount()-1)
	if f, ok := v.foldContaining(top); ok {
		top = f.start
	}
	if top == v.top {
		return
	}
	v.top = top
	v.emit(host.Event{Type: host.EventVisibleRangesChanged, Ranges: v.VisibleRanges()})
}

// ensureCursorVisible scrolls so the cursor's displayed line is on screen.
// It emits no event of its own; callers publish what changed.
func (v *View) ensureCursorVisible() {
	target := v.cursor.Line
	if f, ok := v.foldContaining(target); ok {
		target = f.start
	}
	if target < v.top {
		v.top = target
		v.emitRanges()
		return
	}
	shown := v.displayedLines()
	if len(shown) > 0 && target <= shown[len(shown)-1] {
		return
	}
	top := target
	for i := 1; i < v.textHeight(); i++ {
		prev, ok := v.nextDisplayed(top, -1)
		if !ok {
			break
		}
		top = prev
	}
	v.top = top
	v.emitRanges()
}

func (v *View) emitRanges() {
	v.emit(host.Event{Type: host.EventVisibleRangesChanged, Ranges: v.VisibleRanges()})
}

// displayedLines lists the document lines on screen, top to bottom.
func (v *View) displayedLines() []int {
	if v.doc == nil {
		return nil
	}
	h := v.textHeight()
	lines := make([]int, 0, h)
	line := v.top
	for len(lines) < h && line < v.doc.LineCount() {
		if !v.IsHidden(line) {
			lines = append(lines, line)
		}
		line++
	}
	return lines
}

// nextDisplayed steps from line in direction dir, skipping folded lines.
func (v *View) nextDisplayed(line, dir int) (int, bool) {
	l := line + dir
	for l >= 0 && l < v.doc.LineCount() && v.IsHidden(l) {
		l += dir
	}
	if l < 0 || l >= v.doc.LineCount() {
		return line, false
	}
	return l, true
}

func (v *View) foldAt(line int) (fold, bool) {
	for _, f := range v.folds {
		if f.start == line {
			return f, true
		}
	}
	return fold{}, false
}

func (v *View) foldContaining(line int) (fold, bool) {
	for _, f := range v.folds {
		if line > f.start && line <= f.end {
			return f, true
		}
	}
	return fold{}, false
}

func (v *View) textHeight() int {
	return max(v.height-1, 1)
}

func (v *View) cellWidth() float64 {
	if v.settings == nil {
		return defaultCellWidth
	}
	w, ok := v.settings.Float(KeyCellWidth)
	if !ok || math.IsNaN(w) || w <= 0 {
		return defaultCellWidth
	}
	return max(w, minCellWidth)
}

func (v *View) tabWidth() int {
	if w := v.TabSize(); w > 0 {
		return w
	}
	return column.DefaultTabWidth
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// decoration is the handle returned by CreateDecoration.
type decoration struct {
	id       string
	overlays *overlay.Manager
	disposed bool
}

func (d *decoration) ID() string { return d.id }

func (d *decoration) Dispose() {
	if d.disposed {
		return
	}
	d.disposed = true
	d.overlays.Remove(d.id)
}
