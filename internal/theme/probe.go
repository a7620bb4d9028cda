package theme

import (
	"context"
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ColorKey is the theme color consulted for the marker.
const ColorKey = "cursorColumn"

// ErrNoAnswer is returned when a probe finishes without reporting a color.
var ErrNoAnswer = errors.New("probe finished without reporting a color")

// Probe reads the active theme's marker color. Implementations must
// return promptly once ctx is done.
type Probe interface {
	Probe(ctx context.Context) (string, error)
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(ctx context.Context) (string, error)

// Probe calls f.
func (f ProbeFunc) Probe(ctx context.Context) (string, error) {
	return f(ctx)
}

// detectorScript reads the marker color and reports it back once.
const detectorScript = `
local colors = (theme and theme.colors) or {}
local value = colors["` + ColorKey + `"]
if value == nil then
  post("")
else
  post(tostring(value))
end
`

// LuaProbe evaluates the theme inside a throwaway Lua state. The state
// exists only for the duration of one Probe call.
type LuaProbe struct {
	kind   Kind
	colors map[string]string
	script string
}

// NewLuaProbe creates a probe for a theme of the given kind. colors seeds
// the theme.colors table; script is optional theme source run before the
// detector and may add or compute colors.
func NewLuaProbe(kind Kind, colors map[string]string, script string) *LuaProbe {
	snapshot := make(map[string]string, len(colors))
	for k, v := range colors {
		snapshot[k] = v
	}
	return &LuaProbe{kind: kind, colors: snapshot, script: script}
}

// Probe runs the theme script and the detector. Cancelling ctx interrupts
// the script.
func (p *LuaProbe) Probe(ctx context.Context) (color string, err error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	if err := openSafeLibraries(L); err != nil {
		return "", err
	}
	L.SetContext(ctx)

	colors := L.NewTable()
	for k, v := range p.colors {
		colors.RawSetString(k, lua.LString(v))
	}
	tbl := L.NewTable()
	tbl.RawSetString("kind", lua.LString(p.kind.String()))
	tbl.RawSetString("colors", colors)
	L.SetGlobal("theme", tbl)

	var answered bool
	L.SetGlobal("post", L.NewFunction(func(L *lua.LState) int {
		if !answered {
			answered = true
			color = L.OptString(1, "")
		}
		return 0
	}))

	if p.script != "" {
		if err := L.DoString(p.script); err != nil {
			return "", fmt.Errorf("theme script: %w", err)
		}
	}
	if err := L.DoString(detectorScript); err != nil {
		return "", fmt.Errorf("detector script: %w", err)
	}
	if !answered {
		return "", ErrNoAnswer
	}
	return color, nil
}

// openSafeLibraries opens the libraries a theme script may use. io, os,
// debug and package stay closed.
func openSafeLibraries(L *lua.LState) error {
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return fmt.Errorf("open %s: %w", lib.name, err)
		}
	}
	return nil
}
