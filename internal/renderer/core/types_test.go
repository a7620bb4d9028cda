package core

import (
	"testing"
)

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex     string
		want    Color
		wantErr bool
	}{
		{"#FF8000", ColorFromRGB(255, 128, 0), false},
		{"ff8000", ColorFromRGB(255, 128, 0), false},
		{"#fff", ColorWhite, false}, // Short form
		{"#000000", ColorBlack, false},
		{"", Color{}, true},
		{"#12", Color{}, true},
		{"#GGGGGG", Color{}, true},
		{"#1234567", Color{}, true},
	}

	for _, tt := range tests {
		c, err := ColorFromHex(tt.hex)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ColorFromHex(%q) expected error, got nil", tt.hex)
			}
			continue
		}
		if err != nil {
			t.Errorf("ColorFromHex(%q) unexpected error: %v", tt.hex, err)
			continue
		}
		if !c.Equals(tt.want) {
			t.Errorf("ColorFromHex(%q) = %s, want %s", tt.hex, c, tt.want)
		}
	}
}

func TestColorBlend(t *testing.T) {
	bg := ColorFromRGB(0, 0, 0)
	fg := ColorFromRGB(200, 100, 50)

	if got := bg.Blend(fg, 0); !got.Equals(bg) {
		t.Errorf("expected alpha 0 to keep %s, got %s", bg, got)
	}
	if got := bg.Blend(fg, 1); !got.Equals(fg) {
		t.Errorf("expected alpha 1 to give %s, got %s", fg, got)
	}

	half := bg.Blend(fg, 0.5)
	near := func(got uint8, want int) bool {
		d := int(got) - want
		return d >= -1 && d <= 1
	}
	if !near(half.R, 100) || !near(half.G, 50) || !near(half.B, 25) {
		t.Errorf("expected half blend near (100,50,25), got (%d,%d,%d)", half.R, half.G, half.B)
	}
}

func TestColorEquals(t *testing.T) {
	if !ColorDefault.Equals(Color{Default: true}) {
		t.Error("default colors should be equal")
	}
	if ColorDefault.Equals(ColorBlack) {
		t.Error("default should not equal black")
	}
	if s := ColorDefault.String(); s != "default" {
		t.Errorf("expected \"default\", got %q", s)
	}
	if s := ColorFromRGB(10, 11, 12).String(); s != "#0A0B0C" {
		t.Errorf("expected \"#0A0B0C\", got %q", s)
	}
}

func TestStyleBuilders(t *testing.T) {
	s := NewStyle(ColorWhite).WithBackground(ColorBlack).Bold().Reverse()

	if !s.Attributes.Has(AttrBold) {
		t.Error("style should be bold")
	}
	if !s.Attributes.Has(AttrReverse) {
		t.Error("style should be reversed")
	}
	if s.Attributes.Has(AttrDim) {
		t.Error("style should not be dim")
	}
	want := Style{Foreground: ColorWhite, Background: ColorBlack, Attributes: AttrBold | AttrReverse}
	if !s.Equals(want) {
		t.Errorf("expected %+v, got %+v", want, s)
	}
}

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{'世', 2},
		{'\t', 0},
	}

	for _, tt := range tests {
		if got := RuneWidth(tt.r); got != tt.want {
			t.Errorf("RuneWidth(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestScreenRect(t *testing.T) {
	r := RectFromSize(2, 3, 4, 5)
	if r.Width() != 5 {
		t.Errorf("expected width 5, got %d", r.Width())
	}
	if r.Height() != 4 {
		t.Errorf("expected height 4, got %d", r.Height())
	}
	if r.IsEmpty() {
		t.Error("rect should not be empty")
	}
	if !(ScreenRect{Top: 1, Bottom: 1, Left: 0, Right: 3}).IsEmpty() {
		t.Error("zero-height rect should be empty")
	}
}
