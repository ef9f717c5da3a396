package engine2D

import (
	"reflect"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestWrap(t *testing.T) {
	// Every character is 10 units wide.
	measure := func(s string) float64 { return float64(len(s) * 10) }

	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"fits", "hello world", 200, []string{"hello world"}},
		{"breaks", "hello big world", 100, []string{"hello big", "world"}},
		{"long word", "a supercalifragilistic b", 60, []string{"a", "supercalifragilistic", "b"}},
		{"whitespace", "  spaced \n out  ", 200, []string{"spaced out"}},
		{"empty", "   ", 100, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrap(tt.text, tt.width, measure); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("wrap = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFade(t *testing.T) {
	base := rl.NewColor(10, 20, 30, 200)

	tests := []struct {
		opacity float64
		alpha   uint8
	}{
		{1, 200},
		{0.5, 100},
		{0, 0},
		{-1, 0},
		{2, 200},
	}
	for _, tt := range tests {
		got := fade(base, tt.opacity)
		if got.A != tt.alpha || got.R != 10 || got.G != 20 || got.B != 30 {
			t.Errorf("fade(%v) = %+v, want alpha %d", tt.opacity, got, tt.alpha)
		}
	}
}

func TestStyleFor(t *testing.T) {
	theme := DefaultTheme()

	if s := theme.styleFor("h1"); s.Size <= theme.styleFor("h2").Size {
		t.Error("h1 should be larger than h2")
	}
	if !theme.styleFor("a").Boxed || !theme.styleFor("button").Boxed {
		t.Error("Links and buttons should be boxed")
	}
	if theme.styleFor("li").Prefix == "" {
		t.Error("List items should carry a bullet")
	}
	if theme.styleFor("span") != theme.styleFor("p") {
		t.Error("Unknown tags should fall back to body text")
	}
}
