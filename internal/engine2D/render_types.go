package engine2D

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme holds the page palette.
type Theme struct {
	Background rl.Color
	Band       rl.Color
	Text       rl.Color
	Muted      rl.Color
	Accent     rl.Color
	Particle   rl.Color
}

func DefaultTheme() Theme {
	return Theme{
		Background: rl.NewColor(10, 10, 15, 255),
		Band:       rl.NewColor(18, 18, 26, 255),
		Text:       rl.NewColor(240, 240, 245, 255),
		Muted:      rl.NewColor(160, 160, 175, 255),
		Accent:     rl.NewColor(129, 140, 248, 255),
		Particle:   rl.NewColor(255, 255, 255, 255),
	}
}

// TextStyle is how an element's text is drawn.
type TextStyle struct {
	Size   float32
	Color  rl.Color
	Boxed  bool
	Prefix string
}

func (t Theme) styleFor(tag string) TextStyle {
	switch tag {
	case "h1":
		return TextStyle{Size: 48, Color: t.Text}
	case "h2":
		return TextStyle{Size: 32, Color: t.Accent}
	case "h3":
		return TextStyle{Size: 24, Color: t.Text}
	case "li":
		return TextStyle{Size: 20, Color: t.Muted, Prefix: "- "}
	case "a", "button":
		return TextStyle{Size: 20, Color: t.Text, Boxed: true}
	}
	return TextStyle{Size: 20, Color: t.Muted}
}
