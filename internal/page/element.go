package page

import (
	"math"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"portfolio-motion/internal/host"
)

const (
	revealDuration = 0.8
	revealDistance = 20.0
)

// Element is a laid-out node of the page.
type Element struct {
	doc  *Document
	node *html.Node

	ID      string
	Tag     string
	Text    string
	Classes []string

	// Section is the enclosing top-level section; nil for sections.
	Section *Element
	// Parent is the nearest enclosing element (a container or the section).
	Parent *Element

	layout     host.Rect
	translateY float64

	revealable     bool
	revealed       bool
	revealProgress float64

	detached bool
}

func newElement(doc *Document, node *html.Node, section, parent *Element) *Element {
	el := &Element{
		doc:     doc,
		node:    node,
		Tag:     node.Data,
		Section: section,
		Parent:  parent,
	}
	for _, a := range node.Attr {
		switch a.Key {
		case "id":
			el.ID = a.Val
		case "class":
			el.Classes = strings.Fields(a.Val)
		}
	}
	el.Text = collapseSpace(htmlquery.InnerText(node))
	el.revealProgress = 1
	return el
}

func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes {
		if c == name {
			return true
		}
	}
	return false
}

func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// Layout returns the element box in document coordinates.
func (e *Element) Layout() host.Rect { return e.layout }

// BoundingRect returns the layout box relative to the viewport. It does not
// include the element's own translate, so the parallax mapping stays a pure
// function of the scroll position.
func (e *Element) BoundingRect() (host.Rect, bool) {
	if e.detached {
		return host.Rect{}, false
	}
	r := e.layout
	r.Y -= e.doc.scrollY
	return r, true
}

// VisualRect is where the element is drawn: its viewport box shifted by the
// translate and slide-in offset of itself and every ancestor.
func (e *Element) VisualRect() host.Rect {
	r := e.layout
	r.Y -= e.doc.scrollY
	for el := e; el != nil; el = el.Parent {
		r.Y += el.translateY + el.SlideOffset()
	}
	return r
}

func (e *Element) SetTranslateY(y float64) { e.translateY = y }
func (e *Element) TranslateY() float64     { return e.translateY }

func (e *Element) SetRevealed(revealed bool) { e.revealed = revealed }
func (e *Element) Revealed() bool            { return e.revealed }

// Advance moves the reveal transition dt seconds towards its target.
func (e *Element) Advance(dt float64) {
	if !e.revealable {
		return
	}
	step := dt / revealDuration
	if e.revealed {
		e.revealProgress = math.Min(1, e.revealProgress+step)
	} else {
		e.revealProgress = math.Max(0, e.revealProgress-step)
	}
}

// Opacity of the element including the reveal state of its ancestors.
func (e *Element) Opacity() float64 {
	o := 1.0
	for el := e; el != nil; el = el.Parent {
		o *= easeOut(el.revealProgress)
	}
	return o
}

// SlideOffset is the remaining downward offset of the slide-in.
func (e *Element) SlideOffset() float64 {
	return revealDistance * (1 - easeOut(e.revealProgress))
}

func (e *Element) Detached() bool { return e.detached }

// Container reports an unsized wrapper that layout flattens into its
// children.
func (e *Element) Container() bool {
	if !containers[e.Tag] {
		return false
	}
	_, sized := e.Attr("data-height")
	return !sized
}

// Clickable reports links, buttons and .clickable elements.
func (e *Element) Clickable() bool {
	return e.Tag == "a" || e.Tag == "button" || e.HasClass("clickable")
}

func easeOut(t float64) float64 {
	return 1 - (1-t)*(1-t)*(1-t)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
