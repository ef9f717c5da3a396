package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"portfolio-motion/internal/engine2D/parallax"
	"portfolio-motion/internal/engine2D/reveal"
	"portfolio-motion/internal/host"
	"portfolio-motion/internal/utils"
)

//go:embed default.html
var defaultPage []byte

const (
	DefaultSectionHeight = 480.0
	SectionPadding       = 64.0
	ChildGap             = 16.0
)

var markerPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// containers are flattened into their children during layout.
var containers = map[string]bool{
	"div":    true,
	"ul":     true,
	"ol":     true,
	"header": true,
	"footer": true,
	"nav":    true,
}

// Document is a parsed page laid out as vertically stacked sections.
type Document struct {
	root  *html.Node
	Title string

	sections []*Element
	elements []*Element
	byNode   map[*html.Node]*Element

	width, height float64
	scrollY       float64
	contentHeight float64
}

// Parse reads an HTML page and lays it out for a width x height viewport.
func Parse(r io.Reader, width, height float64) (*Document, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	doc := &Document{
		root:   root,
		byNode: make(map[*html.Node]*Element),
		width:  width,
		height: height,
	}
	if title := htmlquery.FindOne(root, "//title"); title != nil {
		doc.Title = collapseSpace(htmlquery.InnerText(title))
	}

	sections := htmlquery.Find(root, "//body/section")
	if len(sections) == 0 {
		return nil, fmt.Errorf("parse page: no <section> elements under <body>")
	}

	for _, node := range sections {
		section := doc.add(node, nil, nil)
		doc.sections = append(doc.sections, section)
		doc.collect(node, section, section)
	}

	doc.layout()
	utils.Debug("Page: %d sections, %d elements, %.0fpx tall", len(doc.sections), len(doc.elements), doc.contentHeight)
	return doc, nil
}

// Load parses the page at path.
func Load(path string, width, height float64) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	return Parse(f, width, height)
}

// Default returns the built-in portfolio page.
func Default(width, height float64) (*Document, error) {
	return Parse(bytes.NewReader(defaultPage), width, height)
}

func (d *Document) add(node *html.Node, section, parent *Element) *Element {
	el := newElement(d, node, section, parent)
	el.revealable = el.HasClass(reveal.DefaultMarker)
	if el.revealable {
		el.revealProgress = 0
	}
	d.elements = append(d.elements, el)
	d.byNode[node] = el
	return el
}

func (d *Document) collect(node *html.Node, section, parent *Element) {
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		_, sized := attr(c, "data-height")
		if containers[c.Data] && !sized {
			container := d.add(c, section, parent)
			d.collect(c, section, container)
			continue
		}
		d.add(c, section, parent)
	}
}

// layout stacks sections and their children top to bottom.
func (d *Document) layout() {
	y := 0.0
	for _, section := range d.sections {
		height := d.lengthAttr(section.node, "data-height", DefaultSectionHeight)
		cursor := y + SectionPadding

		for _, el := range d.elements {
			if el.Section != section {
				continue
			}
			if el.Container() || el.Tag == "canvas" {
				continue
			}
			h := d.lengthAttr(el.node, "data-height", defaultHeight(el))
			el.layout = rect(SectionPadding, cursor, d.width-2*SectionPadding, h)
			cursor += h + ChildGap
		}

		if needed := cursor - y + SectionPadding - ChildGap; needed > height {
			height = needed
		}
		section.layout = rect(0, y, d.width, height)

		for _, el := range d.elements {
			if el.Section == section && el.Tag == "canvas" {
				el.layout = section.layout
			}
		}
		y += height
	}

	// Containers span their laid-out children.
	for _, el := range d.elements {
		if el.Container() {
			el.layout = d.span(el.node)
		}
	}

	d.contentHeight = y
	d.ScrollTo(d.scrollY)
}

func (d *Document) span(node *html.Node) host.Rect {
	top, bottom := math.Inf(1), math.Inf(-1)
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		el, ok := d.byNode[c]
		if !ok {
			continue
		}
		child := el.layout
		if el.Container() {
			child = d.span(c)
		}
		if child.Height <= 0 && child.Width <= 0 {
			continue
		}
		top = math.Min(top, child.Y)
		bottom = math.Max(bottom, child.Bottom())
	}
	if math.IsInf(top, 1) {
		return host.Rect{}
	}
	return rect(SectionPadding, top, d.width-2*SectionPadding, bottom-top)
}

// lengthAttr parses a pixel length or a "vh" length from an attribute.
func (d *Document) lengthAttr(node *html.Node, name string, fallback float64) float64 {
	raw, ok := attr(node, name)
	if !ok {
		return fallback
	}
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "vh") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "vh"), 64)
		if err != nil || v < 0 {
			return fallback
		}
		return d.height * v / 100
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "px"), 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func defaultHeight(el *Element) float64 {
	switch el.Tag {
	case "h1":
		return 72
	case "h2":
		return 48
	case "h3":
		return 36
	case "p":
		lines := math.Ceil(float64(len(el.Text)) / 90)
		return math.Max(1, lines) * 28
	case "li":
		return 28
	case "a", "button":
		return 40
	case "img":
		return 160
	}
	return 40
}

func rect(x, y, width, height float64) host.Rect {
	return host.Rect{X: x, Y: y, Width: width, Height: height}
}

func attr(node *html.Node, name string) (string, bool) {
	for _, a := range node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// find returns the laid-out elements carrying the class marker. Matching
// nodes that were not laid out resolve to their nearest laid-out ancestor.
func (d *Document) find(marker string) []*Element {
	if !markerPattern.MatchString(marker) {
		utils.Warn("Page: invalid marker %q", marker)
		return nil
	}

	expr := fmt.Sprintf("//body//*[contains(concat(' ', normalize-space(@class), ' '), ' %s ')]", marker)
	nodes, err := htmlquery.QueryAll(d.root, expr)
	if err != nil {
		utils.Error("Page: query for %q failed: %v", marker, err)
		return nil
	}

	seen := make(map[*Element]bool)
	var out []*Element
	for _, n := range nodes {
		for ; n != nil; n = n.Parent {
			if el, ok := d.byNode[n]; ok {
				if !seen[el] {
					seen[el] = true
					out = append(out, el)
				}
				break
			}
		}
	}
	return out
}

// QueryAll returns the elements tracked by the parallax engine.
func (d *Document) QueryAll(marker string) []parallax.Element {
	found := d.find(marker)
	out := make([]parallax.Element, len(found))
	for i, el := range found {
		out[i] = el
	}
	return out
}

// RevealTargets returns the elements watched by the reveal trigger.
func (d *Document) RevealTargets(marker string) []reveal.Element {
	found := d.find(marker)
	out := make([]reveal.Element, len(found))
	for i, el := range found {
		out[i] = el
	}
	return out
}

func (d *Document) ViewportHeight() float64 { return d.height }
func (d *Document) ViewportWidth() float64  { return d.width }
func (d *Document) ScrollY() float64        { return d.scrollY }
func (d *Document) ContentHeight() float64  { return d.contentHeight }

// MaxScroll is the largest valid scroll position.
func (d *Document) MaxScroll() float64 {
	return math.Max(0, d.contentHeight-d.height)
}

// SetViewport re-lays out the page for a new viewport size.
func (d *Document) SetViewport(width, height float64) {
	d.width = width
	d.height = height
	d.layout()
}

// ScrollTo clamps y into the scrollable range and reports whether the
// position changed.
func (d *Document) ScrollTo(y float64) bool {
	y = math.Max(0, math.Min(y, d.MaxScroll()))
	if y == d.scrollY {
		return false
	}
	d.scrollY = y
	return true
}

func (d *Document) ScrollBy(dy float64) bool {
	return d.ScrollTo(d.scrollY + dy)
}

// Remove detaches the element with the given id and its descendants.
func (d *Document) Remove(id string) bool {
	var target *Element
	for _, el := range d.elements {
		if el.ID == id {
			target = el
			break
		}
	}
	if target == nil {
		return false
	}
	for _, el := range d.elements {
		if isDescendant(el.node, target.node) {
			el.detached = true
		}
	}
	return true
}

func isDescendant(n, ancestor *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// Canvas returns the first canvas element, or nil.
func (d *Document) Canvas() *Element {
	for _, el := range d.elements {
		if el.Tag == "canvas" && !el.detached {
			return el
		}
	}
	return nil
}

func (d *Document) Sections() []*Element { return d.sections }

// Elements returns every laid-out element in document order.
func (d *Document) Elements() []*Element { return d.elements }

// Advance steps every reveal transition by dt seconds.
func (d *Document) Advance(dt float64) {
	for _, el := range d.elements {
		el.Advance(dt)
	}
}

// ClickableAt reports whether the viewport point hits a link, button or
// .clickable element.
func (d *Document) ClickableAt(x, y float64) bool {
	for _, el := range d.elements {
		if el.detached || !el.Clickable() {
			continue
		}
		if el.VisualRect().Contains(x, y) {
			return true
		}
	}
	return false
}
