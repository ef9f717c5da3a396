package page

import (
	"math"
	"strings"
	"testing"

	"portfolio-motion/internal/engine2D/parallax"
	"portfolio-motion/internal/engine2D/reveal"
	"portfolio-motion/internal/host"
)

const testPage = `<!DOCTYPE html>
<html>
<head><title> Test   Page </title></head>
<body>
  <section id="a" data-height="300">
    <h1 id="t" class="big parallax" data-speed="0.2">Hi <span class="parallax">there</span></h1>
    <p id="p">x</p>
  </section>
  <section id="b">
    <div id="d" class="reveal">
      <h3 id="h">A</h3>
      <a id="l" href="#">L</a>
    </div>
  </section>
</body>
</html>`

func parseTestPage(t *testing.T, width, height float64) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(testPage), width, height)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func byID(t *testing.T, doc *Document, id string) *Element {
	t.Helper()
	for _, el := range doc.Elements() {
		if el.ID == id {
			return el
		}
	}
	t.Fatalf("No element with id %q", id)
	return nil
}

func TestParseLayout(t *testing.T) {
	doc := parseTestPage(t, 1000, 500)

	if doc.Title != "Test Page" {
		t.Errorf("Expected title %q, got %q", "Test Page", doc.Title)
	}
	if len(doc.Sections()) != 2 {
		t.Fatalf("Expected 2 sections, got %d", len(doc.Sections()))
	}

	tests := []struct {
		id   string
		want host.Rect
	}{
		{"a", host.Rect{X: 0, Y: 0, Width: 1000, Height: 300}},
		{"t", host.Rect{X: 64, Y: 64, Width: 872, Height: 72}},
		{"p", host.Rect{X: 64, Y: 152, Width: 872, Height: 28}},
		{"b", host.Rect{X: 0, Y: 300, Width: 1000, Height: 480}},
		{"h", host.Rect{X: 64, Y: 364, Width: 872, Height: 36}},
		{"l", host.Rect{X: 64, Y: 416, Width: 872, Height: 40}},
		{"d", host.Rect{X: 64, Y: 364, Width: 872, Height: 92}},
	}
	for _, tt := range tests {
		if got := byID(t, doc, tt.id).Layout(); got != tt.want {
			t.Errorf("Layout of #%s = %+v, want %+v", tt.id, got, tt.want)
		}
	}

	if doc.ContentHeight() != 780 {
		t.Errorf("Expected content height 780, got %v", doc.ContentHeight())
	}
	if byID(t, doc, "t").Text != "Hi there" {
		t.Errorf("Unexpected text %q", byID(t, doc, "t").Text)
	}
}

func TestQueryAllResolvesToLaidOutElements(t *testing.T) {
	doc := parseTestPage(t, 1000, 500)

	found := doc.QueryAll(parallax.DefaultMarker)
	// The span resolves to its heading, which is only returned once.
	if len(found) != 1 {
		t.Fatalf("Expected 1 parallax element, got %d", len(found))
	}
	speed, ok := found[0].Attr(parallax.DefaultSpeedAttr)
	if !ok || speed != "0.2" {
		t.Errorf("Expected data-speed 0.2, got %q (present=%v)", speed, ok)
	}

	if got := doc.QueryAll("missing"); len(got) != 0 {
		t.Errorf("Expected no matches, got %d", len(got))
	}
	if got := doc.QueryAll("bad') or ('1"); len(got) != 0 {
		t.Errorf("Invalid marker matched %d elements", len(got))
	}
	if got := doc.RevealTargets("reveal"); len(got) != 1 {
		t.Errorf("Expected 1 reveal target, got %d", len(got))
	}
}

func TestScrollAndBoundingRect(t *testing.T) {
	doc := parseTestPage(t, 1000, 500)
	heading := byID(t, doc, "t")

	if doc.MaxScroll() != 280 {
		t.Fatalf("Expected max scroll 280, got %v", doc.MaxScroll())
	}
	if !doc.ScrollTo(100) {
		t.Error("ScrollTo(100) reported no change")
	}
	rect, ok := heading.BoundingRect()
	if !ok || rect.Y != -36 {
		t.Errorf("Expected connected rect at y=-36, got %+v (connected=%v)", rect, ok)
	}

	if doc.ScrollTo(100) {
		t.Error("Scrolling to the same position reported a change")
	}
	doc.ScrollBy(10_000)
	if doc.ScrollY() != 280 {
		t.Errorf("Expected scroll clamped to 280, got %v", doc.ScrollY())
	}
	doc.ScrollBy(-10_000)
	if doc.ScrollY() != 0 {
		t.Errorf("Expected scroll clamped to 0, got %v", doc.ScrollY())
	}

	// Own translate does not feed back into the measured box.
	heading.SetTranslateY(50)
	rect, _ = heading.BoundingRect()
	if rect.Y != 64 {
		t.Errorf("BoundingRect included the element's translate: %+v", rect)
	}
	if heading.VisualRect().Y != 114 {
		t.Errorf("VisualRect should include the translate, got %+v", heading.VisualRect())
	}
}

func TestViewportRelayout(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<body><section id="hero" data-height="100vh"><canvas></canvas><h1>x</h1></section></body>`), 800, 600)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	hero := doc.Sections()[0]
	if hero.Layout().Height != 600 {
		t.Errorf("Expected 100vh hero to be 600 tall, got %v", hero.Layout().Height)
	}
	canvas := doc.Canvas()
	if canvas == nil || canvas.Layout() != hero.Layout() {
		t.Fatalf("Expected the canvas to cover the hero, got %+v", canvas)
	}

	doc.SetViewport(1200, 900)
	if hero.Layout().Height != 900 || hero.Layout().Width != 1200 {
		t.Errorf("Expected relayout to 1200x900, got %+v", hero.Layout())
	}
	if doc.ViewportHeight() != 900 || doc.ViewportWidth() != 1200 {
		t.Errorf("Viewport not updated: %vx%v", doc.ViewportWidth(), doc.ViewportHeight())
	}
}

func TestRevealTransition(t *testing.T) {
	doc := parseTestPage(t, 1000, 500)
	container := byID(t, doc, "d")
	heading := byID(t, doc, "h")
	link := byID(t, doc, "l")

	if heading.Opacity() != 0 {
		t.Errorf("Child of an unrevealed container should be transparent, got %v", heading.Opacity())
	}
	if heading.VisualRect().Y != 384 {
		t.Errorf("Expected slide-in offset of 20, got y=%v", heading.VisualRect().Y)
	}
	if doc.ClickableAt(100, 420) {
		t.Error("Link hit before it slid into place")
	}

	container.SetRevealed(true)
	doc.Advance(0.4)
	mid := heading.Opacity()
	if mid <= 0 || mid >= 1 {
		t.Errorf("Expected a partial fade mid-transition, got %v", mid)
	}
	doc.Advance(0.4)
	if math.Abs(heading.Opacity()-1) > 1e-9 || heading.VisualRect().Y != 364 {
		t.Errorf("Expected a completed reveal, opacity=%v y=%v", heading.Opacity(), heading.VisualRect().Y)
	}
	if !doc.ClickableAt(100, 420) || !link.Clickable() {
		t.Error("Expected the link to be hit after the reveal")
	}
	if doc.ClickableAt(100, 370) {
		t.Error("Heading should not be clickable")
	}

	container.SetRevealed(false)
	doc.Advance(2)
	if heading.Opacity() != 0 {
		t.Errorf("Expected the element to fade back out, got %v", heading.Opacity())
	}
}

func TestRemoveDetachesSubtree(t *testing.T) {
	doc := parseTestPage(t, 1000, 500)

	if !doc.Remove("d") {
		t.Fatal("Remove reported no element")
	}
	for _, id := range []string{"d", "h", "l"} {
		if _, ok := byID(t, doc, id).BoundingRect(); ok {
			t.Errorf("#%s still connected after removal", id)
		}
	}
	if _, ok := byID(t, doc, "t").BoundingRect(); !ok {
		t.Error("Unrelated element was detached")
	}
	if doc.Remove("nope") {
		t.Error("Removing an unknown id reported success")
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(strings.NewReader(`<body><div>no sections</div></body>`), 800, 600); err == nil {
		t.Error("Expected an error for a page without sections")
	}
	if _, err := Load("does/not/exist.html", 800, 600); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestDefaultPage(t *testing.T) {
	doc, err := Default(1280, 720)
	if err != nil {
		t.Fatalf("Default page failed to parse: %v", err)
	}

	if len(doc.Sections()) != 6 {
		t.Errorf("Expected 6 sections, got %d", len(doc.Sections()))
	}
	if doc.Canvas() == nil {
		t.Error("Expected a hero canvas")
	}
	if n := len(doc.QueryAll(parallax.DefaultMarker)); n != 7 {
		t.Errorf("Expected 7 parallax elements, got %d", n)
	}
	if n := len(doc.RevealTargets("reveal")); n != 9 {
		t.Errorf("Expected 9 reveal targets, got %d", n)
	}
	if doc.MaxScroll() <= 0 {
		t.Error("Default page should scroll")
	}
}

func TestAnimationsOverDocument(t *testing.T) {
	doc := parseTestPage(t, 1000, 300)
	bus := host.NewEventBus()
	frames := host.NewFrameQueue()

	engine := parallax.Attach(doc, bus, frames, parallax.Options{})
	watcher := reveal.Attach(doc, bus, frames, reveal.Options{})
	frames.RunFrame(0)

	heading := byID(t, doc, "t")
	if math.Abs(heading.TranslateY()-10) > 1e-9 {
		t.Errorf("Expected initial translate 10, got %v", heading.TranslateY())
	}
	if watcher.InView(0) {
		t.Error("Container below the fold revealed on load")
	}

	doc.ScrollTo(200)
	bus.Dispatch(host.Event{Type: host.EventScroll, ScrollY: doc.ScrollY()})
	frames.RunFrame(0)

	if math.Abs(heading.TranslateY()-50) > 1e-9 {
		t.Errorf("Expected translate 50 after scrolling, got %v", heading.TranslateY())
	}
	if !watcher.InView(0) || !byID(t, doc, "d").Revealed() {
		t.Fatal("Expected the container to reveal while scrolling down")
	}
	doc.Advance(0.8)
	if math.Abs(byID(t, doc, "h").Opacity()-1) > 1e-9 {
		t.Errorf("Expected the revealed child to be opaque, got %v", byID(t, doc, "h").Opacity())
	}

	engine.Detach()
	watcher.Detach()
	if bus.Count() != 0 || frames.Pending() != 0 {
		t.Errorf("Expected clean teardown, got %d listeners and %d frames", bus.Count(), frames.Pending())
	}
}
