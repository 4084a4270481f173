package arbor

import (
	"errors"
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

// tweens run on float32 internally; comparisons allow for that.
func approx32(a, b float64) bool {
	return math.Abs(a-b) < 1e-3
}

func TestTweenOffsetBasic(t *testing.T) {
	w, h, p, r, o := newTestHierarchy(t, false)
	parent := spawn(t, w, h, p, r, o)
	child := spawn(t, w, h, p, r, o)
	if err := h.Attach(parent, child); err != nil {
		t.Fatal(err)
	}

	g, err := TweenOffset(h, child, 10, 20, 1.0, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}

	g.Update(0.5)
	off := o.Get(o.IndexOf(child))
	if !approx32(off.X, 5) || !approx32(off.Y, 10) {
		t.Errorf("halfway offset = (%v, %v), want ~(5, 10)", off.X, off.Y)
	}
	if g.Done {
		t.Error("group should not be done at the halfway point")
	}

	g.Update(0.6)
	if !g.Done {
		t.Error("group should be done after the full duration")
	}
	if !approx32(off.X, 10) || !approx32(off.Y, 20) {
		t.Errorf("final offset = (%v, %v), want ~(10, 20)", off.X, off.Y)
	}
}

func TestTweenOffsetDrivesPropagation(t *testing.T) {
	w, h, p, r, o := newTestHierarchy(t, false)
	parent := spawn(t, w, h, p, r, o)
	child := spawn(t, w, h, p, r, o)
	p.Get(p.IndexOf(parent)).X = 100
	if err := h.Attach(parent, child); err != nil {
		t.Fatal(err)
	}

	g, err := TweenOffset(h, child, 8, 0, 1.0, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}
	g.Update(1.0)
	h.Update(1.0)

	if got := p.Get(p.IndexOf(child)).X; !approx32(got, 108) {
		t.Errorf("child global X = %v, want ~108", got)
	}
}

func TestTweenOffsetRotation(t *testing.T) {
	w, h, p, r, o := newTestHierarchy(t, true)
	parent := spawn(t, w, h, p, r, o)
	child := spawn(t, w, h, p, r, o)
	if err := h.Attach(parent, child); err != nil {
		t.Fatal(err)
	}

	g, err := TweenOffsetRotation(h, child, 1.0, 2.0, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}
	g.Update(1.0)
	if got := o.Get(o.IndexOf(child)).Rotation; !approx32(got, 0.5) {
		t.Errorf("offset rotation = %v, want ~0.5", got)
	}
}

func TestTweenPositionRoot(t *testing.T) {
	w, h, p, r, o := newTestHierarchy(t, false)
	root := spawn(t, w, h, p, r, o)

	g, err := TweenPosition(h, root, 50, -50, 1.0, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}
	g.Update(1.0)
	pos := p.Get(p.IndexOf(root))
	if !approx32(pos.X, 50) || !approx32(pos.Y, -50) {
		t.Errorf("root position = (%v, %v), want ~(50, -50)", pos.X, pos.Y)
	}
}

func TestTweenStopsWhenEntityLeaves(t *testing.T) {
	w, h, p, r, o := newTestHierarchy(t, false)
	e := spawn(t, w, h, p, r, o)

	g, err := TweenOffset(h, e, 10, 0, 1.0, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}
	g.Update(0.25)
	if err := h.Remove(e); err != nil {
		t.Fatal(err)
	}

	before := o.Get(o.IndexOf(e)).X
	g.Update(0.25)
	if !g.Done {
		t.Error("group should stop once the entity leaves the hierarchy")
	}
	if o.Get(o.IndexOf(e)).X != before {
		t.Error("no writes should occur after the entity leaves")
	}
}

func TestTweenErrors(t *testing.T) {
	w, h, p, r, o := newTestHierarchy(t, false)
	stray := w.NewEntity()
	if _, err := TweenOffset(h, stray, 1, 1, 1.0, ease.Linear); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("unmanaged entity: err = %v, want ErrInvalidOperation", err)
	}

	noOffset := w.NewEntity()
	p.Add(noOffset)
	if err := h.Add(noOffset); err != nil {
		t.Fatal(err)
	}
	if _, err := TweenOffset(h, noOffset, 1, 1, 1.0, ease.Linear); !errors.Is(err, ErrMissingDependency) {
		t.Errorf("missing Offset: err = %v, want ErrMissingDependency", err)
	}

	noPos := w.NewEntity()
	o.Add(noPos)
	if err := h.Add(noPos); err != nil {
		t.Fatal(err)
	}
	if _, err := TweenPosition(h, noPos, 1, 1, 1.0, ease.Linear); !errors.Is(err, ErrMissingDependency) {
		t.Errorf("missing Position: err = %v, want ErrMissingDependency", err)
	}
	_ = r
}
