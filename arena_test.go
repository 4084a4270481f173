package arbor

import "testing"

// --- Entity lifecycle ---

func TestNewEntityIDsStartAtOne(t *testing.T) {
	w := NewWorld(8)
	e := w.NewEntity()
	if e != 1 {
		t.Errorf("first entity = %d, want 1", e)
	}
	if !w.Valid(e) {
		t.Error("new entity should be valid")
	}
	if w.Valid(NoEntity) {
		t.Error("NoEntity should never be valid")
	}
}

func TestEntityIDRecycling(t *testing.T) {
	w := NewWorld(8)
	a := w.NewEntity()
	b := w.NewEntity()
	w.RemoveEntity(a)

	if w.Valid(a) {
		t.Error("removed entity should be invalid")
	}
	c := w.NewEntity()
	if c != a {
		t.Errorf("recycled ID = %d, want %d", c, a)
	}
	if !w.Valid(c) || !w.Valid(b) {
		t.Error("live entities should be valid")
	}
	if w.EntityCount() != 2 {
		t.Errorf("EntityCount = %d, want 2", w.EntityCount())
	}
}

func TestRemoveEntityTwice(t *testing.T) {
	w := NewWorld(8)
	e := w.NewEntity()
	if !w.RemoveEntity(e) {
		t.Error("first remove should succeed")
	}
	if w.RemoveEntity(e) {
		t.Error("second remove should fail")
	}
}

func TestEntityGrowthBeyondCapacity(t *testing.T) {
	w := NewWorld(2)
	p := RegisterPool[Position](w)
	for i := 0; i < 100; i++ {
		e := w.NewEntity()
		pos, idx := p.Add(e)
		if pos == nil || idx == NoComponent {
			t.Fatalf("Add failed for entity %d", e)
		}
	}
	if w.EntityCount() != 100 {
		t.Errorf("EntityCount = %d, want 100", w.EntityCount())
	}
	if p.Len() != 100 {
		t.Errorf("pool Len = %d, want 100", p.Len())
	}
}

// --- Pool basics ---

func TestPoolAddGet(t *testing.T) {
	w := NewWorld(8)
	p := RegisterPool[Position](w)
	e := w.NewEntity()

	pos, idx := p.Add(e)
	if pos == nil || idx == NoComponent {
		t.Fatal("Add failed")
	}
	if pos.X != 0 || pos.Y != 0 {
		t.Errorf("new record = %+v, want zeroed", *pos)
	}
	pos.X = 7
	if p.Get(idx) != pos {
		t.Error("Get should return the same stable pointer")
	}
	if p.Get(idx).X != 7 {
		t.Error("write through Add pointer should be visible via Get")
	}
	if p.IndexOf(e) != idx {
		t.Errorf("IndexOf = %d, want %d", p.IndexOf(e), idx)
	}
	if p.EntityAt(idx) != e {
		t.Errorf("EntityAt = %d, want %d", p.EntityAt(idx), e)
	}
}

func TestPoolAddExisting(t *testing.T) {
	w := NewWorld(8)
	p := RegisterPool[Position](w)
	e := w.NewEntity()

	pos1, idx1 := p.Add(e)
	pos1.X = 3
	pos2, idx2 := p.Add(e)
	if pos2 != pos1 || idx2 != idx1 {
		t.Error("Add on existing component should return the existing record")
	}
	if pos2.X != 3 {
		t.Error("existing record should not be zeroed by a second Add")
	}
}

func TestPoolAddDeadEntity(t *testing.T) {
	w := NewWorld(8)
	p := RegisterPool[Position](w)
	e := w.NewEntity()
	w.RemoveEntity(e)

	pos, idx := p.Add(e)
	if pos != nil || idx != NoComponent {
		t.Error("Add on a dead entity should fail")
	}
}

func TestPoolRemove(t *testing.T) {
	w := NewWorld(8)
	p := RegisterPool[Position](w)
	e := w.NewEntity()
	p.Add(e)

	if !p.Remove(e) {
		t.Error("Remove should succeed")
	}
	if p.Remove(e) {
		t.Error("second Remove should fail")
	}
	if p.IndexOf(e) != NoComponent {
		t.Error("IndexOf after Remove should be NoComponent")
	}
	if p.Len() != 0 {
		t.Errorf("Len = %d, want 0", p.Len())
	}
}

func TestPoolSlotReuse(t *testing.T) {
	w := NewWorld(8)
	p := RegisterPool[Position](w)
	a := w.NewEntity()
	b := w.NewEntity()

	posA, idxA := p.Add(a)
	posA.X = 99
	p.Remove(a)

	posB, idxB := p.Add(b)
	if idxB != idxA {
		t.Errorf("freed slot should be reused: got %d, want %d", idxB, idxA)
	}
	if posB.X != 0 {
		t.Error("reused slot should be zeroed")
	}
	if p.EntityAt(idxB) != b {
		t.Errorf("EntityAt = %d, want %d", p.EntityAt(idxB), b)
	}
}

// --- Pointer stability ---

func TestPointerStabilityAcrossChunkGrowth(t *testing.T) {
	w := NewWorld(8)
	p := RegisterPool[Position](w)

	first := w.NewEntity()
	pos, idx := p.Add(first)
	pos.X = 42

	// Force several new chunks; the first record must not move.
	for i := 0; i < chunkSize*3; i++ {
		p.Add(w.NewEntity())
	}
	if p.Get(idx) != pos {
		t.Error("record address changed after chunk growth")
	}
	if pos.X != 42 {
		t.Errorf("record value = %v, want 42", pos.X)
	}
}

// --- Index tables ---

func TestComponentIndexAbsent(t *testing.T) {
	w := NewWorld(8)
	p := RegisterPool[Position](w)
	q := RegisterPool[Rotation](w)
	e := w.NewEntity()
	p.Add(e)

	if w.ComponentIndex(e, q.Kind()) != NoComponent {
		t.Error("entity has no Rotation; index should be NoComponent")
	}
	if w.ComponentIndex(e, Kind(200)) != NoComponent {
		t.Error("unknown kind should report NoComponent")
	}
	if w.ComponentIndex(9999, p.Kind()) != NoComponent {
		t.Error("out-of-range entity should report NoComponent")
	}
}

func TestRemoveEntityRemovesAllComponents(t *testing.T) {
	w := NewWorld(8)
	p := RegisterPool[Position](w)
	r := RegisterPool[Rotation](w)
	e := w.NewEntity()
	p.Add(e)
	r.Add(e)

	w.RemoveEntity(e)
	if p.IndexOf(e) != NoComponent || r.IndexOf(e) != NoComponent {
		t.Error("RemoveEntity should free every pool record")
	}
	if p.Len() != 0 || r.Len() != 0 {
		t.Error("pools should be empty")
	}
}

// --- Get misuse ---

func TestGetPanicsOutOfRange(t *testing.T) {
	w := NewWorld(8)
	p := RegisterPool[Position](w)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for out-of-range slot, got none")
		}
	}()
	p.Get(5)
}

func TestGetPanicsOnDeadSlot(t *testing.T) {
	w := NewWorld(8)
	p := RegisterPool[Position](w)
	e := w.NewEntity()
	_, idx := p.Add(e)
	p.Remove(e)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for dead slot, got none")
		}
	}()
	p.Get(idx)
}
