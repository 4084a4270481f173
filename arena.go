package arbor

import "fmt"

// chunkSize is the number of records in one pool chunk. Chunks are allocated
// whole and never moved, grown, or compacted, so the address of a record is
// stable for the lifetime of its slot. The parent-field cache depends on this.
const (
	chunkSize  = 1024
	chunkShift = 10
	chunkMask  = chunkSize - 1
)

// maxKinds is the maximum number of component pools per World.
const maxKinds = 256

// pooler is the untyped view of a Pool held by the World for entity teardown.
type pooler interface {
	removeEntity(e EntityID) bool
}

// World owns entity identity and the per-kind entity-to-component index
// tables shared by all registered pools. It does not store component data
// itself; that lives in the typed [Pool] chunks.
//
// A World is single-threaded, matching the cooperative tick model of the
// rest of the package.
type World struct {
	pools  []pooler
	tables [][]int32 // per kind: entity ID -> component index, NoComponent when absent
	alive  []bool    // per entity ID
	free   []EntityID
	nextID EntityID
	count  int
	hint   int // initial capacity, used to size new tables
}

// NewWorld creates a World sized for roughly capacity entities. The capacity
// is a pre-allocation hint, not a limit; pools and tables grow on demand.
func NewWorld(capacity int) *World {
	if capacity < 1 {
		capacity = 1
	}
	return &World{
		pools:  make([]pooler, 0, 8),
		tables: make([][]int32, 0, 8),
		alive:  make([]bool, 1, capacity+1), // index 0 unused (NoEntity)
		free:   make([]EntityID, 0, capacity),
		nextID: 1,
		hint:   capacity,
	}
}

// NewEntity allocates a fresh entity ID, recycling removed IDs first.
func (w *World) NewEntity() EntityID {
	var e EntityID
	if n := len(w.free); n > 0 {
		e = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		e = w.nextID
		w.nextID++
	}
	for int(e) >= len(w.alive) {
		w.alive = append(w.alive, false)
	}
	w.alive[e] = true
	w.count++
	return e
}

// RemoveEntity removes every component record the entity owns and recycles
// its ID. Returns false if the entity is not alive.
//
// Entities managed by a Hierarchy must leave it first (Hierarchy.Remove or
// Hierarchy.RemoveSubtree); removing the entity out from under its node
// leaves the forest pointing at a dead entity.
func (w *World) RemoveEntity(e EntityID) bool {
	if !w.Valid(e) {
		return false
	}
	for _, p := range w.pools {
		p.removeEntity(e)
	}
	w.alive[e] = false
	w.free = append(w.free, e)
	w.count--
	return true
}

// Valid reports whether the entity is currently alive.
func (w *World) Valid(e EntityID) bool {
	return e != NoEntity && int(e) < len(w.alive) && w.alive[e]
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.count
}

// ComponentIndex returns the component index of the entity's record of the
// given kind, or NoComponent if the entity has none.
func (w *World) ComponentIndex(e EntityID, k Kind) int32 {
	if int(k) >= len(w.tables) {
		return NoComponent
	}
	t := w.tables[k]
	if int(e) >= len(t) {
		return NoComponent
	}
	return t[e]
}

// setIndex records (or clears) the component index for an entity, growing
// the kind's table as needed.
func (w *World) setIndex(e EntityID, k Kind, idx int32) {
	t := w.tables[k]
	for int(e) >= len(t) {
		t = append(t, NoComponent)
	}
	t[e] = idx
	w.tables[k] = t
}

// poolChunk is one fixed-size block of component records. The arrays are
// never reallocated, which keeps record addresses stable.
type poolChunk[T any] struct {
	records  [chunkSize]T
	entities [chunkSize]EntityID // NoEntity marks a dead slot
}

// Pool is fixed-slot chunked storage for component records of type T.
// Records are addressed by int32 slot indices; a slot keeps its address
// until removed, and freed slots are reused for later additions.
type Pool[T any] struct {
	world  *World
	chunks []*poolChunk[T]
	freed  []int32
	next   int32 // high-water slot index
	count  int
	kind   Kind
}

// RegisterPool registers a new component kind on the World and returns its
// typed pool. Kinds are assigned in registration order. Panics if the World
// already has maxKinds pools.
func RegisterPool[T any](w *World) *Pool[T] {
	if len(w.pools) >= maxKinds {
		panic("arbor: too many component kinds")
	}
	p := &Pool[T]{
		world: w,
		kind:  Kind(len(w.pools)),
	}
	table := make([]int32, w.hint+1)
	for i := range table {
		table[i] = NoComponent
	}
	w.pools = append(w.pools, p)
	w.tables = append(w.tables, table)
	return p
}

// Kind returns the component kind assigned to this pool at registration.
func (p *Pool[T]) Kind() Kind {
	return p.kind
}

// Len returns the number of live records in the pool.
func (p *Pool[T]) Len() int {
	return p.count
}

// Add allocates a zeroed record for the entity and returns a stable pointer
// to it together with its slot index. If the entity already has a record of
// this kind, the existing record is returned unchanged.
func (p *Pool[T]) Add(e EntityID) (*T, int32) {
	if !p.world.Valid(e) {
		return nil, NoComponent
	}
	if idx := p.world.ComponentIndex(e, p.kind); idx != NoComponent {
		return p.Get(idx), idx
	}
	var idx int32
	if n := len(p.freed); n > 0 {
		idx = p.freed[n-1]
		p.freed = p.freed[:n-1]
	} else {
		idx = p.next
		p.next++
		if int(idx>>chunkShift) >= len(p.chunks) {
			p.chunks = append(p.chunks, &poolChunk[T]{})
		}
	}
	c := p.chunks[idx>>chunkShift]
	off := idx & chunkMask
	var zero T
	c.records[off] = zero
	c.entities[off] = e
	p.world.setIndex(e, p.kind, idx)
	p.count++
	return &c.records[off], idx
}

// Get returns the stable pointer to the record at the given slot index.
// Panics on an out-of-range or dead slot; holding a stale index is a
// programmer error, not a recoverable condition.
func (p *Pool[T]) Get(idx int32) *T {
	if idx < 0 || idx >= p.next {
		panic(fmt.Sprintf("arbor: Get out of range: slot %d of kind %d", idx, p.kind))
	}
	c := p.chunks[idx>>chunkShift]
	off := idx & chunkMask
	if c.entities[off] == NoEntity {
		panic(fmt.Sprintf("arbor: Get on dead slot %d of kind %d", idx, p.kind))
	}
	return &c.records[off]
}

// IndexOf returns the slot index of the entity's record, or NoComponent.
func (p *Pool[T]) IndexOf(e EntityID) int32 {
	return p.world.ComponentIndex(e, p.kind)
}

// EntityAt returns the entity owning the record at the given slot index, or
// NoEntity for a freed slot.
func (p *Pool[T]) EntityAt(idx int32) EntityID {
	if idx < 0 || idx >= p.next {
		return NoEntity
	}
	return p.chunks[idx>>chunkShift].entities[idx&chunkMask]
}

// Remove frees the entity's record, returning false if it had none.
// The slot's address may be handed to a different entity by a later Add.
func (p *Pool[T]) Remove(e EntityID) bool {
	return p.removeEntity(e)
}

func (p *Pool[T]) removeEntity(e EntityID) bool {
	idx := p.world.ComponentIndex(e, p.kind)
	if idx == NoComponent {
		return false
	}
	c := p.chunks[idx>>chunkShift]
	off := idx & chunkMask
	var zero T
	c.records[off] = zero
	c.entities[off] = NoEntity
	p.freed = append(p.freed, idx)
	p.world.setIndex(e, p.kind, NoComponent)
	p.count--
	return true
}
