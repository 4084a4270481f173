package arbor

// orderCache holds the lazily rebuilt top-down traversal order consumed by
// the propagation pass. Two states: fresh (lastSeen equals the forest's
// change counter) and stale. A stale cache rebuilds in full on the next
// read; it is never patched incrementally.
//
// Rebuild cost is amortized: O(1) on ticks where nothing changed, one
// O(non-root nodes) rebuild per burst of structural mutations.
type orderCache struct {
	seq      []int32
	lastSeen uint32
	rebuilds uint64
}

// order returns the current top-down order, rebuilding it first if any
// structural mutation happened since the last read. The returned slice is
// owned by the cache and valid until the next stale read.
func (c *orderCache) order(f *forest) []int32 {
	if c.lastSeen != f.version {
		c.seq = f.topdownInto(c.seq)
		c.lastSeen = f.version
		c.rebuilds++
	}
	return c.seq
}
