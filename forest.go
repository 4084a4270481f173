package arbor

import "fmt"

// noNode is the nil value for node indices.
const noNode int32 = -1

// node is the per-entity slot in the relation forest. Parent and children
// are node indices into forest.nodes, never pointers, so freeing nodes or
// growing the slice cannot leave anything dangling.
type node struct {
	entity   EntityID
	parent   int32   // noNode for roots
	children []int32 // insertion order; uniqueness is a forest invariant
	rootPos  int32   // position in forest.roots; noNode while attached
	aux      int32   // slot in the hierarchy's attachment pool
	userData any
}

// forest is the mutable node arena plus the root set. Freed node slots are
// recycled through a free list.
//
// version is the structural change counter. It wraps; consumers compare it
// only for equality ("did anything change"), never for magnitude.
type forest struct {
	nodes    []node
	freed    []int32
	roots    []int32
	byEntity []int32 // entity ID -> node index, noNode when absent
	version  uint32
	count    int
}

// lookup returns the node index for an entity, or noNode.
func (f *forest) lookup(e EntityID) int32 {
	if int(e) >= len(f.byEntity) {
		return noNode
	}
	return f.byEntity[e]
}

// add creates a node for the entity and inserts it into the root set.
// Node creation is not a structural mutation of any tree, so the change
// counter is not bumped.
func (f *forest) add(e EntityID, aux int32) int32 {
	var idx int32
	if n := len(f.freed); n > 0 {
		idx = f.freed[n-1]
		f.freed = f.freed[:n-1]
	} else {
		idx = int32(len(f.nodes))
		f.nodes = append(f.nodes, node{})
	}
	n := &f.nodes[idx]
	n.entity = e
	n.parent = noNode
	n.children = n.children[:0]
	n.aux = aux
	n.userData = nil
	f.insertRoot(idx)
	for int(e) >= len(f.byEntity) {
		f.byEntity = append(f.byEntity, noNode)
	}
	f.byEntity[e] = idx
	f.count++
	return idx
}

// attach makes child a child of parent. A child that already has a parent is
// unlinked from it first; the whole operation counts as one structural
// mutation. Cycles (including self-attachment) are not detected here.
func (f *forest) attach(parent, child int32) {
	c := &f.nodes[child]
	if c.parent != noNode {
		f.unlink(child)
	} else {
		f.removeRoot(child)
	}
	c.parent = parent
	p := &f.nodes[parent]
	p.children = append(p.children, child)
	f.version++
}

// detach unlinks child from its parent and reinserts it into the root set.
// The caller guarantees child currently has a parent.
func (f *forest) detach(child int32) {
	f.unlink(child)
	f.nodes[child].parent = noNode
	f.insertRoot(child)
	f.version++
}

// remove destroys the node: children are detached in place (each becomes a
// root; they are NOT removed), the node leaves its parent's child set or the
// root set, and its slot is recycled. One structural mutation.
func (f *forest) remove(idx int32) {
	n := &f.nodes[idx]
	for _, c := range n.children {
		f.nodes[c].parent = noNode
		f.insertRoot(c)
	}
	n.children = n.children[:0]
	if n.parent != noNode {
		f.unlink(idx)
	} else {
		f.removeRoot(idx)
	}
	f.release(idx)
	f.version++
}

// release recycles a node slot without touching its parent or children.
// Used by remove and by the subtree-destruction walk, which handles links
// itself.
func (f *forest) release(idx int32) {
	n := &f.nodes[idx]
	f.byEntity[n.entity] = noNode
	n.entity = NoEntity
	n.parent = noNode
	n.children = n.children[:0]
	n.rootPos = noNode
	n.aux = noNode
	n.userData = nil
	f.freed = append(f.freed, idx)
	f.count--
}

// unlink removes child from its parent's child set without changing the
// child's parent field. A child missing from its parent's set is a corrupt
// forest, which is fatal: the mutation API has a bug and silently repairing
// state would hide it.
func (f *forest) unlink(child int32) {
	parent := f.nodes[child].parent
	kids := f.nodes[parent].children
	for i, c := range kids {
		if c == child {
			copy(kids[i:], kids[i+1:])
			f.nodes[parent].children = kids[:len(kids)-1]
			return
		}
	}
	panic(fmt.Sprintf("arbor: corrupt forest: node %d missing from child set of its parent %d", child, parent))
}

// insertRoot appends the node to the root set and records its position for
// O(1) membership and removal.
func (f *forest) insertRoot(idx int32) {
	f.nodes[idx].rootPos = int32(len(f.roots))
	f.roots = append(f.roots, idx)
}

// removeRoot swap-removes the node from the root set.
func (f *forest) removeRoot(idx int32) {
	pos := f.nodes[idx].rootPos
	if pos == noNode {
		panic(fmt.Sprintf("arbor: corrupt forest: node %d is parentless but not in the root set", idx))
	}
	last := int32(len(f.roots) - 1)
	if pos != last {
		moved := f.roots[last]
		f.roots[pos] = moved
		f.nodes[moved].rootPos = pos
	}
	f.roots = f.roots[:last]
	f.nodes[idx].rootPos = noNode
}

// isRoot reports root membership in O(1).
func (f *forest) isRoot(idx int32) bool {
	return f.nodes[idx].rootPos != noNode
}

// descendantsInto appends every transitive child of idx to out in top-down
// order: direct children first, then theirs, so every node appears strictly
// after its parent. The output slice doubles as the traversal queue — an
// index cursor chases the growing tail, a breadth-first expansion with no
// separate queue allocation.
func (f *forest) descendantsInto(out []int32, idx int32) []int32 {
	pos := len(out)
	out = append(out, f.nodes[idx].children...)
	for pos < len(out) {
		out = append(out, f.nodes[out[pos]].children...)
		pos++
	}
	return out
}

// topdownInto rebuilds out as the concatenated top-down order of every tree
// in the forest. Each non-root node appears exactly once, after its parent.
func (f *forest) topdownInto(out []int32) []int32 {
	out = out[:0]
	for _, r := range f.roots {
		out = f.descendantsInto(out, r)
	}
	return out
}

// hasAncestor walks parent links upward from idx, reporting whether idx
// itself or any ancestor is owned by the candidate entity.
func (f *forest) hasAncestor(idx int32, candidate EntityID) bool {
	for n := idx; n != noNode; n = f.nodes[n].parent {
		if f.nodes[n].entity == candidate {
			return true
		}
	}
	return false
}

// destroySubtree frees the node at idx and every descendant, calling fn with
// each node's owning entity in true post-order: a node is destroyed only
// after all of its children, the subtree root strictly last.
//
// The traversal uses an explicit frame stack, never recursion — hierarchy
// depth is unbounded and must not be limited by the call stack. The whole
// operation counts as one structural mutation.
func (f *forest) destroySubtree(idx int32, fn func(e EntityID)) {
	type frame struct {
		node int32
		next int // cursor into the node's child list
	}
	stack := []frame{{node: idx}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		kids := f.nodes[top.node].children
		if top.next < len(kids) {
			c := kids[top.next]
			top.next++
			stack = append(stack, frame{node: c})
			continue
		}
		n := top.node
		stack = stack[:len(stack)-1]
		if n == idx {
			// The call root is the only node still linked from outside
			// the subtree.
			if f.nodes[n].parent != noNode {
				f.unlink(n)
			} else {
				f.removeRoot(n)
			}
		}
		e := f.nodes[n].entity
		f.release(n)
		fn(e)
	}
	f.version++
}
