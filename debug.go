package arbor

import (
	"fmt"
	"os"
)

// globalDebug enables the consistency checks and per-update logging. Plain
// bool, no atomic — arbor is single-threaded.
var globalDebug bool

// SetDebugMode enables or disables debug mode for the package. When enabled,
// deep attachments print a warning, a missing parent-field snapshot panics
// instead of dereferencing nil, and Update logs pass stats to stderr.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// debugMaxDepth is the attachment depth above which a warning is printed.
const debugMaxDepth = 32

// debugCheckDepth warns on stderr if the node's depth exceeds the threshold.
func debugCheckDepth(f *forest, idx int32) {
	depth := 0
	for n := idx; n != noNode; n = f.nodes[n].parent {
		depth++
	}
	if depth > debugMaxDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[arbor] warning: attachment depth %d exceeds %d (entity %d)\n",
			depth, debugMaxDepth, f.nodes[idx].entity)
	}
}

// debugMaxChildren is the child-set size above which a warning is printed.
const debugMaxChildren = 1024

// debugCheckChildren warns on stderr if the node's child set exceeds the
// threshold.
func debugCheckChildren(f *forest, idx int32) {
	if n := len(f.nodes[idx].children); n > debugMaxChildren {
		_, _ = fmt.Fprintf(os.Stderr, "[arbor] warning: entity %d has %d children (over %d)\n",
			f.nodes[idx].entity, n, debugMaxChildren)
	}
}

// debugCheckSnapshot panics for a non-root node whose parent-field snapshot
// was never resolved. Every node reaches the traversal order through attach,
// which resolves the snapshot, so an unresolved one means the mutation API
// broke an invariant — fatal, not repairable.
func debugCheckSnapshot(f *forest, idx int32) {
	panic(fmt.Sprintf("arbor debug: entity %d is in the traversal order with no parent-field snapshot",
		f.nodes[idx].entity))
}

// debugLogUpdate prints propagation pass stats to stderr.
func debugLogUpdate(nodes int, rebuilds uint64) {
	_, _ = fmt.Fprintf(os.Stderr, "[arbor] propagated: %d | order rebuilds: %d\n", nodes, rebuilds)
}
