package arbor

import "github.com/pkg/errors"

// Sentinel errors returned by Hierarchy operations. Wrapped values carry
// operation context; match with errors.Is.
var (
	// ErrInvalidOperation reports a mutation that contradicts the current
	// forest state: detaching a root, removing an entity twice, operating on
	// an entity with no node, or a cycle rejected by AttachChecked.
	ErrInvalidOperation = errors.New("arbor: invalid operation")

	// ErrMissingDependency reports an attach whose parent or child lacks a
	// component required by the configured propagation policy. The
	// attachment does not occur.
	ErrMissingDependency = errors.New("arbor: missing dependency")

	// ErrConfigurationLocked reports an attempt to change the role
	// configuration while the hierarchy still contains nodes. The prior
	// configuration is retained.
	ErrConfigurationLocked = errors.New("arbor: configuration locked")
)
