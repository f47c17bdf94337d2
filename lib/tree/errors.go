package tree

import "errors"

var (
	ErrDuplicateKey    = errors.New("[rbtree] duplicate key")
	ErrEmptyTree       = errors.New("[rbtree] empty tree")
	ErrInvalidArgument = errors.New("[rbtree] invalid argument")

	// ErrInvariantViolation is raised by panic when the tree structure
	// was already corrupted before the current operation.
	ErrInvariantViolation = errors.New("[rbtree] internal invariant violation")
)

// Validation errors.
var (
	ErrRedViolation   = errors.New("rbtree red violation")
	ErrBlackViolation = errors.New("rbtree black violation")
	ErrRootColor      = errors.New("rbtree root is not black")
	ErrParentLink     = errors.New("rbtree parent link violation")
	ErrOrder          = errors.New("rbtree order violation")
	ErrCount          = errors.New("rbtree count mismatch")
)
