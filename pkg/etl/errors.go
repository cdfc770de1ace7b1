package etl

import "fmt"

// Error codes carried by the structured error types in this package.
const (
	ErrCodeUnrecognizedNormalizer = "UNRECOGNIZED_NORMALIZER"
	ErrCodeMergeConflict          = "MERGE_CONFLICT"
	ErrCodePivotCollision         = "PIVOT_COLLISION"
)

// UnrecognizedNormalizerError is returned by a value normalizer when a
// record carries a field with no normalization rule. The normalizer is
// strict: every field must be covered by the rule set, there
// is no default pass-through.
type UnrecognizedNormalizerError struct {
	Field string
}

func (e *UnrecognizedNormalizerError) Error() string {
	return fmt.Sprintf("no normalizer for field %q", e.Field)
}

// Code returns the stable error code for this error kind.
func (e *UnrecognizedNormalizerError) Code() string { return ErrCodeUnrecognizedNormalizer }

// MergeConflictError is returned by MergeFields when records in a group
// disagree on a field's value.
type MergeConflictError struct {
	Field string
	A, B  interface{}
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("merge conflict on field %q: %v != %v", e.Field, e.A, e.B)
}

// Code returns the stable error code for this error kind.
func (e *MergeConflictError) Code() string { return ErrCodeMergeConflict }

// PivotCollisionError is returned by a pivot builder when two records
// in a group share the same pivot value.
type PivotCollisionError struct {
	Key string
}

func (e *PivotCollisionError) Error() string {
	return fmt.Sprintf("pivot collision on key %q", e.Key)
}

// Code returns the stable error code for this error kind.
func (e *PivotCollisionError) Code() string { return ErrCodePivotCollision }
