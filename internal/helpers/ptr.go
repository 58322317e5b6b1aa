// Package helpers holds small utilities shared across the webhook-manager packages.
package helpers

// Ptr returns a pointer to a copy of v, or nil when v is an untyped nil.
func Ptr[T any](v T) *T {
	if any(v) == nil {
		return nil
	}
	return &v
}
