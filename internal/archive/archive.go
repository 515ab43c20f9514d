// Package archive preserves raw summary payloads for audit and reprocessing.
package archive

import "context"

// NoOp discards payloads. Used when archiving is disabled.
type NoOp struct{}

// PutObject does nothing and returns an empty URI.
func (NoOp) PutObject(context.Context, string, string, []byte) (string, error) {
	return "", nil
}
