// Package envelope is the boundary where raw error payloads (JSON, protobuf
// Struct, Go errors) are sorted into exactly one classify.Input variant, and
// where display events are normalized before recoding.
package envelope
