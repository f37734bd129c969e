// Package types defines the core types shared across overlink's engine,
// commands, and output layers. This includes the ConflictPolicy enum and
// the result structures every command returns.
package types
