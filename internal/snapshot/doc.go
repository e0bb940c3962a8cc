// Package snapshot persists a point-in-time copy of a shard's state to
// disk using an atomic publish pattern (write to a temp file, fsync,
// rename over the published name) so a crash mid-write never corrupts
// the snapshot an engine will load at the next startup.
package snapshot
