// Package dict implements the insertion-order-preserving dictionary used to
// intern Str/Bytes column values into small integer codes.
//
// Grounded on the teacher's internal/collision tracking pattern (a
// hash-keyed map paired with an ordered slice, used there to detect metric
// name/ID collisions) generalized here from name interning to arbitrary
// byte-sequence interning, and hashed with the teacher's own
// internal/hash.IDBytes (an xxhash64 wrapper) instead of Go's built-in map
// hashing, so that true xxhash collisions are resolved explicitly rather
// than relying on []byte-keyed maps (which Go doesn't even allow directly).
package dict
