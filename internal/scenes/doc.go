// Package scenes maps sampled video snapshots onto generated course scenes.
//
// The assignment engine spreads snapshots across scenes in timeline order
// with a small random jitter so consecutive scenes do not always reuse the
// same frame. Randomness comes from an injected source so callers can pin
// outcomes in tests.
package scenes
