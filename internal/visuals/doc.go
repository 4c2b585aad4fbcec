// Package visuals synthesizes decorative scene elements from narration text.
//
// Every scene receives at least one presenter avatar whose styling bucket is
// chosen from simple content signals (interrogative vs explanatory tone).
// Further elements are added behind independent probability gates keyed to
// narration features such as digits, importance words, or process words.
// The random source is injected so tests can pin exact outputs.
package visuals
