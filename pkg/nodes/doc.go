// Package nodes provides the standard node implementations built on the
// engine's processing contract: sources (Oscillator, ConstantSource,
// BufferSource), processors (Gain, Delay, ADSR) and taps (Recorder,
// Analyser).
// Each node declares its parameters and settings in a package-level
// descriptor table; the DSP inside Process is deliberately simple, the
// engine semantics (scheduling, summing, silence, tails) live in pkg/graph.
package nodes
