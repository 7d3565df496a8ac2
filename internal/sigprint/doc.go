// Package sigprint implements the real-time signal-processing core for an
// 8-channel biopotential frontend: per-channel multi-band lock-in
// demodulation (LockInBank), spectral fingerprint composition
// (FingerprintComposer), and the fixed on-wire packet format (PacketCodec).
//
// The core is single-threaded and allocation-free on the hot path. All
// state is created once at startup and lives for the process lifetime; see
// Pipeline for the scheduler that drives LockInBank, FingerprintComposer
// and PacketCodec at their respective 250 Hz / 1 Hz / 25 Hz cadences.
package sigprint
