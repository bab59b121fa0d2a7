//go:build (!amd64 && !arm64) || noasm

// File: wait/relax_stub.go
// Author: momentics <momentics@gmail.com>
//
// Portable fall-back for targets without a pause-hint stub. Declares
// cpuRelax as an empty function so source compiles unchanged everywhere.

package wait

// cpuRelax is a no-op on unsupported targets.
func cpuRelax() {}
