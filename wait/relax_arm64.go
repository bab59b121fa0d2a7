//go:build arm64 && !noasm

// File: wait/relax_arm64.go
// Author: momentics <momentics@gmail.com>
//
// Go declaration for cpuRelax on arm64. The implementation lives in
// relax_arm64.s and emits a YIELD hint.

package wait

// cpuRelax executes the aarch64 YIELD instruction.
//
//go:noescape
func cpuRelax()
