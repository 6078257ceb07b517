//go:build arm64

package hwy

import "golang.org/x/sys/cpu"

func detectCapabilities() Capabilities {
	// ASIMD is part of the ARMv8-A base architecture, but a kernel may still
	// hide it (some emulators do), so honour what the cpu package reports.
	return Capabilities{NEON: cpu.ARM64.HasASIMD}
}
