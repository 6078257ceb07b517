//go:build !amd64 && !arm64

package hwy

func detectCapabilities() Capabilities {
	// Other architectures only run the scalar backend for now.
	return Capabilities{}
}
