//go:build !debug

package ui

import "embed"

// dist/ holds the hand-written SSE console page; there is no asset pipeline,
// the directory is committed and embedded as-is.
//
//go:embed dist
var distFS embed.FS

// DistFS returns the embedded UI filesystem baked into the binary.
func DistFS() embed.FS {
	return distFS
}
