// Package data embeds the default world graph and dungeon key layouts.
package data

import "embed"

// Names of the embedded files.
const (
	WorldFile   = "world.yaml"
	LayoutsFile = "layouts.yaml"
)

//go:embed world.yaml layouts.yaml
var FS embed.FS
