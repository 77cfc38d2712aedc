// Package asset embeds the default battlefield, its scene assets and the launcher FSM graph
package asset

import (
	"embed"
	"io/fs"
)

//go:embed scene/*.yaml
var sceneFiles embed.FS

//go:embed battlefield.yaml
var DefaultBattlefield []byte

// Scenes returns the embedded asset directory, one YAML node tree per file
func Scenes() fs.FS {
	sub, err := fs.Sub(sceneFiles, "scene")
	if err != nil {
		// Embedded path is fixed at compile time
		panic(err)
	}
	return sub
}
