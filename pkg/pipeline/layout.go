package pipeline

import (
	"github.com/matzehuels/hotspotmap/pkg/scene"
)

// Layout lays out a frame as a scene using the drawing options of opts.
func Layout(f *Frame, opts Options) (*scene.Scene, error) {
	in := scene.Input{
		FloorPlan: f.FloorPlan,
		Units:     f.Units,
		Grid:      f.Grid,
		Scale:     f.Scale,
		Title:     f.Title,
	}
	return scene.Build(in, opts.SceneOptions())
}
