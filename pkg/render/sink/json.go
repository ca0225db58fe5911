package sink

import (
	"encoding/json"

	"github.com/matzehuels/hotspotmap/pkg/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	producer string
	mode     string
	layer    *int
}

// WithJSONProducer records the generating program (e.g. "hotspotmap v1.2.0").
func WithJSONProducer(p string) JSONOption { return func(r *jsonRenderer) { r.producer = p } }

// WithJSONMode records the render mode ("flp", "steady" or "grid-steady").
func WithJSONMode(m string) JSONOption { return func(r *jsonRenderer) { r.mode = m } }

// WithJSONLayer records the layer index of a 3D render.
func WithJSONLayer(n int) JSONOption { return func(r *jsonRenderer) { r.layer = &n } }

type jsonOutput struct {
	Producer string `json:"producer,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Layer    *int   `json:"layer,omitempty"`
	*scene.Scene
}

// RenderJSON exports the scene as a pretty-printed JSON document for
// external tools. Coordinates are canvas pixels, y-down.
func RenderJSON(s *scene.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{Producer: r.producer, Mode: r.mode, Layer: r.layer, Scene: s}
	return json.MarshalIndent(out, "", "  ")
}
