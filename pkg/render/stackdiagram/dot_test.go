package stackdiagram

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/hotspotmap/pkg/stack"
)

func testConfig() *stack.Config {
	return &stack.Config{Layers: []stack.Layer{
		{Index: 0, Power: true, Thickness: 0.00015, SpecificHeat: 1.75e6, Resistivity: 0.01, FloorPlanPath: "dir/core.flp"},
		{Index: 1, Power: false, Thickness: 2e-05, SpecificHeat: 4e6, Resistivity: 0.25, FloorPlanPath: "dir/tim.flp"},
	}}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testConfig(), Options{})

	for _, want := range []string{
		"digraph stack",
		`"layer_0" [label="layer 0: core.flp", fillcolor="#ffcc00"]`,
		`"layer_1" [label="layer 1: tim.flp", style="filled,dashed", fillcolor=lightgrey]`,
		`"layer_0" -> "layer_1"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testConfig(), Options{Detailed: true})
	if !strings.Contains(dot, "power, thickness 150 µm") {
		t.Errorf("detailed label missing thickness:\n%s", dot)
	}
	if !strings.Contains(dot, "passive, thickness 20 µm") {
		t.Errorf("detailed label missing passive layer:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testConfig(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(svg)), "<?xml") && !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG should produce SVG")
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Error("RenderSVG should normalize the root element")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", got, want)
	}
}
