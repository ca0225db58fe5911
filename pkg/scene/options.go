package scene

// Layout defaults. Zoom turns model meters into canvas pixels.
const (
	DefaultZoom       = 75000.0
	DefaultMargin     = 60.0
	DefaultFont       = "Ubuntu"
	DefaultFontSize   = 9.0
	DefaultFontWeight = "normal"
	DefaultBarCells   = 21
)

const (
	barGap        = 0.05e-3 // color bar distance from the chip, in meters
	dimOffset     = 30.0    // dimension arrow distance from the chip
	dimTextOffset = 45.0    // dimension text distance from the chip
	arrowHead     = 15.0
)

// Options controls layout. Zero values select the defaults above.
type Options struct {
	Zoom float64
	// Margin is the blank border around the chip. With ShowDimensions it
	// is raised to fit the annotations; see dimClearance.
	Margin         float64
	Font           string
	FontSize       float64
	FontWeight     string
	BarCells       int
	HideNames      bool
	PrintArea      bool
	ShowDimensions bool
}

func (o *Options) setDefaults() {
	if o.Zoom <= 0 {
		o.Zoom = DefaultZoom
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.Font == "" {
		o.Font = DefaultFont
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	if o.FontWeight == "" {
		o.FontWeight = DefaultFontWeight
	}
	if o.BarCells < 2 {
		o.BarCells = DefaultBarCells
	}
}

// titleSize is the font size of the scene title.
func (o Options) titleSize() float64 { return o.FontSize + 2 }

// dimClearance is the smallest margin that keeps the dimension arrows, their
// labels and, when titled, the title above the width arrow on the canvas.
func (o Options) dimClearance(titled bool) float64 {
	c := dimTextOffset + o.FontSize
	if titled {
		c = max(c, dimOffset+arrowHead+2*o.titleSize())
	}
	return c
}
