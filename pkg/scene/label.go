package scene

const (
	fontWidthRatio = 0.85 // usable share of a unit's width
	fontCharWidth  = 0.55 // average glyph width per point of font size
	minLabelChars  = 3
)

// FitLabel shortens label to fit a w×h box at the given font size. It
// reports false when the box is shorter than one line or narrower than
// three characters. Truncated labels end in "..".
func FitLabel(label string, w, h, fontSize float64) (string, bool) {
	charWidth := fontSize * fontCharWidth
	if h < fontSize || w < minLabelChars*charWidth {
		return "", false
	}
	maxChars := max(minLabelChars, int(w*fontWidthRatio/charWidth))
	r := []rune(label)
	if len(r) <= maxChars {
		return label, true
	}
	return string(r[:maxChars-2]) + "..", true
}
