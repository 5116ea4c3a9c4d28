package transcriptpdf

import "math"

// SectionBox is the measured position of a section inside the rendered
// document container, in CSS pixels.
type SectionBox struct {
	Top        float64 `json:"top"`
	Height     float64 `json:"height"`
	AvoidBreak bool    `json:"avoid"`
}

// PlanFlowBreaks decides how much vertical space to insert before each
// section so that no avoid-break section straddles a page boundary. Boxes
// must be in document order. The i-th result is the spacer height to place
// before boxes[i]; spacers shift every following section down, which is
// accounted for while walking the list.
//
// A section taller than a page cannot be kept whole and is left where it is.
func PlanFlowBreaks(boxes []SectionBox, pageHeight float64) []float64 {
	spacers := make([]float64, len(boxes))
	if pageHeight <= 0 {
		return spacers
	}

	shift := 0.0
	for i, box := range boxes {
		if !box.AvoidBreak || box.Height <= 0 || box.Height > pageHeight {
			continue
		}
		top := box.Top + shift
		bottom := top + box.Height
		startPage := math.Floor(top / pageHeight)
		// The bottom edge sitting exactly on a boundary still fits.
		endPage := math.Floor((bottom - overflowTolerance) / pageHeight)
		if startPage == endPage {
			continue
		}
		pad := (startPage+1)*pageHeight - top
		spacers[i] = pad
		shift += pad
	}
	return spacers
}
