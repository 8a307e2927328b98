package cards

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"parishevents/internal/domain"
)

// Print layout: A4 portrait, four cards per page in a 2x2 grid.
const (
	pageCardsPerRow = 2
	pageCardsPerCol = 2
	// CardsPerPage is the number of card slots on one printed page.
	CardsPerPage = pageCardsPerRow * pageCardsPerCol

	pageMarginMM = 10.0
	cardGapMM    = 5.0
	a4WidthMM    = 210.0
	a4HeightMM   = 297.0
)

// BuildPDF lays the artifacts out four per A4 page in input order and returns
// the PDF bytes. Cell size is fixed; images keep their aspect ratio within
// the cell width.
func BuildPDF(artifacts []*domain.CardArtifact) ([]byte, error) {
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("no artifacts to lay out: %w", domain.ErrInvalidInput)
	}

	cellW := (a4WidthMM - 2*pageMarginMM - cardGapMM) / pageCardsPerRow
	cellH := (a4HeightMM - 2*pageMarginMM - cardGapMM) / pageCardsPerCol

	pdf := gofpdf.New("P", "mm", "A4", "")
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}

	for i, a := range artifacts {
		slot := i % CardsPerPage
		if slot == 0 {
			pdf.AddPage()
		}
		col := slot % pageCardsPerRow
		row := slot / pageCardsPerRow
		x := pageMarginMM + float64(col)*(cellW+cardGapMM)
		y := pageMarginMM + float64(row)*(cellH+cardGapMM)

		// Image names must be unique across the document.
		name := fmt.Sprintf("card-%d-%s", i, a.RegistrantID)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(a.PNG))
		pdf.ImageOptions(name, x, y, cellW, 0, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
