package report

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
)

const snapshotImage = "snapshot"

// PageAspect is height over width of the landscape A4 page in points.
const PageAspect = 595.28 / 841.89

// WritePDF embeds img as one image scaled to the width of a landscape A4
// page. A taller image runs off the bottom of the page; there is no second page.
func WritePDF(w io.Writer, img image.Image) error {
	pdf, err := snapshotPDF(img)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: write pdf: %w", err)
	}
	return nil
}

func snapshotPDF(img image.Image) (*fpdf.Fpdf, error) {
	var png bytes.Buffer
	if err := imaging.Encode(&png, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("report: encode snapshot: %w", err)
	}

	pdf := fpdf.New("L", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(snapshotImage, opts, &png)

	pageW, _ := pdf.GetPageSize()
	b := img.Bounds()
	height := float64(b.Dy()) * pageW / float64(b.Dx())
	pdf.ImageOptions(snapshotImage, 0, 0, pageW, height, false, opts, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("report: build pdf: %w", err)
	}
	return pdf, nil
}
