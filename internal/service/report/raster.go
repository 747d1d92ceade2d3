package report

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	bodySize  = 11.0
	titleSize = 18.0
	padX      = 14
	padY      = 8
	margin    = 16
	bandGap   = 12

	emptyMessage = "Kayıt bulunamadı."
)

var (
	colorText     = color.NRGBA{R: 0x37, G: 0x41, B: 0x51, A: 0xff}
	colorMuted    = color.NRGBA{R: 0x4b, G: 0x55, B: 0x63, A: 0xff}
	colorTitle    = color.NRGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 0xff}
	colorHeaderBg = color.NRGBA{R: 0xf3, G: 0xf4, B: 0xf6, A: 0xff}
	colorWeekBg   = color.NRGBA{R: 0xe0, G: 0xe7, B: 0xff, A: 0xff}
	colorWeekText = color.NRGBA{R: 0x37, G: 0x30, B: 0xa3, A: 0xff}
	colorStripe   = color.NRGBA{R: 0xf9, G: 0xfa, B: 0xfb, A: 0xff}
	colorRule     = color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	colorPage     = color.White
)

var parseFonts = sync.OnceValues(func() ([2]*opentype.Font, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return [2]*opentype.Font{}, err
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return [2]*opentype.Font{}, err
	}
	return [2]*opentype.Font{regular, bold}, nil
})

type faces struct {
	regular font.Face
	bold    font.Face
	title   font.Face
}

func newFaces(scale float64) (*faces, error) {
	fonts, err := parseFonts()
	if err != nil {
		return nil, fmt.Errorf("report: parse fonts: %w", err)
	}

	face := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size * scale,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}

	fs := &faces{}
	if fs.regular, err = face(fonts[0], bodySize); err != nil {
		return nil, err
	}
	if fs.bold, err = face(fonts[1], bodySize); err != nil {
		fs.Close()
		return nil, err
	}
	if fs.title, err = face(fonts[1], titleSize); err != nil {
		fs.Close()
		return nil, err
	}
	return fs, nil
}

func (f *faces) Close() {
	for _, face := range []font.Face{f.regular, f.bold, f.title} {
		if face != nil {
			_ = face.Close()
		}
	}
}

// Snapshot describes the rendered report region: a title band above the table.
type Snapshot struct {
	Title string
	Date  time.Time
	Logo  image.Image
	Table Table
	// Scale multiplies every dimension; 2 gives a sharper image in the PDF.
	Scale float64
	// MaxAspect caps height/width. Rows below the cap are not drawn, the way
	// a page cuts a screenshot off. Zero draws everything.
	MaxAspect float64
}

// Rasterize draws the report region to a bitmap, the way it appears on the
// record list page.
func Rasterize(s Snapshot) (*image.NRGBA, error) {
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	px := func(v int) int { return int(float64(v) * scale) }

	fs, err := newFaces(scale)
	if err != nil {
		return nil, err
	}
	defer fs.Close()

	cols := len(s.Table.Header)
	widths := make([]int, cols)
	for i, h := range s.Table.Header {
		widths[i] = textWidth(fs.bold, h)
	}
	for _, w := range s.Table.Weeks {
		for _, row := range w.Rows {
			for i := 0; i < cols && i < len(row); i++ {
				widths[i] = max(widths[i], textWidth(fs.regular, row[i]))
			}
		}
	}

	tableW := 0
	for i := range widths {
		widths[i] += 2 * px(padX)
		tableW += widths[i]
	}
	for _, w := range s.Table.Weeks {
		tableW = max(tableW, textWidth(fs.bold, w.Title)+2*px(padX))
	}

	rowH := fs.regular.Metrics().Height.Ceil() + 2*px(padY)
	titleLineH := fs.title.Metrics().Height.Ceil()
	bandH := titleLineH + 2*px(padY)

	var logo image.Image
	if s.Logo != nil {
		logo = imaging.Resize(s.Logo, 0, titleLineH, imaging.Lanczos)
	}

	dateText := s.Date.Format("02.01.2006")
	bandW := textWidth(fs.title, s.Title) + textWidth(fs.regular, dateText) + 4*px(padX)
	if logo != nil {
		bandW += logo.Bounds().Dx()
	}

	rows := 1
	for _, w := range s.Table.Weeks {
		rows += 1 + len(w.Rows)
	}
	if len(s.Table.Weeks) == 0 {
		rows++
	}

	contentW := max(tableW, bandW)
	width := contentW + 2*px(margin)
	height := 2*px(margin) + bandH + px(bandGap) + rows*rowH
	if s.MaxAspect > 0 {
		height = min(height, int(math.Ceil(float64(width)*s.MaxAspect)))
	}

	img := imaging.New(width, height, colorPage)
	left := px(margin)
	y := px(margin)

	// title band: logo, centered title, date on the right
	if logo != nil {
		draw.Draw(img, image.Rect(left, y+px(padY), left+logo.Bounds().Dx(), y+px(padY)+logo.Bounds().Dy()), logo, image.Point{}, draw.Over)
	}
	titleX := left + (contentW-textWidth(fs.title, s.Title))/2
	drawText(img, fs.title, colorTitle, titleX, y+px(padY)+fs.title.Metrics().Ascent.Ceil(), s.Title)
	dateX := left + contentW - textWidth(fs.regular, dateText)
	drawText(img, fs.regular, colorMuted, dateX, y+px(padY)+fs.title.Metrics().Ascent.Ceil(), dateText)
	y += bandH + px(bandGap)

	baseline := func(top int) int {
		return top + px(padY) + fs.regular.Metrics().Ascent.Ceil()
	}

	fill(img, left, y, contentW, rowH, colorHeaderBg)
	x := left
	for i, h := range s.Table.Header {
		drawText(img, fs.bold, colorText, x+px(padX), baseline(y), h)
		x += widths[i]
	}
	y += rowH

weeks:
	for _, w := range s.Table.Weeks {
		if y >= height {
			break
		}
		fill(img, left, y, contentW, rowH, colorWeekBg)
		drawText(img, fs.bold, colorWeekText, left+px(padX), baseline(y), w.Title)
		y += rowH

		for i, row := range w.Rows {
			if y >= height {
				break weeks
			}
			if i%2 == 1 {
				fill(img, left, y, contentW, rowH, colorStripe)
			}
			x := left
			for c := 0; c < cols && c < len(row); c++ {
				drawText(img, fs.regular, colorText, x+px(padX), baseline(y), row[c])
				x += widths[c]
			}
			fill(img, left, y+rowH-max(1, px(1)), contentW, max(1, px(1)), colorRule)
			y += rowH
		}
	}

	if len(s.Table.Weeks) == 0 {
		msgX := left + (contentW-textWidth(fs.regular, emptyMessage))/2
		drawText(img, fs.regular, colorMuted, msgX, baseline(y), emptyMessage)
	}

	return img, nil
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

func drawText(dst draw.Image, face font.Face, c color.Color, x, y int, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func fill(dst draw.Image, x, y, w, h int, c color.Color) {
	draw.Draw(dst, image.Rect(x, y, x+w, y+h), image.NewUniform(c), image.Point{}, draw.Src)
}
