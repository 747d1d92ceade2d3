// Package report turns a record listing into downloadable files.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"

	"production-tracker/internal/storage"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatCSV   Format = "csv"
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

const filePrefix = "uretim_kayitlari_"

// PDFScale is the rasterization factor of the PDF snapshot.
const PDFScale = 2

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Options struct {
	Title string
	Logo  image.Image
}

type Service struct {
	loc  *time.Location
	opts Options
	now  func() time.Time
}

func NewService(loc *time.Location, opts Options) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{loc: loc, opts: opts, now: time.Now}
}

func (s *Service) Export(format Format, records []storage.Record) (File, error) {
	switch format {
	case FormatCSV:
		return s.CSV(records)
	case FormatPDF:
		return s.PDF(records)
	case FormatExcel:
		return s.Excel(records)
	default:
		return File{}, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

func (s *Service) CSV(records []storage.Record) (File, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records, s.loc); err != nil {
		return File{}, err
	}
	return File{
		Name:        s.fileName("csv"),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

func (s *Service) PDF(records []storage.Record) (File, error) {
	img, err := Rasterize(Snapshot{
		Title:     s.opts.Title,
		Date:      s.now().In(s.loc),
		Logo:      s.opts.Logo,
		Table:     BuildTable(records, s.loc),
		Scale:     PDFScale,
		MaxAspect: PageAspect,
	})
	if err != nil {
		return File{}, err
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, img); err != nil {
		return File{}, err
	}
	return File{
		Name:        s.fileName("pdf"),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

func (s *Service) Excel(records []storage.Record) (File, error) {
	data, err := BuildExcel(BuildTable(records, s.loc))
	if err != nil {
		return File{}, err
	}
	return File{
		Name:        s.fileName("xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

// fileName embeds the current UTC instant with millisecond precision.
func (s *Service) fileName(ext string) string {
	return filePrefix + s.now().UTC().Format("2006-01-02T15:04:05.000Z") + "." + ext
}

// LoadLogo reads the header logo. An empty path means no logo.
func LoadLogo(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("report: open logo %s: %w", path, err)
	}
	return img, nil
}
