package render

import (
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/signintech/gopdf"
)

// ErrNoFont is returned when a PDF renderer is requested without a font.
var ErrNoFont = errors.New("no card font configured")

// Renderer draws a single card.
type Renderer interface {
	Render(w io.Writer, card Card, layout Layout) error
}

const (
	fontFamily = "card"

	// ptToMM converts font sizes (points) into layout units.
	ptToMM = 25.4 / 72

	// minFontSize is the smallest size a line is shrunk to before it is
	// allowed to overflow its frame.
	minFontSize = 4.0
)

// PDFRenderer writes one single-page PDF per card with gopdf.
type PDFRenderer struct {
	font []byte
	opts ExportOptions
	now  func() time.Time
}

// NewPDFRenderer loads a TrueType font from fontFile.
func NewPDFRenderer(fontFile string, opts ExportOptions) (*PDFRenderer, error) {
	if fontFile == "" {
		return nil, ErrNoFont
	}
	data, err := os.ReadFile(fontFile)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return NewPDFRendererFromFont(data, opts)
}

// NewPDFRendererFromFont uses an already loaded TrueType font.
func NewPDFRendererFromFont(font []byte, opts ExportOptions) (*PDFRenderer, error) {
	if len(font) == 0 {
		return nil, ErrNoFont
	}
	return &PDFRenderer{font: font, opts: opts, now: time.Now}, nil
}

// Options returns the export options the renderer applies.
func (r *PDFRenderer) Options() ExportOptions {
	return r.opts
}

// Render draws card on layout and writes the PDF to w.
func (r *PDFRenderer) Render(w io.Writer, card Card, layout Layout) error {
	margin := r.opts.Margin()

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{
		PageSize: gopdf.Rect{W: layout.Width + 2*margin, H: layout.Height + 2*margin},
		Unit:     gopdf.UnitMM,
	})
	if r.opts.CompressArt {
		pdf.SetCompressLevel(zlib.BestCompression)
	} else {
		pdf.SetCompressLevel(zlib.NoCompression)
	}
	pdf.SetInfo(gopdf.PdfInfo{
		Title:        card.Surname,
		Subject:      r.opts.Keywords(),
		Creator:      "bizcards",
		Producer:     "bizcards",
		CreationDate: r.now(),
	})

	if err := pdf.AddTTFFontData(fontFamily, r.font); err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	pdf.AddPage()

	for _, name := range []string{BlockFullName, BlockDuty, BlockAddress, BlockContacts} {
		frame, _ := layout.Frame(name)
		if err := r.drawBlock(pdf, margin, frame, card.Block(name)); err != nil {
			return fmt.Errorf("draw %s: %w", name, err)
		}
	}

	if r.opts.TrimMarks {
		drawTrimMarks(pdf, margin, layout.Width, layout.Height, r.opts.OffsetMM())
	}
	if r.opts.PageInformation {
		if err := r.drawPageInformation(pdf, margin, layout, card); err != nil {
			return fmt.Errorf("draw page information: %w", err)
		}
	}

	if err := pdf.Write(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// drawBlock writes the paragraphs of a block top to bottom inside frame.
// Paragraphs that would start below the frame are dropped.
func (r *PDFRenderer) drawBlock(pdf *gopdf.GoPdf, margin float64, f Frame, text string) error {
	y := margin + f.Y
	bottom := margin + f.Y + f.H

	for i, line := range Paragraphs(text) {
		size := f.FontSize
		if i == 0 && f.FirstLineSize > 0 {
			size = f.FirstLineSize
		}

		if y+size*ptToMM > bottom {
			break
		}

		width, size, err := fitLine(pdf, line, size, f.W)
		if err != nil {
			return err
		}

		x := margin + f.X
		if f.Align == AlignRight {
			x = margin + f.X + f.W - width
		}

		if line != "" {
			pdf.SetXY(x, y)
			if err := pdf.Cell(nil, line); err != nil {
				return err
			}
		}

		y += size * ptToMM * leading(f)
	}
	return nil
}

// fitLine selects the font for line, shrinking it until the line fits in
// maxWidth or minFontSize is reached. It returns the measured width and the
// chosen size.
func fitLine(pdf *gopdf.GoPdf, line string, size, maxWidth float64) (float64, float64, error) {
	for {
		if err := pdf.SetFont(fontFamily, "", size); err != nil {
			return 0, size, err
		}
		width, err := pdf.MeasureTextWidth(line)
		if err != nil {
			return 0, size, err
		}
		if width <= maxWidth || size <= minFontSize {
			return width, size, nil
		}
		size = shrink(size, width, maxWidth)
	}
}

// shrink scales size so that width becomes maxWidth, never going below
// minFontSize and always making progress.
func shrink(size, width, maxWidth float64) float64 {
	next := size * maxWidth / width
	if next >= size {
		next = size - 0.5
	}
	if next < minFontSize {
		next = minFontSize
	}
	return next
}

func leading(f Frame) float64 {
	if f.Leading > 0 {
		return f.Leading
	}
	return 1.2
}

// drawTrimMarks draws the eight corner marks around the trimmed card,
// offset from the trim edge by offset millimetres.
func drawTrimMarks(pdf *gopdf.GoPdf, margin, width, height, offset float64) {
	pdf.SetLineWidth(0.1)
	pdf.SetStrokeColor(0, 0, 0)

	for _, m := range trimMarks(margin, width, height, offset) {
		pdf.Line(m.x1, m.y1, m.x2, m.y2)
	}
}

type segment struct {
	x1, y1, x2, y2 float64
}

// trimMarks returns the mark segments in page coordinates.
func trimMarks(margin, width, height, offset float64) []segment {
	left, top := margin, margin
	right, bottom := margin+width, margin+height

	var marks []segment
	for _, y := range []float64{top, bottom} {
		marks = append(marks,
			segment{left - offset - markLength, y, left - offset, y},
			segment{right + offset, y, right + offset + markLength, y},
		)
	}
	for _, x := range []float64{left, right} {
		marks = append(marks,
			segment{x, top - offset - markLength, x, top - offset},
			segment{x, bottom + offset, x, bottom + offset + markLength},
		)
	}
	return marks
}

// drawPageInformation prints the card name, layout and date under the card.
func (r *PDFRenderer) drawPageInformation(pdf *gopdf.GoPdf, margin float64, layout Layout, card Card) error {
	if err := pdf.SetFont(fontFamily, "", minFontSize); err != nil {
		return err
	}
	info := fmt.Sprintf("%s  %s  %s", card.Surname, layout.Label, r.now().Format("2006-01-02 15:04"))
	pdf.SetXY(margin+2, margin+layout.Height+r.opts.OffsetMM())
	return pdf.Cell(nil, info)
}
