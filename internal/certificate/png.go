package certificate

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// A4 portrait at 150 dpi.
const (
	pageWidth  = 1240
	pageHeight = 1754
	cm         = 59.0 // pixels per centimetre at 150 dpi
)

// RenderError reports a failed certificate render. The session that
// requested it stays intact; only the artifact is unavailable.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render certificate: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// PNGRenderer draws certificates as PNG images. A TTF font is loaded
// from fontPath when available; otherwise rendering degrades to the
// built-in bitmap face instead of failing.
type PNGRenderer struct {
	font   *truetype.Font
	logger zerolog.Logger
}

func NewPNGRenderer(fontPath string, logger zerolog.Logger) *PNGRenderer {
	r := &PNGRenderer{
		logger: logger.With().Str("component", "certificate_renderer").Logger(),
	}
	if fontPath == "" {
		return r
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		r.logger.Warn().Err(err).Str("font_path", fontPath).Msg("certificate font unavailable, using bitmap fallback")
		return r
	}
	parsed, err := truetype.Parse(data)
	if err != nil {
		r.logger.Warn().Err(err).Str("font_path", fontPath).Msg("certificate font unparsable, using bitmap fallback")
		return r
	}
	r.font = parsed
	return r
}

// face returns a fresh font face per call; truetype faces are not safe
// for concurrent use.
func (r *PNGRenderer) face(size float64) font.Face {
	if r.font == nil {
		return basicfont.Face7x13
	}
	// Point sizes scale with the 150 dpi canvas.
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     150,
		Hinting: font.HintingNone,
	})
}

// Render draws the certificate for summary.
func (r *PNGRenderer) Render(summary Summary) ([]byte, error) {
	dc := gg.NewContext(pageWidth, pageHeight)
	w := float64(pageWidth)
	h := float64(pageHeight)

	dc.SetHexColor("#FFFFFF")
	dc.Clear()

	// Border
	margin := 1.5 * cm
	dc.SetHexColor("#444444")
	dc.SetLineWidth(6)
	dc.DrawRectangle(margin, margin, w-2*margin, h-2*margin)
	dc.Stroke()

	// Header
	dc.SetFontFace(r.face(28))
	dc.SetHexColor("#222222")
	dc.DrawStringAnchored("Certificate of Achievement", w/2, 3*cm, 0.5, 0.5)

	dc.SetHexColor("#888888")
	dc.SetLineWidth(2)
	dc.DrawLine(w/2-5*cm, 3.4*cm, w/2+5*cm, 3.4*cm)
	dc.Stroke()

	// Body
	y := 6 * cm
	dc.SetFontFace(r.face(14))
	dc.SetHexColor("#333333")
	dc.DrawStringAnchored("This is to certify that", w/2, y, 0.5, 0.5)

	y += 1.0 * cm
	dc.SetFontFace(r.face(22))
	dc.SetHexColor("#000000")
	dc.DrawStringAnchored(summary.StudentName, w/2, y, 0.5, 0.5)

	y += 1.4 * cm
	dc.SetFontFace(r.face(14))
	dc.SetHexColor("#333333")
	dc.DrawStringAnchored("has successfully completed the quiz", w/2, y, 0.5, 0.5)

	y += 1.0 * cm
	dc.SetFontFace(r.face(18))
	dc.SetHexColor("#000000")
	dc.DrawStringAnchored(summary.QuizTitle, w/2, y, 0.5, 0.5)

	y += 1.2 * cm
	dc.SetFontFace(r.face(14))
	dc.SetHexColor("#333333")
	dc.DrawStringAnchored(fmt.Sprintf("Score: %d / %d", summary.Score, summary.Total), w/2, y, 0.5, 0.5)

	// Footer
	dc.SetFontFace(r.face(10))
	dc.SetHexColor("#666666")
	dc.DrawStringAnchored("Generated by Quiz Hub", w/2, h-2.2*cm, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, &RenderError{Err: err}
	}
	return buf.Bytes(), nil
}
