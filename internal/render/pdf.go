// Package render assembles the printable PDF of a workout program. Content
// assembly is local; the binary format belongs to the PDF library.
package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fittracker/server/internal/domain"

	"github.com/go-pdf/fpdf"
)

// ErrRenderFailed wraps any failure while producing the document, most
// commonly a malformed embedded image.
var ErrRenderFailed = errors.New("program rendering failed")

const (
	pageLeftMargin = 10.0
	contentWidth   = 190.0 // A4 width minus margins
	imageWidth     = 60.0
)

// RenderProgram produces the PDF for one workout program with the coach's
// branding applied. A nil profile renders an unbranded document.
func RenderProgram(workout *domain.Workout, profile *domain.CoachProfile) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Program - %s", workout.ClientName), true)
	pdf.SetAutoPageBreak(true, 15)

	textR, textG, textB := parseHexColor(colorOrDefault(profile, func(p *domain.CoachProfile) string { return p.TextColor }), 26, 26, 46)
	lineR, lineG, lineB := parseHexColor(colorOrDefault(profile, func(p *domain.CoachProfile) string { return p.LineColor }), 79, 70, 229)

	if profile != nil && profile.ShowWatermark {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-12)
			pdf.SetFont("Arial", "I", 8)
			pdf.SetTextColor(160, 160, 160)
			pdf.CellFormat(0, 8, "Created with FitTracker", "", 0, "C", false, 0, "")
		})
	}

	pdf.AddPage()

	imageCount := 0
	if profile != nil && profile.LogoImage != "" {
		if err := placeImage(pdf, profile.LogoImage, &imageCount, pageLeftMargin, 10, 28); err != nil {
			return nil, err
		}
		pdf.SetY(12)
		pdf.SetX(pageLeftMargin + 32)
	}

	// Header: coach name, contact line, separator in the brand line color.
	pdf.SetTextColor(textR, textG, textB)
	pdf.SetFont("Arial", "B", 18)
	if profile != nil && profile.Name != "" {
		pdf.Cell(0, 10, profile.Name)
		pdf.Ln(8)
		if profile.LogoImage != "" {
			pdf.SetX(pageLeftMargin + 32)
		}
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.Cell(0, 6, contactLine(profile))
		pdf.Ln(6)
	}
	if profile != nil && profile.LogoImage != "" {
		// Drop below the logo before the program title.
		if pdf.GetY() < 42 {
			pdf.SetY(42)
		}
	}
	pdf.SetDrawColor(lineR, lineG, lineB)
	pdf.SetLineWidth(0.6)
	pdf.Line(pageLeftMargin, pdf.GetY(), pageLeftMargin+contentWidth, pdf.GetY())
	pdf.Ln(6)

	// Program title block.
	pdf.SetTextColor(textR, textG, textB)
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, workout.ClientName)
	pdf.Ln(9)
	if workout.Description != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(contentWidth, 6, workout.Description, "", "L", false)
		pdf.Ln(2)
	}

	for i := range workout.Weeks {
		week := &workout.Weeks[i]
		renderWeekHeading(pdf, week, textR, textG, textB)

		for j := range week.Days {
			day := &week.Days[j]
			renderDayHeading(pdf, day)

			if len(day.Exercises) == 0 {
				pdf.SetFont("Arial", "I", 10)
				pdf.SetTextColor(130, 130, 130)
				pdf.Cell(0, 7, "No exercises")
				pdf.Ln(8)
				continue
			}

			renderExerciseTable(pdf, day.Exercises, lineR, lineG, lineB)

			for k := range day.Exercises {
				ex := &day.Exercises[k]
				if ex.Glossary == nil {
					continue
				}
				if err := renderGlossarySnapshot(pdf, ex, &imageCount); err != nil {
					return nil, err
				}
			}
			pdf.Ln(3)
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

func renderWeekHeading(pdf *fpdf.Fpdf, week *domain.Week, r, g, b int) {
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(r, g, b)
	name := week.Name
	if name == "" {
		name = fmt.Sprintf("Week %d", week.Number)
	}
	pdf.Cell(0, 9, name)
	pdf.Ln(8)
	if week.Notes != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(contentWidth, 5, week.Notes, "", "L", false)
		pdf.Ln(1)
	}
}

func renderDayHeading(pdf *fpdf.Fpdf, day *domain.Day) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(60, 60, 60)
	pdf.Cell(0, 8, day.Name)
	pdf.Ln(7)
	if day.Notes != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.MultiCell(contentWidth, 5, day.Notes, "", "L", false)
		pdf.Ln(1)
	}
}

func renderExerciseTable(pdf *fpdf.Fpdf, exercises []domain.Exercise, lineR, lineG, lineB int) {
	colWidths := []float64{62, 18, 28, 27, 55}
	headers := []string{"Exercise", "Sets", "Reps", "Rest (sec)", "Notes"}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(lineR, lineG, lineB)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(40, 40, 40)
	fill := false
	pdf.SetFillColor(245, 245, 250)
	for i := range exercises {
		ex := &exercises[i]
		name := ex.Name
		if name == "" {
			name = "(unnamed exercise)"
		}
		row := []string{name, ex.Sets, ex.Reps, ex.Rest, ex.Notes}
		for c, v := range row {
			pdf.CellFormat(colWidths[c], 6.5, v, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}
	pdf.Ln(2)
}

// renderGlossarySnapshot prints the copied-at-selection glossary content of
// an exercise: description text plus any embedded images.
func renderGlossarySnapshot(pdf *fpdf.Fpdf, ex *domain.Exercise, imageCount *int) error {
	if ex.Glossary.Description == "" && len(ex.Glossary.Images) == 0 {
		return nil
	}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, ex.Name)
	pdf.Ln(5)
	if ex.Glossary.Description != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(contentWidth, 5, ex.Glossary.Description, "", "L", false)
	}
	for _, img := range ex.Glossary.Images {
		if err := placeImage(pdf, img, imageCount, pdf.GetX(), pdf.GetY(), imageWidth); err != nil {
			return err
		}
	}
	pdf.Ln(2)
	return nil
}

// placeImage decodes an inline base64 data URL and draws it. A malformed
// image aborts the whole render.
func placeImage(pdf *fpdf.Fpdf, dataURL string, imageCount *int, x, y, width float64) error {
	raw, imageType, err := decodeDataURL(dataURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	*imageCount++
	name := fmt.Sprintf("embedded-%d", *imageCount)
	opts := fpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))
	if pdf.Err() {
		return fmt.Errorf("%w: malformed embedded image: %v", ErrRenderFailed, pdf.Error())
	}
	pdf.ImageOptions(name, x, y, width, 0, true, opts, 0, "")
	if pdf.Err() {
		return fmt.Errorf("%w: malformed embedded image: %v", ErrRenderFailed, pdf.Error())
	}
	return nil
}

// decodeDataURL splits a "data:image/png;base64,..." payload into raw bytes
// and the fpdf image type tag.
func decodeDataURL(dataURL string) ([]byte, string, error) {
	payload := dataURL
	imageType := "PNG"

	if strings.HasPrefix(dataURL, "data:") {
		meta, rest, found := strings.Cut(dataURL[len("data:"):], ",")
		if !found {
			return nil, "", errors.New("image data URL has no payload")
		}
		payload = rest
		mime, _, _ := strings.Cut(meta, ";")
		switch mime {
		case "image/png":
			imageType = "PNG"
		case "image/jpeg", "image/jpg":
			imageType = "JPG"
		case "image/gif":
			imageType = "GIF"
		default:
			return nil, "", fmt.Errorf("unsupported image type %q", mime)
		}
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("image is not valid base64: %v", err)
	}
	if len(raw) == 0 {
		return nil, "", errors.New("image payload is empty")
	}
	return raw, imageType, nil
}

func contactLine(p *domain.CoachProfile) string {
	parts := make([]string, 0, 3)
	for _, v := range []string{p.Email, p.Phone, p.Website} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "  |  ")
}

func colorOrDefault(p *domain.CoachProfile, pick func(*domain.CoachProfile) string) string {
	if p == nil {
		return ""
	}
	return pick(p)
}

// parseHexColor parses "#rrggbb", falling back to the given defaults on any
// malformed value.
func parseHexColor(hex string, defR, defG, defB int) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return defR, defG, defB
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return defR, defG, defB
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
