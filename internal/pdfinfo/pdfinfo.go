// Package pdfinfo reads page geometry back from a produced PDF.
package pdfinfo

import (
	"errors"
	"fmt"
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrInspect indicates the PDF could not be read.
var ErrInspect = errors.New("failed to inspect PDF")

// pointsPerMM converts PDF user space units (1/72 inch) to millimetres.
const pointsPerMM = 72 / 25.4

func init() {
	// Keep pdfcpu from creating its config directory in the user's home.
	api.DisableConfigDir()
}

// Page is the size of one page in millimetres.
type Page struct {
	WidthMM  float64
	HeightMM float64
}

// Info summarizes a PDF file.
type Info struct {
	Pages []Page
}

// PageCount returns the number of pages.
func (i *Info) PageCount() int {
	return len(i.Pages)
}

// Uniform reports whether every page has the same size, within tolMM.
func (i *Info) Uniform(tolMM float64) bool {
	for _, p := range i.Pages[min(1, len(i.Pages)):] {
		if !p.Matches(i.Pages[0].WidthMM, i.Pages[0].HeightMM, tolMM) {
			return false
		}
	}
	return true
}

// Matches reports whether the page is w x h millimetres, within tolMM.
func (p Page) Matches(w, h, tolMM float64) bool {
	return math.Abs(p.WidthMM-w) <= tolMM && math.Abs(p.HeightMM-h) <= tolMM
}

// String formats the page as "297x420mm".
func (p Page) String() string {
	return fmt.Sprintf("%.0fx%.0fmm", p.WidthMM, p.HeightMM)
}

// Inspect reads the page dimensions of the PDF at path.
func Inspect(path string) (*Info, error) {
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInspect, path, err)
	}

	info := &Info{Pages: make([]Page, 0, len(dims))}
	for _, d := range dims {
		info.Pages = append(info.Pages, Page{
			WidthMM:  d.Width / pointsPerMM,
			HeightMM: d.Height / pointsPerMM,
		})
	}
	return info, nil
}
