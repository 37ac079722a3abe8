// Package report exports profiles, search reports, trend results and the
// market directory as PDF or JSON documents.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2/roboto"

	"twoknow/models"
)

// ErrNoData is returned when there is nothing to export.
var ErrNoData = errors.New("no data to export")

const (
	marginLeft = 20.0
	pageBottom = 270.0
)

// fontFamily is the embedded UTF-8 Roboto face. It has no bold cut, so "B"
// reuses it.
const fontFamily = "Roboto"

// document wraps fpdf with the line cursor used by every report.
type document struct {
	pdf *fpdf.Fpdf
	y   float64
}

func newDocument() *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreator("2KNOW", true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", roboto.Roboto)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", roboto.Roboto)
	pdf.AddPage()
	return &document{pdf: pdf, y: 20}
}

func (d *document) text(size float64, style string, gray int, s string) {
	if d.y > pageBottom {
		d.pdf.AddPage()
		d.y = 20
	}
	d.pdf.SetFont(fontFamily, style, size)
	d.pdf.SetTextColor(gray, gray, gray)
	d.pdf.Text(marginLeft, d.y, s)
}

func (d *document) line(size float64, style string, s string, advance float64) {
	d.text(size, style, 0, s)
	d.y += advance
}

func (d *document) footer(size float64, s string, y float64) {
	d.pdf.SetFont(fontFamily, "", size)
	d.pdf.SetTextColor(150, 150, 150)
	d.pdf.Text(marginLeft, y, s)
}

func (d *document) output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func regionLabel(region string) string {
	if region == "" || region == "KE" {
		return "Kenya"
	}
	return region
}

func shortDate(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Format("2006-01-02")
	}
	return ts
}

// UserDataPDF writes the profile and search history export.
func UserDataPDF(w io.Writer, sess models.Session, history []models.SearchHistoryEntry, now time.Time) error {
	if sess.Email == "" && sess.DisplayName == "" && len(history) == 0 {
		return ErrNoData
	}
	name := sess.DisplayName
	if name == "" {
		name = "User"
	}
	email := sess.Email
	if email == "" {
		email = "N/A"
	}
	memberSince := sess.MemberSince
	if memberSince == "" {
		memberSince = now.Format("2006-01-02")
	}

	d := newDocument()
	d.line(20, "B", "2KNOW User Data Export", 15)
	d.text(10, "", 100, "Export Date: "+now.Format("2006-01-02 15:04"))
	d.y += 10

	d.line(14, "B", "Profile Information", 8)
	d.line(11, "", "Name: "+name, 7)
	d.line(11, "", "Email: "+email, 7)
	d.line(11, "", "Member Since: "+shortDate(memberSince), 12)

	d.line(14, "B", fmt.Sprintf("Search History (%d searches)", len(history)), 8)
	if len(history) == 0 {
		d.line(10, "", "No search history available", 7)
	}
	for i, h := range history {
		d.line(10, "", fmt.Sprintf("%d. %q - %s - %s (Score: %g%%)",
			i+1, h.Keyword, regionLabel(h.Region), shortDate(h.Timestamp), h.Score), 7)
	}

	d.footer(9, "This is a secure export of your 2KNOW account data", 285)
	return d.output(w)
}

// SearchReportPDF writes the detailed market analysis report.
func SearchReportPDF(w io.Writer, a models.DetailedAnalysis, now time.Time) error {
	if a.Keyword == "" {
		return ErrNoData
	}
	region := regionLabel(a.Region)

	d := newDocument()
	d.line(20, "", "2KNOW Market Analysis Report: "+a.Keyword, 10)
	d.text(12, "", 100, fmt.Sprintf("Region: %s | Date: %s", region, now.Format("2006-01-02")))
	d.y += 20

	d.line(14, "B", "Executive Summary", 10)
	d.line(12, "", fmt.Sprintf("%s market analysis for %s shows %d%% viability", a.Keyword, region, a.OverallScore), 7)
	d.line(12, "", fmt.Sprintf("with %s trend and %s competition level.", a.Trend, a.Competition), 15)

	d.line(14, "B", "Key Metrics", 10)
	for _, m := range []string{
		fmt.Sprintf("Overall Score: %d%%", a.OverallScore),
		"Trend Direction: " + a.Trend,
		"Competition Level: " + a.Competition,
		"Risk Factor: " + a.Risk,
		fmt.Sprintf("Short-term Growth: %d", a.ShortTerm),
		fmt.Sprintf("Medium-term Growth: %d", a.MediumTerm),
		fmt.Sprintf("Long-term Growth: %d", a.LongTerm),
	} {
		d.line(12, "", m, 7)
	}
	d.y += 5

	d.line(14, "B", "Recommendations", 10)
	for i, rec := range a.Recommendations {
		d.line(12, "", fmt.Sprintf("%d. %s", i+1, rec), 7)
	}

	d.footer(10, "Generated by 2KNOW Market Trend Predictor", 280)
	return d.output(w)
}

// TrendPDF writes a single trend result with its historical series.
func TrendPDF(w io.Writer, r models.TrendResult, now time.Time) error {
	if r.Keyword == "" {
		return ErrNoData
	}
	d := newDocument()
	d.line(20, "B", "2KNOW Trend Report: "+r.Keyword, 10)
	d.text(12, "", 100, fmt.Sprintf("Region: %s | Date: %s", regionLabel(r.Region), now.Format("2006-01-02")))
	d.y += 15

	d.line(14, "B", "Scores", 9)
	d.line(12, "", fmt.Sprintf("Overall Score: %g%%", r.OverallScore), 7)
	d.line(12, "", fmt.Sprintf("Live Trend Score: %g%%", r.LiveTrendScore), 7)
	d.line(12, "", "Market Sector: "+r.MarketSector, 7)
	if r.DataSource != "" {
		d.line(12, "", "Data Source: "+r.DataSource, 7)
	}
	d.y += 5

	if len(r.RelevantMarkets) > 0 {
		d.line(14, "B", "Relevant Markets", 9)
		for _, m := range r.RelevantMarkets {
			d.line(12, "", "- "+m, 7)
		}
		d.y += 5
	}

	d.line(14, "B", "Historical Interest", 9)
	if len(r.HistoricalTrends) == 0 {
		d.line(11, "", "No historical data available", 7)
	}
	for _, p := range r.HistoricalTrends {
		d.line(11, "", fmt.Sprintf("%s: %d", p.Date, p.Value), 6)
	}

	d.footer(10, "Generated by 2KNOW Market Trend Predictor", 280)
	return d.output(w)
}

// JSON writes v as indented JSON. Nil values and empty slices or maps are
// rejected with ErrNoData.
func JSON(w io.Writer, v interface{}) error {
	if isEmpty(v) {
		return ErrNoData
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename builds a download name such as
// "2KNOW-maize-Kenya-2025-03-20.pdf". Whitespace and path characters in
// parts become dashes.
func Filename(prefix string, ext string, parts ...string) string {
	segs := []string{prefix}
	for _, p := range parts {
		p = strings.Trim(unsafeChars.ReplaceAllString(strings.TrimSpace(p), "-"), "-")
		if p != "" {
			segs = append(segs, p)
		}
	}
	return strings.Join(segs, "-") + "." + strings.TrimPrefix(ext, ".")
}
