package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jung-kurt/gofpdf"

	"github.com/fdg312/mealsim/internal/nutrition"
)

// Render produces the summary in the given format.
func Render(format string, s Summary) ([]byte, error) {
	switch format {
	case FormatText:
		return []byte(Text(s)), nil
	case FormatCSV:
		return CSV(s)
	case FormatPDF:
		return PDF(s)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
}

// Text renders the plain-text export: one line per selected item, then the
// totals and one badge per target.
func Text(s Summary) string {
	var buf bytes.Buffer
	buf.WriteString("Order summary\n\n")

	if len(s.Lines) == 0 {
		buf.WriteString("(nothing selected)\n")
	} else {
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		for _, ln := range s.Lines {
			fmt.Fprintf(tw, "%s\tx%d\t¥%d\t%s kcal\tP %s g\tF %s g\tC %s g\tsalt %s g\n",
				ln.Item.Name, ln.Qty, ln.Totals.Price,
				formatNum(ln.Totals.Kcal), formatNum(ln.Totals.Protein), formatNum(ln.Totals.Fat),
				formatNum(ln.Totals.Carbs), formatNum(ln.Totals.Salt))
		}
		tw.Flush()
	}
	if len(s.Orphans) > 0 {
		fmt.Fprintf(&buf, "Not in catalog: %s\n", strings.Join(s.Orphans, ", "))
	}

	t := s.Totals
	fmt.Fprintf(&buf, "\nTotal: %d items, ¥%d\n", t.Count, t.Price)
	fmt.Fprintf(&buf, "Energy %s kcal, protein %s g, fat %s g, carbs %s g, salt %s g\n\n",
		formatNum(t.Kcal), formatNum(t.Protein), formatNum(t.Fat), formatNum(t.Carbs), formatNum(t.Salt))

	for _, b := range badges(s) {
		fmt.Fprintf(&buf, "[%s] %s\n", b.status, b.label)
	}
	return buf.String()
}

// CSV renders one row per selected item followed by a total row.
func CSV(s Summary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "name", "category", "qty", "price", "kcal", "protein", "fat", "carbs", "salt"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, ln := range s.Lines {
		row := append([]string{ln.Item.ID, ln.Item.Name, string(ln.Item.Category)}, totalsRow(ln.Totals)...)
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	if err := w.Write(append([]string{"total", "", ""}, totalsRow(s.Totals)...)); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PDF renders the summary as a one-page A4 document with the core Arial
// font. Text goes through the cp1252 translator, so names outside that
// code page are not rendered faithfully.
func PDF(s Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Order summary")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 9)
	widths := []float64{60, 12, 20, 20, 20, 18, 18, 18}
	header := []string{"Item", "Qty", "Price", "kcal", "Protein", "Fat", "Carbs", "Salt"}
	for i, h := range header {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, ln := range s.Lines {
		cells := []string{tr(ln.Item.Name), strconv.Itoa(ln.Qty), tr(fmt.Sprintf("¥%d", ln.Totals.Price)),
			formatNum(ln.Totals.Kcal), formatNum(ln.Totals.Protein), formatNum(ln.Totals.Fat),
			formatNum(ln.Totals.Carbs), formatNum(ln.Totals.Salt)}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 9)
	t := s.Totals
	totals := []string{"Total", strconv.Itoa(t.Count), tr(fmt.Sprintf("¥%d", t.Price)),
		formatNum(t.Kcal), formatNum(t.Protein), formatNum(t.Fat), formatNum(t.Carbs), formatNum(t.Salt)}
	for i, c := range totals {
		pdf.CellFormat(widths[i], 6, c, "1", 0, "R", false, 0, "")
	}
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	if len(s.Orphans) > 0 {
		pdf.Cell(0, 6, tr("Not in catalog: "+strings.Join(s.Orphans, ", ")))
		pdf.Ln(6)
	}
	for _, b := range badges(s) {
		pdf.Cell(0, 6, tr(fmt.Sprintf("[%s] %s", b.status, b.label)))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

type badge struct {
	status string // OK, NG, or "-" when the target is unset
	label  string
}

func badges(s Summary) []badge {
	t, tg, ev := s.Totals, s.Targets, s.Evaluation
	return []badge{
		targetBadge(tg.Budget, ev.Budget, fmt.Sprintf("Budget ¥%d", t.Price), "¥%s"),
		targetBadge(tg.MaxKcal, ev.Kcal, fmt.Sprintf("Calories %s kcal", formatNum(t.Kcal)), "%s kcal max"),
		targetBadge(tg.MinProtein, ev.Protein, fmt.Sprintf("Protein %s g", formatNum(t.Protein)), "%s g min"),
		targetBadge(tg.MaxSalt, ev.Salt, fmt.Sprintf("Salt %s g", formatNum(t.Salt)), "%s g max"),
	}
}

func targetBadge(target *float64, pass bool, label, limitFormat string) badge {
	if target == nil {
		return badge{status: "-", label: label + " (no target)"}
	}
	status := "NG"
	if pass {
		status = "OK"
	}
	return badge{status: status, label: label + " / " + fmt.Sprintf(limitFormat, formatNum(*target))}
}

func totalsRow(t nutrition.Totals) []string {
	return []string{
		strconv.Itoa(t.Count),
		strconv.Itoa(t.Price),
		formatNum(t.Kcal),
		formatNum(t.Protein),
		formatNum(t.Fat),
		formatNum(t.Carbs),
		formatNum(t.Salt),
	}
}

// formatNum rounds to one decimal and drops a trailing ".0".
func formatNum(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}
