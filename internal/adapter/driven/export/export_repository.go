package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() *ExportRepositoryImpl {
	return &ExportRepositoryImpl{now: time.Now}
}

// --- Exportação do resumo de custos ---

func (r *ExportRepositoryImpl) ExportDigestToCSV(digest entity.Digest, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	rows := [][]string{{"Section", "Label", "Amount (USD)"}}
	for _, p := range digest.Periods {
		rows = append(rows, []string{"period", p.PeriodKey, p.TotalCost.StringFixed(2)})
	}
	for _, e := range digest.Breakdown {
		rows = append(rows, []string{"service", e.Label, e.Amount.StringFixed(2)})
	}
	for _, b := range digest.Budgets {
		rows = append(rows, []string{"budget", b.Name, fmt.Sprintf("%s / %s", b.Actual.StringFixed(2), b.Limit.StringFixed(2))})
	}

	if err := writer.WriteAll(rows); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportDigestToJSON(digest entity.Digest, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(digest); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportDigestToPDF(digest entity.Digest, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	writeHeader(pdf, tr, digest.Payload.Title, digest.AccountID)

	period := fmt.Sprintf("%s to %s", digest.Range.Start.Format("2006-01-02"), digest.Range.End.Format("2006-01-02"))
	var totals [][2]string
	for _, p := range digest.Periods {
		totals = append(totals, [2]string{p.PeriodKey, p.TotalCost.StringFixed(2)})
	}
	drawTable(pdf, tr, fmt.Sprintf("Totals (%s)", period), totals)

	var services [][2]string
	for _, e := range digest.Breakdown {
		services = append(services, [2]string{e.Label, e.Amount.StringFixed(2)})
	}
	drawTable(pdf, tr, "Cost By Service", services)

	var budgets [][2]string
	for _, b := range digest.Budgets {
		budgets = append(budgets, [2]string{b.Name, fmt.Sprintf("%s / %s", b.Actual.StringFixed(2), b.Limit.StringFixed(2))})
	}
	drawTable(pdf, tr, "Budget Status", budgets)

	r.writeFooter(pdf, tr)

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Exportação do gráfico ---

func (r *ExportRepositoryImpl) ExportChartToPNG(image []byte, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "png")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outputFilename, image, 0o644); err != nil {
		return "", fmt.Errorf("error writing PNG file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportChartToPDF(image []byte, title, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	writeHeader(pdf, tr, title, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(image))
	pdf.ImageOptions("chart", 10, pdf.GetY(), 277, 0, false, opts, 0, "")

	r.writeFooter(pdf, tr)

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

func writeHeader(pdf *gofpdf.Fpdf, tr func(string) string, title, accountID string) {
	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  "+title), "", 1, "L", true, 0, "")

	if accountID != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(50, 50, 50)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Account ID: %s", accountID)), "", 1, "L", true, 0, "")
	}
	pdf.Ln(8)
}

// drawTable desenha uma seção com duas colunas; seções vazias são omitidas.
func drawTable(pdf *gofpdf.Fpdf, tr func(string) string, title string, rows [][2]string) {
	if len(rows) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.Cell(0, 8, tr(title))
	pdf.Ln(7)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(50, 50, 50)
	for _, row := range rows {
		pdf.CellFormat(140, 6, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, tr("$"+row[1]), "", 1, "R", false, 0, "")
	}
	pdf.Ln(8)
}

func (r *ExportRepositoryImpl) writeFooter(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	footerText := fmt.Sprintf("Generated by AWS Cost Notifier | %s", r.now().Format("2006-01-02"))
	pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
}

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
