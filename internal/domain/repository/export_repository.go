package repository

import (
	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
)

// ExportRepository writes reports to local files, used by dry runs.
type ExportRepository interface {
	ExportDigestToCSV(digest entity.Digest, filename, outputDir string) (string, error)
	ExportDigestToJSON(digest entity.Digest, filename, outputDir string) (string, error)
	ExportDigestToPDF(digest entity.Digest, filename, outputDir string) (string, error)

	ExportChartToPNG(image []byte, filename, outputDir string) (string, error)
	ExportChartToPDF(image []byte, title, filename, outputDir string) (string, error)
}
