package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
)

const (
	generationsSheet = "Generations"
	summarySheet     = "Summary"

	// DefaultExcelMaxRows keeps an unbounded run well under the sheet row limit
	DefaultExcelMaxRows = 100000
)

// generationRow is one line of the Generations sheet
type generationRow struct {
	generation uint64
	best       uint64
	worst      uint64
	mean       float64
	stdDev     float64
	population int
	genome     string
	stepMillis float64
}

// ExcelRecorder collects generation reports and writes them as a workbook
// when the run stops. It holds at most maxRows rows: when full, every other
// row is dropped and only generations on the doubled stride are recorded.
type ExcelRecorder struct {
	path    string
	maxRows int

	mu     sync.Mutex
	rows   []generationRow
	stride uint64
}

// NewExcelRecorder creates a recorder writing to path
func NewExcelRecorder(path string) *ExcelRecorder {
	return &ExcelRecorder{path: path, maxRows: DefaultExcelMaxRows, stride: 1}
}

// SetMaxRows bounds the number of recorded generations (minimum 2)
func (r *ExcelRecorder) SetMaxRows(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxRows = max(n, 2)
}

// Stride returns the generation interval currently recorded
func (r *ExcelRecorder) Stride() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stride
}

// Name returns the sink name
func (r *ExcelRecorder) Name() string { return "excel" }

// Path returns the workbook path
func (r *ExcelRecorder) Path() string { return r.path }

// Report records one generation
func (r *ExcelRecorder) Report(_ context.Context, report evolution.GenerationReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if report.Generation%r.stride != 0 {
		return nil
	}
	r.rows = append(r.rows, generationRow{
		generation: report.Generation,
		best:       report.Stats.Best,
		worst:      report.Stats.Worst,
		mean:       report.Stats.Mean,
		stdDev:     report.Stats.StdDev,
		population: report.Stats.PopulationSize,
		genome:     report.Best.Genome,
		stepMillis: float64(report.StepDuration) / float64(time.Millisecond),
	})
	if len(r.rows) > r.maxRows {
		r.thin()
	}
	return nil
}

// thin doubles the stride and drops the rows that fall off it
func (r *ExcelRecorder) thin() {
	r.stride *= 2
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.generation%r.stride == 0 {
			kept = append(kept, row)
		}
	}
	r.rows = kept
}

// Finalize writes the workbook
func (r *ExcelRecorder) Finalize(result *evolution.RunResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if dir := filepath.Dir(r.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), generationsSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(summarySheet); err != nil {
		return err
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeGenerationsSheet(fx, styles); err != nil {
		return err
	}
	if err := r.writeSummarySheet(fx, result, styles); err != nil {
		return err
	}

	return fx.SaveAs(r.path)
}

func (r *ExcelRecorder) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return styles, err
	}

	// thousands separator, no decimals
	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    3,
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	// thousands separator, two decimals
	styles.DecimalStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    4,
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.GenomeStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Family: "Consolas"},
		Border: border,
	})
	if err != nil {
		return styles, err
	}

	styles.SummaryStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
		Border: border,
	})
	return styles, err
}

func (r *ExcelRecorder) writeGenerationsSheet(fx *excelize.File, styles ExcelStyles) error {
	sheet := generationsSheet
	headers := []string{"Generation", "Best", "Worst", "Mean", "Std Dev", "Population", "Best Genome", "Step (ms)"}
	widths := []float64{12, 12, 12, 14, 14, 12, 48, 12}

	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := fx.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}

	for i, row := range r.rows {
		rowNum := i + 2
		values := []interface{}{row.generation, row.best, row.worst, row.mean, row.stdDev, row.population, row.genome, row.stepMillis}
		rowStyles := []int{
			styles.NumberStyle, styles.NumberStyle, styles.NumberStyle, styles.DecimalStyle,
			styles.DecimalStyle, styles.NumberStyle, styles.GenomeStyle, styles.DecimalStyle,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if err := fx.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
			fx.SetCellStyle(sheet, cell, cell, rowStyles[col])
		}
	}

	return fx.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (r *ExcelRecorder) writeSummarySheet(fx *excelize.File, result *evolution.RunResult, styles ExcelStyles) error {
	sheet := summarySheet
	fx.SetColWidth(sheet, "A", "A", 20)
	fx.SetColWidth(sheet, "B", "B", 60)

	rows := [][]interface{}{
		{"Run", result.RunID},
		{"Target", result.Target},
		{"Best Genome", result.Best.Genome},
		{"Best Error", result.Best.Fitness},
		{"Generations", result.Generations},
		{"Stop Reason", string(result.Reason)},
		{"Elapsed", result.Elapsed.Round(time.Millisecond).String()},
		{"Reporting Errors", result.ReportingErrors},
		{"Generation Step", r.stride},
	}
	for i, row := range rows {
		label, _ := excelize.CoordinatesToCellName(1, i+1)
		value, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := fx.SetCellValue(sheet, label, row[0]); err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, value, row[1]); err != nil {
			return err
		}
		fx.SetCellStyle(sheet, label, label, styles.SummaryStyle)
		fx.SetCellStyle(sheet, value, value, styles.BaseStyle)
	}
	return nil
}
