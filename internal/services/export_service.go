package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService renders grading results as downloadable score reports.
type ExportService interface {
	ExportResultToExcel(result *models.GradingResult, questions []models.Question) ([]byte, error)
	ExportResultToCSV(result *models.GradingResult, questions []models.Question) ([]byte, error)
}

type exportService struct {
	logger *slog.Logger
}

func NewExportService(logger *slog.Logger) ExportService {
	return &exportService{logger: logger}
}

func (s *exportService) ExportResultToExcel(result *models.GradingResult, questions []models.Question) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Score Report"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Question", "Type", "Correct", "Points Awarded"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, row := range s.resultRows(result, questions) {
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	summaryRow := len(result.PerQuestion) + 3
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow),
		fmt.Sprintf("%d / %d", result.TotalScore, result.TotalPossible))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *exportService) ExportResultToCSV(result *models.GradingResult, questions []models.Question) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Question", "Type", "Correct", "Points Awarded"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range s.resultRows(result, questions) {
		record := make([]string, len(row))
		for i, value := range row {
			record[i] = fmt.Sprint(value)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	if err := writer.Write([]string{"Total", "", "",
		strconv.Itoa(result.TotalScore) + " / " + strconv.Itoa(result.TotalPossible)}); err != nil {
		return nil, fmt.Errorf("failed to write CSV summary: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// resultRows orders the per-question outcomes by the quiz's question order
// so the report reads the way the learner saw the quiz.
func (s *exportService) resultRows(result *models.GradingResult, questions []models.Question) [][]interface{} {
	ordered := make([]models.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	rows := make([][]interface{}, 0, len(ordered))
	for _, question := range ordered {
		qr, ok := result.PerQuestion[question.ID]
		if !ok {
			continue
		}

		verdict := "No"
		if qr.Correct {
			verdict = "Yes"
		}
		rows = append(rows, []interface{}{
			question.Text,
			string(question.Type),
			verdict,
			qr.PointsAwarded,
		})
	}
	return rows
}
