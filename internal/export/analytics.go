package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/quizhub/quiz-web/internal/models"
)

const sheetName = "Attempts"

// AnalyticsWorkbook renders the attempts of one quiz as an Excel
// workbook: a summary block followed by one row per graded attempt.
func AnalyticsWorkbook(quizID int, results []models.SubmissionResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	if err := writeSummary(f, quizID, results); err != nil {
		return nil, err
	}
	if err := writeAttempts(f, results); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, quizID int, results []models.SubmissionResult) error {
	average := 0
	sum := 0
	for _, r := range results {
		sum += models.Percentage(r.Score, r.TotalQuestions)
	}
	if len(results) > 0 {
		// Rounded like the per-attempt percentages.
		average = int(float64(sum)/float64(len(results)) + 0.5)
	}

	rows := [][]interface{}{
		{"Quiz ID", quizID},
		{"Attempts", len(results)},
		{"Average score", fmt.Sprintf("%d%%", average)},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	return nil
}

func writeAttempts(f *excelize.File, results []models.SubmissionResult) error {
	header := []interface{}{"Submission", "Student", "Score", "Total", "Percentage", "Date taken", "Time spent"}
	if err := f.SetSheetRow(sheetName, "A5", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range results {
		row := []interface{}{
			r.SubmissionID,
			r.Username,
			r.Score,
			r.TotalQuestions,
			fmt.Sprintf("%d%%", models.Percentage(r.Score, r.TotalQuestions)),
			r.DateTaken.Format("2006-01-02 15:04"),
			r.TimeSpent,
		}
		cell := fmt.Sprintf("A%d", i+6)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write attempt row: %w", err)
		}
	}
	return nil
}
