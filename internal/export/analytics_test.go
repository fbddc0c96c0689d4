package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/quizhub/quiz-web/internal/models"
)

func TestAnalyticsWorkbook(t *testing.T) {
	taken := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	results := []models.SubmissionResult{
		{SubmissionID: 1, QuizID: 7, Username: "bob", Score: 2, TotalQuestions: 4, DateTaken: taken, TimeSpent: "3m"},
		{SubmissionID: 2, QuizID: 7, Username: "eve", Score: 4, TotalQuestions: 4, DateTaken: taken, TimeSpent: "2m"},
	}

	raw, err := AnalyticsWorkbook(7, results)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	cell := func(ref string) string {
		v, err := f.GetCellValue(sheetName, ref)
		require.NoError(t, err)
		return v
	}

	t.Run("summary block", func(t *testing.T) {
		assert.Equal(t, "Quiz ID", cell("A1"))
		assert.Equal(t, "7", cell("B1"))
		assert.Equal(t, "2", cell("B2"))
		assert.Equal(t, "75%", cell("B3"))
	})

	t.Run("attempt rows", func(t *testing.T) {
		assert.Equal(t, "Student", cell("B5"))
		assert.Equal(t, "bob", cell("B6"))
		assert.Equal(t, "50%", cell("E6"))
		assert.Equal(t, "eve", cell("B7"))
		assert.Equal(t, "100%", cell("E7"))
	})
}

func TestAnalyticsWorkbookRoundsAverage(t *testing.T) {
	taken := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	// 50% and 67% average to 58.5, which rounds up.
	results := []models.SubmissionResult{
		{SubmissionID: 1, QuizID: 7, Username: "bob", Score: 1, TotalQuestions: 2, DateTaken: taken, TimeSpent: "3m"},
		{SubmissionID: 2, QuizID: 7, Username: "eve", Score: 2, TotalQuestions: 3, DateTaken: taken, TimeSpent: "2m"},
	}

	raw, err := AnalyticsWorkbook(7, results)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(sheetName, "B3")
	require.NoError(t, err)
	assert.Equal(t, "59%", v)
}

func TestAnalyticsWorkbookEmpty(t *testing.T) {
	raw, err := AnalyticsWorkbook(3, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(sheetName, "B3")
	require.NoError(t, err)
	assert.Equal(t, "0%", v)
}
