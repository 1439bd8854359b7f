package service

import (
	"encoding/csv"
	"strconv"
	"strings"

	"aroha-api/internal/model"
)

// exportDateLayout formats the submission timestamp column.
const exportDateLayout = "2006-01-02 15:04:05"

// DefaultExportColumns lists the logical question ids exported, in
// column order, after the fixed leading columns.
var DefaultExportColumns = func() []int {
	cols := make([]int, 0, model.QFollowUpConsent)
	for id := 1; id <= model.QFollowUpConsent; id++ {
		cols = append(cols, id)
	}
	return cols
}()

// ExportService serializes responses into downloadable CSV.
type ExportService struct{}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{}
}

// ExportCSV renders records as CSV text: a header row, then one row
// per record in input order. Leading columns are the response id,
// submission date, and completion flag, followed by one column per
// question id. Cells containing the delimiter, a quote, or a line
// break are quoted with internal quotes doubled; multi-select answers
// are joined into a single cell.
func (s *ExportService) ExportCSV(records []*model.SurveyResponse, questionIDs []int) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	header := []string{"Response ID", "Date Submitted", "Completed"}
	for _, id := range questionIDs {
		header = append(header, "Q"+strconv.Itoa(id))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	row := make([]string, 0, len(header))
	for _, r := range records {
		row = row[:0]

		date := ""
		if r.SubmittedAt != nil {
			date = r.SubmittedAt.Format(exportDateLayout)
		}
		completed := "No"
		if r.Completed {
			completed = "Yes"
		}
		row = append(row, r.ID, date, completed)

		for _, id := range questionIDs {
			v, ok := model.ResolveAnswer(r.Answers, id, "")
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, model.AnswerText(v))
		}

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
