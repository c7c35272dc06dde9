package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"brandpulse/internal"
)

// WriteSummaryWorkbook writes one sheet per aggregate table so a run's
// output can be eyeballed without querying the warehouse.
func WriteSummaryWorkbook(tables map[string][]internal.AggregatedRow, outputPath string) error {
	f := excelize.NewFile()

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := []string{
		"age", "gender", "geo", "client_type", "session_weight",
		"survey_dates", "survey_date", "processed_date", "study_number",
		"answer", "group_type", "group_number", "count_response", "weighted_response",
	}

	for sheetIdx, name := range names {
		sheet := name
		if sheetIdx == 0 {
			sheet = f.GetSheetName(0)
			_ = f.SetSheetName(sheet, name)
			sheet = name
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(sheet, cell, h)
		}

		for i, row := range tables[name] {
			r := i + 2
			set := func(col int, value any) {
				cell, _ := excelize.CoordinatesToCellName(col, r)
				_ = f.SetCellValue(sheet, cell, value)
			}

			set(1, row.Age)
			set(2, row.Gender)
			set(3, row.Geo)
			set(4, row.ClientType)
			set(5, row.SessionWeight)
			set(6, row.SurveyDates)
			set(7, row.SurveyDate)
			set(8, row.ProcessedDate)
			set(9, row.StudyNumber)
			set(10, row.Answer)
			set(11, row.GroupType)
			set(12, row.GroupNumber)
			set(13, row.CountResponse)
			set(14, row.WeightedResponse)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
