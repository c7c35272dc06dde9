package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"brandpulse/internal"
	"brandpulse/internal/brands"
	"brandpulse/internal/geo"
)

// fileMeta carries the per-file context every parsed row inherits.
type fileMeta struct {
	SurveyType    internal.SurveyType
	Geo           geo.Resolution
	StudyNumber   string
	SurveyDate    string
	ProcessedDate string
}

// The export tool emits stable demographic headers; question headers carry
// the full question text, so they are located by their Q[n] prefix.
const (
	colAge        = "Age"
	colGender     = "Gender"
	colClientType = "Client Type"
	colRecorded   = "Recorded Timestamp"
	colWeight     = "Session Weight"
)

type columnIndex struct {
	age, gender, clientType, recorded, weight int
	q1, q2, q3                                int
}

func indexColumns(header []string) columnIndex {
	idx := columnIndex{age: -1, gender: -1, clientType: -1, recorded: -1, weight: -1, q1: -1, q2: -1, q3: -1}
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch name {
		case colAge:
			idx.age = i
		case colGender:
			idx.gender = i
		case colClientType:
			idx.clientType = i
		case colRecorded:
			idx.recorded = i
		case colWeight:
			idx.weight = i
		}
		switch {
		case strings.HasPrefix(name, "Q[1]"):
			idx.q1 = i
		case strings.HasPrefix(name, "Q[2]"):
			idx.q2 = i
		case strings.HasPrefix(name, "Q[3]"):
			idx.q3 = i
		}
	}
	return idx
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseResponses reads one survey-export CSV into response rows. Custom
// survey rows additionally get their open-ended answers normalized into
// the cleaned columns.
func parseResponses(r io.Reader, meta fileMeta) ([]internal.ResponseRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := indexColumns(header)

	var rows []internal.ResponseRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		row := internal.ResponseRow{
			Age:               cell(record, idx.age),
			Gender:            cell(record, idx.gender),
			Geo:               meta.Geo.DMA,
			ClientType:        cell(record, idx.clientType),
			RecordedTimestamp: cell(record, idx.recorded),
			SessionWeight:     parseWeight(cell(record, idx.weight)),
			SurveyDate:        meta.SurveyDate,
			ProcessedDate:     meta.ProcessedDate,
			Q1Answer:          cell(record, idx.q1),
			Q2Answer:          cell(record, idx.q2),
			StudyNumber:       meta.StudyNumber,
			GroupType:         meta.Geo.GroupType,
			GroupNumber:       meta.Geo.GroupNumber,
		}

		switch meta.SurveyType {
		case internal.SurveyBrandTracker:
			row.Q3Answer = cell(record, idx.q3)
		case internal.SurveyCustom:
			row.Q1Cleaned = brands.Normalize(row.Q1Answer).String()
			row.Q2Cleaned = brands.JoinMulti(brands.SplitMulti(row.Q2Answer))
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// parseWeight defaults a missing or unparseable session weight to 1.0.
func parseWeight(value string) float64 {
	if value == "" {
		return 1.0
	}
	weight, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 1.0
	}
	return weight
}
