package pipeline

import (
	"strings"
	"testing"

	"brandpulse/internal"
	"brandpulse/internal/geo"
)

func TestParseResponsesBrandTracker(t *testing.T) {
	csv := `Age,Gender,Client Type,Recorded Timestamp,Session Weight,Q[1] Brands heard of?,Q[2] Brands considered?,Q[3] Most likely to buy?
25-34,Female,Prospect,2025-03-14T09:00:00Z,1.5,geico;allstate,geico,geico
35-44,Male,Client,2025-03-14T09:05:00Z,,state farm,,
`
	meta := fileMeta{
		SurveyType:    internal.SurveyBrandTracker,
		Geo:           geo.Resolution{DMA: "Laredo, TX", GroupType: "CONTROL", GroupNumber: "1"},
		StudyNumber:   "id_1",
		SurveyDate:    "2025-03-14",
		ProcessedDate: "2025-03-15",
	}
	rows, err := parseResponses(strings.NewReader(csv), meta)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("len=%d", len(rows))
	}

	first := rows[0]
	if first.Q1Answer != "geico;allstate" || first.Q3Answer != "geico" {
		t.Fatalf("answers not captured: %+v", first)
	}
	if first.Geo != "Laredo, TX" || first.GroupType != "CONTROL" || first.StudyNumber != "id_1" {
		t.Fatalf("file metadata not inherited: %+v", first)
	}
	if first.SessionWeight != 1.5 {
		t.Fatalf("weight = %v", first.SessionWeight)
	}
	// Brand tracker parsing leaves the cleaned columns alone.
	if first.Q1Cleaned != "" || first.Q2Cleaned != "" {
		t.Fatalf("cleaned columns set for brand tracker: %+v", first)
	}

	if rows[1].SessionWeight != 1.0 {
		t.Fatalf("missing weight defaulted to %v", rows[1].SessionWeight)
	}
}

func TestParseResponsesCustomCleansAnswers(t *testing.T) {
	csv := `Age,Gender,Client Type,Recorded Timestamp,Session Weight,Q[1] First brand that comes to mind?,Q[2] Brands you know?
25-34,Female,Client,2025-04-01T12:00:00Z,2.0,gieco,"state farm, idk, progresive"
`
	meta := fileMeta{SurveyType: internal.SurveyCustom}
	rows, err := parseResponses(strings.NewReader(csv), meta)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("len=%d", len(rows))
	}
	if rows[0].Q1Cleaned != "Geico" {
		t.Fatalf("Q1Cleaned = %q", rows[0].Q1Cleaned)
	}
	// Non-answer pieces drop out of the cleaned multi-brand column.
	if rows[0].Q2Cleaned != "State Farm, Progressive" {
		t.Fatalf("Q2Cleaned = %q", rows[0].Q2Cleaned)
	}
}

func TestParseResponsesRaggedRows(t *testing.T) {
	csv := `Age,Gender,Client Type,Recorded Timestamp,Session Weight,Q[1] Brands heard of?
25-34,Female,Prospect
`
	rows, err := parseResponses(strings.NewReader(csv), fileMeta{SurveyType: internal.SurveyBrandTracker})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Q1Answer != "" || rows[0].SessionWeight != 1.0 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestIndexColumnsLocatesQuestionsByPrefix(t *testing.T) {
	idx := indexColumns([]string{"Session Weight", "Q[2] Long question text?", "Age", "Q[1] Another?"})
	if idx.weight != 0 || idx.q2 != 1 || idx.age != 2 || idx.q1 != 3 {
		t.Fatalf("idx = %+v", idx)
	}
	if idx.q3 != -1 || idx.gender != -1 {
		t.Fatalf("missing columns should be -1: %+v", idx)
	}
}
