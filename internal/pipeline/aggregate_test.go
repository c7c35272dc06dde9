package pipeline

import (
	"testing"

	"brandpulse/internal"
)

func brandRow(q1, q2, q3 string, weight float64) internal.ResponseRow {
	return internal.ResponseRow{
		Age:           "25-34",
		Gender:        "Female",
		Geo:           "Laredo, TX",
		ClientType:    "Prospect",
		SessionWeight: weight,
		SurveyDate:    "2025-03-14",
		ProcessedDate: "2025-03-15",
		StudyNumber:   "id_4821",
		GroupType:     "CONTROL",
		GroupNumber:   "1",
		Q1Answer:      q1,
		Q2Answer:      q2,
		Q3Answer:      q3,
	}
}

func findAnswer(rows []internal.AggregatedRow, answer string) *internal.AggregatedRow {
	for i := range rows {
		if rows[i].Answer == answer {
			return &rows[i]
		}
	}
	return nil
}

func TestBuildQuestionTablesBrandTracker(t *testing.T) {
	rows := []internal.ResponseRow{
		brandRow("gieco;state farm", "geico", "geico", 1.5),
		brandRow("geico", "", "", 1.5),
	}

	tables := BuildQuestionTables(internal.SurveyBrandTracker, rows)

	awareness := tables[TableAwareness]
	if awareness == nil {
		t.Fatal("awareness table missing")
	}
	geico := findAnswer(awareness, "Geico")
	if geico == nil {
		t.Fatalf("no Geico row in awareness: %+v", awareness)
	}
	// Both respondents mentioned Geico, one as a misspelling inside a
	// multi-value answer.
	if geico.CountResponse != 2 {
		t.Fatalf("Geico count = %d, want 2", geico.CountResponse)
	}
	if geico.WeightedResponse != 1.5*2 {
		t.Fatalf("Geico weighted = %v, want %v", geico.WeightedResponse, 1.5*2)
	}
	if sf := findAnswer(awareness, "State Farm"); sf == nil || sf.CountResponse != 1 {
		t.Fatalf("State Farm row wrong: %+v", sf)
	}

	if consideration := tables[TableConsideration]; len(consideration) != 1 {
		t.Fatalf("consideration = %+v", consideration)
	}
	if intent := tables[TableIntent]; len(intent) != 1 {
		t.Fatalf("intent = %+v", intent)
	}
}

func TestBuildQuestionTablesOmitsEmptyQuestions(t *testing.T) {
	rows := []internal.ResponseRow{brandRow("geico", "", "", 1.0)}
	tables := BuildQuestionTables(internal.SurveyBrandTracker, rows)

	if _, ok := tables[TableConsideration]; ok {
		t.Fatal("consideration present despite no answers")
	}
	if _, ok := tables[TableIntent]; ok {
		t.Fatal("intent present despite no answers")
	}
	if _, ok := tables[TableAwareness]; !ok {
		t.Fatal("awareness missing")
	}
}

func TestBuildQuestionTablesCustom(t *testing.T) {
	row := internal.ResponseRow{
		Age:           "35-44",
		Gender:        "Male",
		Geo:           "Chicago, IL",
		ClientType:    "Client",
		SessionWeight: 2.0,
		SurveyDate:    "2025-04-01",
		ProcessedDate: "2025-04-02",
		StudyNumber:   "id_9",
		GroupType:     "TEST",
		GroupNumber:   "2",
		Q1Cleaned:     "Lemonade",
		Q2Cleaned:     "Geico, Progressive",
	}

	tables := BuildQuestionTables(internal.SurveyCustom, []internal.ResponseRow{row})

	topOfMind := tables[TableTopOfMind]
	if len(topOfMind) != 1 || topOfMind[0].Answer != "Lemonade" {
		t.Fatalf("top_of_mind = %+v", topOfMind)
	}

	// The cleaned multi-brand column explodes into one row per brand.
	knowledge := tables[TableKnowledge]
	if len(knowledge) != 2 {
		t.Fatalf("knowledge = %+v", knowledge)
	}
	for _, answer := range []string{"Geico", "Progressive"} {
		got := findAnswer(knowledge, answer)
		if got == nil || got.CountResponse != 1 || got.WeightedResponse != 2.0 {
			t.Fatalf("knowledge row for %s wrong: %+v", answer, got)
		}
	}
}

func TestAggregateWeightedInvariant(t *testing.T) {
	rows := []internal.ResponseRow{
		brandRow("allstate", "", "", 0.75),
		brandRow("allstate", "", "", 0.75),
		brandRow("allstate", "", "", 0.75),
	}
	tables := BuildQuestionTables(internal.SurveyBrandTracker, rows)
	for table, aggregated := range tables {
		for _, row := range aggregated {
			want := row.SessionWeight * float64(row.CountResponse)
			if row.WeightedResponse != want {
				t.Fatalf("%s: weighted=%v, want weight*count=%v", table, row.WeightedResponse, want)
			}
		}
	}
}

func TestAggregateSplitsBySessionWeight(t *testing.T) {
	rows := []internal.ResponseRow{
		brandRow("geico", "", "", 1.0),
		brandRow("geico", "", "", 2.0),
	}
	awareness := BuildQuestionTables(internal.SurveyBrandTracker, rows)[TableAwareness]
	// Differing weights are distinct groups even with identical answers.
	if len(awareness) != 2 {
		t.Fatalf("awareness = %+v", awareness)
	}
	for _, row := range awareness {
		if row.CountResponse != 1 || row.WeightedResponse != row.SessionWeight {
			t.Fatalf("unexpected row %+v", row)
		}
	}
}

func TestAggregateDeterministic(t *testing.T) {
	rows := []internal.ResponseRow{
		brandRow("zebra;geico;allstate", "", "", 1.0),
		brandRow("allstate", "", "", 1.0),
	}
	first := BuildQuestionTables(internal.SurveyBrandTracker, rows)[TableAwareness]
	for i := 0; i < 5; i++ {
		again := BuildQuestionTables(internal.SurveyBrandTracker, rows)[TableAwareness]
		if len(again) != len(first) {
			t.Fatalf("run %d: %d rows vs %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("run %d row %d differs: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}
