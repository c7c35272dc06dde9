package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"brandpulse/internal"
)

func TestWriteSummaryWorkbook(t *testing.T) {
	tables := map[string][]internal.AggregatedRow{
		TableAwareness: {
			{Age: "25-34", Geo: "Laredo, TX", SessionWeight: 1.5, Answer: "Geico", CountResponse: 2, WeightedResponse: 3.0},
		},
		TableIntent: {
			{Age: "25-34", Geo: "Laredo, TX", SessionWeight: 1.5, Answer: "Geico", CountResponse: 1, WeightedResponse: 1.5},
		},
	}

	out := filepath.Join(t.TempDir(), "out", "summary.xlsx")
	if err := WriteSummaryWorkbook(tables, out); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("sheets = %v", sheets)
	}
	for _, name := range []string{TableAwareness, TableIntent} {
		rows, err := f.GetRows(name)
		if err != nil {
			t.Fatalf("sheet %s: %v", name, err)
		}
		if len(rows) != 2 {
			t.Fatalf("sheet %s rows = %d", name, len(rows))
		}
		if rows[0][9] != "answer" {
			t.Fatalf("sheet %s header = %v", name, rows[0])
		}
		if rows[1][9] != "Geico" {
			t.Fatalf("sheet %s data = %v", name, rows[1])
		}
	}
}
