package internal

type SurveyType string

const (
	SurveyBrandTracker SurveyType = "BRAND_TRACKER"
	SurveyCustom       SurveyType = "CUSTOM"
)

// ResponseRow is one respondent's row as appended to a responses table.
// Brand tracker rows fill Q1–Q3 answers; custom survey rows fill Q1/Q2
// plus their cleaned forms.
type ResponseRow struct {
	Age               string
	Gender            string
	Geo               string
	ClientType        string
	RecordedTimestamp string
	SessionWeight     float64
	SurveyDate        string
	ProcessedDate     string
	Q1Answer          string
	Q2Answer          string
	Q3Answer          string
	Q1Cleaned         string
	Q2Cleaned         string
	StudyNumber       string
	GroupType         string
	GroupNumber       string
}

// AggregatedRow is one (dimension tuple, answer value) combination.
// WeightedResponse is always SessionWeight*CountResponse.
type AggregatedRow struct {
	Age              string
	Gender           string
	Geo              string
	ClientType       string
	SessionWeight    float64
	SurveyDates      string
	SurveyDate       string
	ProcessedDate    string
	StudyNumber      string
	Answer           string
	GroupType        string
	GroupNumber      string
	CountResponse    int
	WeightedResponse float64
}

// ProcessedFileRecord is a ledger entry asserting one source CSV has been
// folded into the warehouse. The filename is the membership key.
type ProcessedFileRecord struct {
	Filename        string
	SurveyType      SurveyType
	GroupType       string
	GroupNumber     string
	Q1ResponseCount int
	Q2ResponseCount int
	Q3ResponseCount int
	ProcessedAt     string
}

// ArchiveSummary is the outcome of processing one uploaded archive.
type ArchiveSummary struct {
	Status            string         `json:"status"`
	Reason            string         `json:"reason,omitempty"`
	SurveyType        SurveyType     `json:"survey_type,omitempty"`
	CSVFilesProcessed []string       `json:"csv_files_processed"`
	CSVFilesSkipped   []string       `json:"csv_files_skipped"`
	TablesUpdated     []string       `json:"tables_updated"`
	RecordsAdded      map[string]int `json:"records_added"`
}

const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusError   = "error"
)
