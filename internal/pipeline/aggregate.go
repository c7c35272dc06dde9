package pipeline

import (
	"sort"
	"strings"

	"brandpulse/internal"
	"brandpulse/internal/brands"
)

// Aggregate table names, per survey type.
const (
	TableAwareness     = "awareness"
	TableConsideration = "consideration"
	TableIntent        = "intent"
	TableTopOfMind     = "top_of_mind"
	TableKnowledge     = "knowledge"
)

// questionSpec describes how one logical question becomes one aggregate
// table: which answer column feeds it, whether that column is multi-valued
// and on what delimiter, and whether values still need canonicalization.
type questionSpec struct {
	table        string
	answer       func(internal.ResponseRow) string
	explodeDelim string
	canonicalize bool
}

var brandQuestions = []questionSpec{
	{TableAwareness, func(r internal.ResponseRow) string { return r.Q1Answer }, ";", true},
	{TableConsideration, func(r internal.ResponseRow) string { return r.Q2Answer }, ";", true},
	{TableIntent, func(r internal.ResponseRow) string { return r.Q3Answer }, "", true},
}

var customQuestions = []questionSpec{
	{TableTopOfMind, func(r internal.ResponseRow) string { return r.Q1Cleaned }, "", false},
	{TableKnowledge, func(r internal.ResponseRow) string { return r.Q2Cleaned }, ",", false},
}

// BuildQuestionTables turns one file's response rows into its per-question
// aggregate tables. Questions with zero qualifying rows are omitted from
// the result entirely.
func BuildQuestionTables(surveyType internal.SurveyType, rows []internal.ResponseRow) map[string][]internal.AggregatedRow {
	specs := brandQuestions
	if surveyType == internal.SurveyCustom {
		specs = customQuestions
	}

	tables := map[string][]internal.AggregatedRow{}
	for _, spec := range specs {
		if aggregated := aggregateQuestion(rows, spec); len(aggregated) > 0 {
			tables[spec.table] = aggregated
		}
	}
	return tables
}

// groupKey is the fixed dimension tuple plus the single answer value.
// Session weight is part of the key, so it is constant within a group and
// the weighted response is exactly weight*count.
type groupKey struct {
	age, gender, geo, clientType             string
	sessionWeight                            float64
	surveyDates, surveyDate, processedDate   string
	studyNumber, answer, groupType, groupNum string
}

func aggregateQuestion(rows []internal.ResponseRow, spec questionSpec) []internal.AggregatedRow {
	counts := map[groupKey]int{}
	order := make([]groupKey, 0)

	for _, row := range rows {
		raw := spec.answer(row)
		if raw == "" {
			continue
		}

		// Explode before grouping, never after: each individual value
		// must contribute its own count.
		values := []string{raw}
		if spec.explodeDelim != "" {
			values = strings.Split(raw, spec.explodeDelim)
		}

		for _, value := range values {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			if spec.canonicalize {
				value = brands.Normalize(value).String()
			}

			key := groupKey{
				age:           row.Age,
				gender:        row.Gender,
				geo:           row.Geo,
				clientType:    row.ClientType,
				sessionWeight: row.SessionWeight,
				surveyDates:   row.SurveyDate,
				surveyDate:    row.SurveyDate,
				processedDate: row.ProcessedDate,
				studyNumber:   row.StudyNumber,
				answer:        value,
				groupType:     row.GroupType,
				groupNum:      row.GroupNumber,
			}
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	out := make([]internal.AggregatedRow, 0, len(counts))
	for _, key := range order {
		count := counts[key]
		out = append(out, internal.AggregatedRow{
			Age:              key.age,
			Gender:           key.gender,
			Geo:              key.geo,
			ClientType:       key.clientType,
			SessionWeight:    key.sessionWeight,
			SurveyDates:      key.surveyDates,
			SurveyDate:       key.surveyDate,
			ProcessedDate:    key.processedDate,
			StudyNumber:      key.studyNumber,
			Answer:           key.answer,
			GroupType:        key.groupType,
			GroupNumber:      key.groupNum,
			CountResponse:    count,
			WeightedResponse: key.sessionWeight * float64(count),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Answer < out[j].Answer })
	return out
}
