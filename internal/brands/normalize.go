// Package brands maps free-text survey answers about insurance brands to
// canonical labels. Thousands of misspellings, casings and partial names
// collapse onto a fixed set of brands; genuine non-answers are separated
// from novel responses that await manual mapping.
package brands

import (
	"strings"

	"brandpulse/internal/util"
)

type Kind int

const (
	KindBrand Kind = iota
	KindNoAnswer
	KindNonInsurance
	KindUnmapped
)

const (
	NoAnswerText     = "None/Unknown"
	NonInsuranceText = "Non-Insurance Response"
)

// Label is the result of normalizing one answer.
type Label struct {
	Kind  Kind
	Value string
}

func (l Label) String() string {
	switch l.Kind {
	case KindNoAnswer:
		return NoAnswerText
	case KindNonInsurance:
		return NonInsuranceText
	default:
		return l.Value
	}
}

func noAnswer() Label { return Label{Kind: KindNoAnswer} }

func brand(b string) Label { return Label{Kind: KindBrand, Value: b} }

// Normalize resolves a raw free-text answer to a canonical label.
// It is a pure function of the input and the static tables: same input,
// same output, always.
func Normalize(raw string) Label {
	normalized := util.NormalizeAnswer(raw)
	if normalized == "" {
		return noAnswer()
	}

	if _, ok := nonAnswers[normalized]; ok {
		return noAnswer()
	}

	for _, entry := range brandVariants {
		for _, variant := range entry.Variants {
			if strings.Contains(normalized, variant) {
				return brand(entry.Name)
			}
		}
	}

	if len(normalized) <= 5 {
		if b, ok := shortPrefixes[normalized]; ok {
			return brand(b)
		}
	}

	for _, pattern := range nonInsurance {
		if strings.Contains(normalized, pattern) {
			return Label{Kind: KindNonInsurance}
		}
	}

	return Label{Kind: KindUnmapped, Value: util.TitleCase(normalized)}
}

// listSeparators are the ways respondents delimit multiple brands in one
// answer. Replacement order mirrors how often each shows up.
var listSeparators = []string{",", ".", ";", " and ", "&", " + "}

// SplitMulti splits a multi-brand answer into individual canonical labels,
// preserving mention order. Pieces that resolve to a non-answer are dropped;
// an answer with no usable mention yields a single NoAnswer label, never an
// empty slice.
func SplitMulti(raw string) []Label {
	text := strings.TrimSpace(raw)
	if text == "" {
		return []Label{noAnswer()}
	}

	for _, sep := range listSeparators {
		text = strings.ReplaceAll(text, sep, "|")
	}

	var labels []Label
	for _, piece := range strings.Split(text, "|") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		label := Normalize(piece)
		if label.Kind == KindNoAnswer {
			continue
		}
		labels = append(labels, label)
	}

	if len(labels) == 0 {
		return []Label{noAnswer()}
	}
	return labels
}

// JoinMulti renders the labels of a multi-brand answer as the
// comma-delimited string stored in the cleaned response column.
func JoinMulti(labels []Label) string {
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, l.String())
	}
	return strings.Join(parts, ", ")
}
