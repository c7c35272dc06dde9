package geo

import (
	"strings"
	"testing"
)

func TestResolveGeoKnownArchives(t *testing.T) {
	cases := []struct {
		filename  string
		dma       string
		groupType string
		groupNum  string
	}{
		{"[Lemonade] MMM _ Brand Tracker - Laredo, TX.zip", "Laredo, TX", "CONTROL", "1"},
		{"[Lemonade] MMM _ Brand Tracker - Austin, TX.zip", "Austin, TX", "TEST", "1"},
		{"[Lemonade] MMM _ Brand Tracker - Chicago, IL.zip", "Chicago, IL", "TEST", "2"},
		{"[Lemonade] MMM _ Brand Tracker - Cincinnati, OH.zip", "Cincinnati, OH", "CONTROL", "both"},
		{"[Lemonade] MMM - Nashville, TN (Control).zip", "Nashville, TN", "CONTROL", "1"},
	}
	for _, tc := range cases {
		got := ResolveGeo(tc.filename)
		if got.DMA != tc.dma || got.GroupType != tc.groupType || got.GroupNumber != tc.groupNum {
			t.Fatalf("ResolveGeo(%q) = %+v, want %s/%s/%s", tc.filename, got, tc.dma, tc.groupType, tc.groupNum)
		}
	}
}

func TestResolveGeoManualOverrides(t *testing.T) {
	got := ResolveGeo("[Lemonade] MMM _ Brand Tracker - Colorado Springs,.zip")
	if got.DMA != "Colorado Sprgs et al, CO" || got.GroupType != "CONTROL" {
		t.Fatalf("override not applied: %+v", got)
	}

	got = ResolveGeo("[Lemonade] MMM _ Brand Tracker - Wichita Falls, TX.zip")
	if got.DMA != "Wichita Fls et al, TX-OK" {
		t.Fatalf("override not applied: %+v", got)
	}
}

func TestResolveGeoTruncatedCity(t *testing.T) {
	got := ResolveGeo("[Lemonade] MMM _ Brand Tracker - Abilene-Sweetwate, TX.zip")
	if got.DMA != "Abilene-Sweetwater, TX" {
		t.Fatalf("truncated city not repaired: %+v", got)
	}
}

func TestResolveGeoUnknown(t *testing.T) {
	got := ResolveGeo("random-name.zip")
	if got.DMA != UnknownDMA || got.GroupType != UnknownGroup || got.GroupNumber != UnknownGroup {
		t.Fatalf("got %+v, want unknown placeholders", got)
	}
}

func TestResolveSurveyDate(t *testing.T) {
	name := "Brand Tracker - Laredo, TX 2025-03-14T090000.zip"
	if got := ResolveSurveyDate(name); got != "2025-03-14" {
		t.Fatalf("ResolveSurveyDate = %q", got)
	}
	if got := ResolveSurveyDate("no-timestamp.zip"); got != UnknownDate {
		t.Fatalf("ResolveSurveyDate = %q, want %q", got, UnknownDate)
	}
}

func TestResolveStudyID(t *testing.T) {
	if got := ResolveStudyID("[Study 4821] responses.csv"); got != "id_4821" {
		t.Fatalf("ResolveStudyID = %q", got)
	}

	// Fallback hashes are stable and stay inside the id_ namespace.
	a := ResolveStudyID("responses-week-12.csv")
	b := ResolveStudyID("responses-week-12.csv")
	c := ResolveStudyID("responses-week-13.csv")
	if a != b {
		t.Fatalf("fallback not stable: %q vs %q", a, b)
	}
	if a == c {
		t.Fatalf("distinct names hashed to the same id: %q", a)
	}
	if !strings.HasPrefix(a, "id_") {
		t.Fatalf("fallback id %q missing prefix", a)
	}
}
