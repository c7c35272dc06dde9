// Package geo resolves the geography, study id and survey date that are
// embedded in survey archive and CSV filenames.
package geo

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

const (
	UnknownDMA   = "Unknown DMA"
	UnknownGroup = "UNKNOWN"
	UnknownDate  = "Unknown"
)

type dmaEntry struct {
	DMA         string
	GroupType   string
	GroupNumber string
}

// dmaTable keys the test/control split for every designated market area in
// the study. Entries come from the dma-type-num master sheet.
var dmaTable = []dmaEntry{
	{"Austin, TX", "TEST", "1"},
	{"Phoenix et al, AZ", "TEST", "1"},
	{"Denver, CO", "TEST", "1"},
	{"Portland, OR", "TEST", "1"},
	{"San Antonio, TX", "TEST", "1"},
	{"Nashville, TN", "CONTROL", "1"},
	{"Cleveland et al, OH", "CONTROL", "1"},
	{"Waco-Temple-Bryan, TX", "CONTROL", "1"},
	{"Cincinnati, OH", "CONTROL", "both"},
	{"Tucson(Sierra Vista), AZ", "CONTROL", "1"},
	{"Colorado Sprgs et al, CO", "CONTROL", "1"},
	{"Knoxville, TN", "CONTROL", "1"},
	{"Memphis, TN", "CONTROL", "1"},
	{"Eugene, OR", "CONTROL", "1"},
	{"El Paso et al, TX-NM", "CONTROL", "1"},
	{"Spokane, WA", "CONTROL", "1"},
	{"Tyler-Longview et al, TX", "CONTROL", "1"},
	{"Dayton, OH", "CONTROL", "1"},
	{"Lubbock, TX", "CONTROL", "1"},
	{"Chattanooga, TN", "CONTROL", "1"},
	{"Toledo, OH", "CONTROL", "1"},
	{"Yakima et al, WA", "CONTROL", "both"},
	{"Tri-Cities, TN-VA", "CONTROL", "1"},
	{"Rockford, IL", "CONTROL", "1"},
	{"Youngstown, OH", "CONTROL", "both"},
	{"Amarillo, TX", "CONTROL", "both"},
	{"Beaumont-Port Arthur, TX", "CONTROL", "1"},
	{"Abilene-Sweetwater, TX", "CONTROL", "1"},
	{"Sherman-Ada, TX-OK", "CONTROL", "1"},
	{"Wichita Fls et al, TX-OK", "CONTROL", "1"},
	{"San Angelo, TX", "CONTROL", "both"},
	{"Corpus Christi, TX", "CONTROL", "1"},
	{"Grand Junction et al, CO", "CONTROL", "both"},
	{"Laredo, TX", "CONTROL", "1"},
	{"Yuma-El Centro, AZ-CA", "CONTROL", "both"},
	{"Jackson, TN", "CONTROL", "1"},
	{"Victoria, TX", "CONTROL", "1"},
	{"Wheeling et al, WV-OH", "CONTROL", "1"},
	{"Lima, OH", "CONTROL", "1"},
	{"Zanesville, OH", "CONTROL", "both"},
	{"Chicago, IL", "TEST", "2"},
	{"Champaign et al, IL", "CONTROL", "2"},
	{"Peoria-Bloomington, IL", "CONTROL", "2"},
	{"Davenport et al, IA-IL", "CONTROL", "2"},
	{"Minot et al, ND", "CONTROL", "2"},
}

// manualOverrides handles archive names that were truncated or otherwise
// mangled upstream and cannot be pattern-matched.
var manualOverrides = map[string]string{
	"[Lemonade] MMM _ Brand Tracker - Colorado Springs,.zip": "Colorado Sprgs et al, CO",
	"[Lemonade] MMM _ Brand Tracker - Corpus Christi, T.zip": "Corpus Christi, TX",
	"[Lemonade] MMM _ Brand Tracker - Grand Junction, C.zip": "Grand Junction et al, CO",
	"[Lemonade] MMM _ Brand Tracker - Tucson(Sierra Vis.zip": "Tucson(Sierra Vista), AZ",
	"[Lemonade] MMM _ Brand Tracker - Wichita Falls, TX.zip": "Wichita Fls et al, TX-OK",
	"[Lemonade] MMM - Colorado Springs, CO (Control).zip":    "Colorado Sprgs et al, CO",
	"[Lemonade] MMM - Wichita Falls, TX-OK (Control).zip":    "Wichita Fls et al, TX-OK",
}

var cityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Za-z\s\-()]+),\s*([A-Z]{2}(?:-[A-Z]{2})?)`),
	regexp.MustCompile(`([A-Za-z\s\-()]+),\s*([A-Z]{2})`),
	regexp.MustCompile(`- ([A-Za-z\s\-()]+), ([A-Z]{2})`),
	regexp.MustCompile(`- ([A-Za-z\s\-()]+)-([A-Za-z\s]+)`),
}

// truncationFixes repairs city tokens cut mid-word by filename limits.
var truncationFixes = []struct{ old, fixed string }{
	{"wate", "water"},
	{" art", " arthur"},
	{"contr", "control"},
	{"sweetwate", "sweetwater"},
}

var surveyDatePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})T`)

var studyIDPattern = regexp.MustCompile(`\[Study\s+(\d+)\]`)

// Resolution carries the geography classification derived from an archive
// filename.
type Resolution struct {
	DMA         string
	GroupType   string
	GroupNumber string
}

// ResolveGeo derives the designated market area and its test/control group
// from an archive filename. An unresolvable name degrades to the Unknown
// placeholder so the archive is still processed.
func ResolveGeo(filename string) Resolution {
	if dma, ok := manualOverrides[filename]; ok {
		return lookupDMA(dma)
	}

	for _, pattern := range cityPatterns {
		match := pattern.FindStringSubmatch(filename)
		if match == nil {
			continue
		}

		city := strings.ToLower(strings.TrimSpace(match[1]))
		for _, fix := range truncationFixes {
			if strings.HasSuffix(city, fix.old) {
				city = strings.Replace(city, fix.old, fix.fixed, 1)
			}
		}

		if dma := matchCity(city); dma != "" {
			return lookupDMA(dma)
		}
	}

	return Resolution{DMA: UnknownDMA, GroupType: UnknownGroup, GroupNumber: UnknownGroup}
}

// matchCity fuzzy-matches an extracted city token against the DMA table:
// exact, substring in either direction, then hyphen-token overlap.
func matchCity(city string) string {
	for _, entry := range dmaTable {
		idx := strings.Index(entry.DMA, ",")
		if idx < 0 {
			continue
		}
		dmaCity := strings.ToLower(strings.TrimSpace(entry.DMA[:idx]))

		if city == dmaCity || strings.Contains(dmaCity, city) || strings.Contains(city, dmaCity) {
			return entry.DMA
		}
		for _, word := range strings.Split(city, "-") {
			if len(word) > 3 && strings.Contains(dmaCity, word) {
				return entry.DMA
			}
		}
	}
	return ""
}

func lookupDMA(dma string) Resolution {
	for _, entry := range dmaTable {
		if entry.DMA == dma {
			return Resolution{DMA: entry.DMA, GroupType: entry.GroupType, GroupNumber: entry.GroupNumber}
		}
	}
	return Resolution{DMA: dma, GroupType: UnknownGroup, GroupNumber: UnknownGroup}
}

// ResolveSurveyDate extracts the YYYY-MM-DD token preceding the literal T
// of an embedded timestamp. Absence is not an error.
func ResolveSurveyDate(filename string) string {
	if match := surveyDatePattern.FindStringSubmatch(filename); match != nil {
		return match[1]
	}
	return UnknownDate
}

// ResolveStudyID extracts the bracketed study number from a CSV filename.
// Without one it falls back to hashing the filename into a bounded numeric
// range; collisions are a known, accepted limitation of that fallback.
func ResolveStudyID(csvName string) string {
	if match := studyIDPattern.FindStringSubmatch(csvName); match != nil {
		return "id_" + match[1]
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(csvName))
	return fmt.Sprintf("id_%d", h.Sum64()%10000000000000000)
}
