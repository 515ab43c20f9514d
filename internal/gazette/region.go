package gazette

import (
	"strings"
	"unicode"
)

// defaultRegions is the reference list the heuristic matches against: Spanish
// provinces and autonomous communities as they appear in announcement titles.
// Coverage grows by extending this data (or the regions config key), not by
// adding code.
var defaultRegions = []string{
	"Álava", "Albacete", "Alicante", "Almería", "Asturias", "Ávila",
	"Badajoz", "Baleares", "Barcelona", "Burgos", "Cáceres", "Cádiz",
	"Cantabria", "Castellón", "Ciudad Real", "Córdoba", "Cuenca", "Girona",
	"Granada", "Guadalajara", "Gipuzkoa", "Huelva", "Huesca", "Jaén",
	"La Coruña", "La Rioja", "Las Palmas", "León", "Lleida", "Lugo",
	"Madrid", "Málaga", "Murcia", "Navarra", "Ourense", "Palencia",
	"Pontevedra", "Salamanca", "Segovia", "Sevilla", "Soria", "Tarragona",
	"Tenerife", "Teruel", "Toledo", "Valencia", "Valladolid", "Bizkaia",
	"Zamora", "Zaragoza", "Ceuta", "Melilla", "Andalucía", "Aragón",
	"Canarias", "Castilla-La Mancha", "Castilla y León", "Cataluña",
	"Extremadura", "Galicia", "País Vasco",
}

// RegionMatcher derives a region name from announcement free text. It is a
// best-effort heuristic: misses and false positives are tolerated and must
// never abort ingestion.
type RegionMatcher struct {
	// regions holds each reference name pre-split into lowercase tokens.
	regions [][]string
	names   []string
}

// NewRegionMatcher builds a matcher over the given reference list. An empty
// list falls back to the built-in one.
func NewRegionMatcher(names []string) *RegionMatcher {
	if len(names) == 0 {
		names = defaultRegions
	}
	m := &RegionMatcher{
		regions: make([][]string, 0, len(names)),
		names:   make([]string, 0, len(names)),
	}
	for _, name := range names {
		toks := tokenize(strings.ToLower(name))
		if len(toks) == 0 {
			continue
		}
		m.regions = append(m.regions, toks)
		m.names = append(m.names, name)
	}
	return m
}

// Match runs the heuristic over title first, then control if the title yields
// nothing. The empty string means no region could be derived.
func (m *RegionMatcher) Match(title, control string) string {
	for _, text := range []string{title, control} {
		if text == "" {
			continue
		}
		if region := m.matchList(text); region != "" {
			return region
		}
		if region := matchUppercaseToken(text); region != "" {
			return region
		}
	}
	return ""
}

// matchList looks for any reference name as a whole-word, case-insensitive
// token sequence within text.
func (m *RegionMatcher) matchList(text string) string {
	toks := tokenize(strings.ToLower(text))
	for i, region := range m.regions {
		if containsSequence(toks, region) {
			return m.names[i]
		}
	}
	return ""
}

// matchUppercaseToken is the fallback rule: the first all-uppercase token of
// 4 to 15 letters (accented characters included), returned with only its
// first letter capitalized.
func matchUppercaseToken(text string) string {
	for _, tok := range tokenize(text) {
		runes := []rune(tok)
		if len(runes) < 4 || len(runes) > 15 {
			continue
		}
		upper := true
		for _, r := range runes {
			if !unicode.IsUpper(r) {
				upper = false
				break
			}
		}
		if !upper {
			continue
		}
		for i := 1; i < len(runes); i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
		return string(runes)
	}
	return ""
}

// tokenize splits text into maximal letter runs. Word boundaries defined this
// way survive accented characters, unlike \b in an ASCII regexp.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func containsSequence(haystack, needle []string) bool {
	if len(needle) == 0 || len(haystack) < len(needle) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
