// Package address parses free-text Korean addresses into the three-level
// administrative hierarchy (시/도 → 시/군/구 → 동/읍/면/리) used by the
// ingestion pipeline. Parsing is pure pattern matching: no I/O, no store
// lookups, deterministic rule order.
package address

import (
	"regexp"
	"strings"
)

// Result holds the resolved hierarchy levels. Province is always set;
// District and Neighborhood may be empty when the input was incomplete.
type Result struct {
	Province     string `json:"province"`
	District     string `json:"district"`
	Neighborhood string `json:"neighborhood"`
}

// IsComplete reports whether at least one sub-province level was resolved.
// Downstream validation treats province-only results as unusable.
func (r *Result) IsComplete() bool {
	return r.District != "" || r.Neighborhood != ""
}

// FullAddress joins the resolved levels into a normalized address string.
func (r *Result) FullAddress() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Province, r.District, r.Neighborhood} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// provinceRenames maps deprecated 시/도 names to their current official
// names. Inputs using either form resolve to the canonical one.
var provinceRenames = map[string]string{
	"강원도":  "강원특별자치도", // renamed 2023-06
	"전라북도": "전북특별자치도", // renamed 2024-01
	"제주도":  "제주특별자치도",
}

// legacyProvinces is the reverse of provinceRenames, built once so that a
// canonical name can also be matched against a caller using the old form.
var legacyProvinces = func() map[string]string {
	m := make(map[string]string, len(provinceRenames))
	for legacy, canonical := range provinceRenames {
		m[canonical] = legacy
	}
	return m
}()

// CanonicalProvince returns the current official name for a 시/도,
// mapping deprecated names through the rename table.
func CanonicalProvince(name string) string {
	name = strings.TrimSpace(name)
	if canonical, ok := provinceRenames[name]; ok {
		return canonical
	}
	return name
}

// SameProvince compares two 시/도 names, treating a legacy name and its
// canonical replacement as equal in either direction.
func SameProvince(a, b string) bool {
	return CanonicalProvince(a) == CanonicalProvince(b)
}

var (
	// Longest suffixes first so 특별자치도 is not cut short at 도.
	provincePattern = regexp.MustCompile(`^\s*([가-힣]+(?:특별자치시|특별자치도|특별시|광역시|도))`)

	districtPattern = regexp.MustCompile(`([가-힣]+[시군구])`)

	// Fallback for metropolitan cities where only the 구 follows, possibly
	// glued to other tokens.
	guPattern = regexp.MustCompile(`([가-힣]+구)`)

	// 가-suffixed blocks count only in the numbered form (을지로5가); a
	// bare 가 ending marks commercial names like 상가, not a neighborhood.
	neighborhoodPattern = regexp.MustCompile(`([가-힣0-9a-zA-Z]+[동읍면리]|[가-힣]+\d+가)`)

	metropolitanSuffixes = []string{"특별시", "광역시", "특별자치시"}
)

// neighborhoodExclusions rejects building-internal unit labels that share
// the 동 suffix with real neighborhoods, e.g. "101동" or "A동".
var neighborhoodExclusions = []*regexp.Regexp{
	regexp.MustCompile(`^\d+동$`),
	regexp.MustCompile(`^[a-zA-Z]+\d*동$`),
	regexp.MustCompile(`(?:아파트|빌라|오피스텔|빌딩)\d*동$`),
}

// Parse resolves a raw address string into its administrative hierarchy.
// It returns nil when no 시/도 level can be resolved; a result with an
// empty District or Neighborhood means the input was incomplete, which the
// batch validator decides how to handle.
func Parse(raw string) *Result {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	loc := provincePattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return nil
	}
	province := raw[loc[2]:loc[3]]
	remainder := raw[loc[1]:]

	result := &Result{Province: CanonicalProvince(province)}

	district, rest := matchDistrict(province, remainder)
	result.District = district

	result.Neighborhood = matchNeighborhood(rest)

	return result
}

// matchDistrict finds the 시/군/구 level in the remainder and returns it
// together with the text following the match.
func matchDistrict(province, remainder string) (string, string) {
	if loc := districtPattern.FindStringSubmatchIndex(remainder); loc != nil {
		return remainder[loc[2]:loc[3]], remainder[loc[1]:]
	}

	// Metropolitan units carry their districts as bare 구 tokens; retry
	// with the looser pattern before giving up.
	if isMetropolitan(province) {
		if loc := guPattern.FindStringSubmatchIndex(remainder); loc != nil {
			return remainder[loc[2]:loc[3]], remainder[loc[1]:]
		}
	}

	return "", remainder
}

// matchNeighborhood scans candidates in order and returns the first one
// that is not a building-unit label.
func matchNeighborhood(remainder string) string {
	for _, candidate := range neighborhoodPattern.FindAllString(remainder, -1) {
		if isExcludedNeighborhood(candidate) {
			continue
		}
		return candidate
	}
	return ""
}

func isExcludedNeighborhood(candidate string) bool {
	for _, pattern := range neighborhoodExclusions {
		if pattern.MatchString(candidate) {
			return true
		}
	}
	return false
}

func isMetropolitan(province string) bool {
	for _, suffix := range metropolitanSuffixes {
		if strings.HasSuffix(province, suffix) {
			return true
		}
	}
	return false
}
