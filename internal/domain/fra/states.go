package fra

import (
	"regexp"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// State catalogue
// ─────────────────────────────────────────────────────────────────────────────

// StateInfo describes one state or union territory that may report FRA data.
type StateInfo struct {
	Name string `json:"name"`
	Slug string `json:"slug"`

	// Lat, Lng and Color are set only for states drawn on the dashboard map.
	Lat   float64 `json:"lat,omitempty"`
	Lng   float64 `json:"lng,omitempty"`
	Color string  `json:"color,omitempty"`
}

// Mappable reports whether the state has a map position.
func (s StateInfo) Mappable() bool {
	return s.Color != ""
}

// IndiaCenter is the default map centre as (lat, lng).
var IndiaCenter = [2]float64{20.5937, 78.9629}

// Marker radius bounds in pixels.
const (
	MinMarkerRadius = 8
	MaxMarkerRadius = 35
)

type mapPosition struct {
	lat, lng float64
	color    string
}

var mapPositions = map[string]mapPosition{
	"chhattisgarh":     {21.2787, 81.8661, "#3b82f6"},
	"odisha":           {20.9517, 85.0985, "#10b981"},
	"telangana":        {18.1124, 79.0193, "#f59e0b"},
	"madhya-pradesh":   {22.9734, 78.6569, "#8b5cf6"},
	"jharkhand":        {23.6102, 85.2799, "#ef4444"},
	"andhra-pradesh":   {15.9129, 79.74, "#06b6d4"},
	"karnataka":        {15.3173, 75.7139, "#84cc16"},
	"maharashtra":      {19.7515, 75.7139, "#f97316"},
	"west-bengal":      {22.9868, 87.855, "#ec4899"},
	"rajasthan":        {27.0238, 74.2179, "#6366f1"},
	"assam":            {26.2006, 92.9376, "#14b8a6"},
	"bihar":            {25.0961, 85.3131, "#f43f5e"},
	"goa":              {15.2993, 74.124, "#a855f7"},
	"gujarat":          {23.0225, 72.5714, "#22c55e"},
	"himachal-pradesh": {31.1048, 77.1734, "#0ea5e9"},
	"kerala":           {10.8505, 76.2711, "#65a30d"},
	"tamil-nadu":       {11.1271, 78.6569, "#dc2626"},
	"tripura":          {23.9408, 91.9882, "#7c3aed"},
	"uttar-pradesh":    {26.8467, 80.9462, "#059669"},
	"uttarakhand":      {30.0668, 79.0193, "#7c2d12"},
	"jammu-kashmir":    {33.7782, 76.5762, "#be185d"},
}

var stateNames = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand",
	"Karnataka", "Kerala", "Madhya Pradesh", "Maharashtra", "Manipur",
	"Meghalaya", "Mizoram", "Nagaland", "Odisha", "Punjab",
	"Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura",
	"Uttar Pradesh", "Uttarakhand", "West Bengal", "Jammu & Kashmir", "Ladakh",
}

var (
	catalogue      []StateInfo
	catalogueByKey map[string]int
)

var reNonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

func init() {
	catalogue = make([]StateInfo, 0, len(stateNames))
	catalogueByKey = make(map[string]int, len(stateNames))
	for _, name := range stateNames {
		key := lookupKey(name)
		info := StateInfo{Name: name, Slug: key}
		if pos, ok := mapPositions[key]; ok {
			info.Lat, info.Lng, info.Color = pos.lat, pos.lng, pos.color
		}
		catalogueByKey[key] = len(catalogue)
		catalogue = append(catalogue, info)
	}
}

// lookupKey folds punctuation so "Jammu & Kashmir", "jammu-kashmir" and
// "JAMMU  AND KASHMIR" style variants share one key where possible.
func lookupKey(s string) string {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.ReplaceAll(k, " and ", " ")
	return strings.Trim(reNonAlnumRun.ReplaceAllString(k, "-"), "-")
}

// IndianStates returns the state catalogue in its canonical order.
func IndianStates() []StateInfo {
	out := make([]StateInfo, len(catalogue))
	copy(out, catalogue)
	return out
}

// LookupState finds a catalogue entry by name or slug.
func LookupState(nameOrSlug string) (StateInfo, bool) {
	i, ok := catalogueByKey[lookupKey(nameOrSlug)]
	if !ok {
		return StateInfo{}, false
	}
	return catalogue[i], true
}

// CanonicalStateName returns the catalogue spelling for a known state, or the
// trimmed input when the state is not in the catalogue.
func CanonicalStateName(name string) string {
	if info, ok := LookupState(name); ok {
		return info.Name
	}
	return strings.TrimSpace(name)
}

// ─────────────────────────────────────────────────────────────────────────────
// Map markers
// ─────────────────────────────────────────────────────────────────────────────

// MapMarker is one state's bubble on the dashboard map.
type MapMarker struct {
	State  string  `json:"state"`
	Slug   string  `json:"slug"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Color  string  `json:"color"`
	Claims int64   `json:"claims"`
	Titles int64   `json:"titles"`
	Radius float64 `json:"radius"`
}

// MapData builds one marker per mappable state present in records.  Radius
// scales linearly with total claims between MinMarkerRadius and
// MaxMarkerRadius; states without a map position are skipped.
func MapData(records []Record) []MapMarker {
	groups := GroupByState(records, TotalPair)
	var maxClaims int64
	for _, g := range groups {
		if g.Claims > maxClaims {
			maxClaims = g.Claims
		}
	}

	markers := make([]MapMarker, 0, len(groups))
	for _, g := range groups {
		info, ok := LookupState(g.State)
		if !ok || !info.Mappable() {
			continue
		}
		radius := float64(MinMarkerRadius)
		if maxClaims > 0 {
			radius += float64(g.Claims) / float64(maxClaims) * (MaxMarkerRadius - MinMarkerRadius)
		}
		markers = append(markers, MapMarker{
			State:  g.State,
			Slug:   info.Slug,
			Lat:    info.Lat,
			Lng:    info.Lng,
			Color:  info.Color,
			Claims: g.Claims,
			Titles: g.Titles,
			Radius: radius,
		})
	}
	return markers
}

//Personal.AI order the ending
