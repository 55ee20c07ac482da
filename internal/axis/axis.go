// Package axis defines the seven personality measurement axes and the
// score aggregation used across the app. Each answered question contributes
// a 1-5 value to exactly one axis; per-axis averages place the user on a
// spectrum between the axis's two end labels.
package axis

// Code identifies one of the seven measurement axes.
type Code string

const (
	Energy       Code = "energy"
	Lifestyle    Code = "lifestyle"
	Emotion      Code = "emotion"
	Aesthetic    Code = "aesthetic"
	Social       Code = "social"
	Challenge    Code = "challenge"
	Relationship Code = "relationship"
)

// AllCodes lists every axis in display order.
var AllCodes = []Code{
	Energy,
	Lifestyle,
	Emotion,
	Aesthetic,
	Social,
	Challenge,
	Relationship,
}

// Metadata describes how an axis is presented.
type Metadata struct {
	Name        string `json:"name"`
	LowEnd      string `json:"low_end"`
	HighEnd     string `json:"high_end"`
	Description string `json:"description"`
}

var metadata = map[Code]Metadata{
	Energy:       {Name: "Energy Direction", LowEnd: "Introvert", HighEnd: "Extrovert", Description: "How you recharge"},
	Lifestyle:    {Name: "Life Pattern", LowEnd: "Routine", HighEnd: "Spontaneous", Description: "How you run your days"},
	Emotion:      {Name: "Emotional Style", LowEnd: "Rational", HighEnd: "Emotional", Description: "How you make decisions"},
	Aesthetic:    {Name: "Aesthetic Taste", LowEnd: "Minimal", HighEnd: "Maximal", Description: "The style you gravitate to"},
	Social:       {Name: "Social Tendency", LowEnd: "Solo", HighEnd: "Collaborative", Description: "How you like to work and play"},
	Challenge:    {Name: "Challenge Attitude", LowEnd: "Stability", HighEnd: "Adventure", Description: "How you meet change"},
	Relationship: {Name: "Relationship Style", LowEnd: "Deep & few", HighEnd: "Wide & many", Description: "How you keep people close"},
}

// MetadataFor returns the display metadata for a code. Unknown codes return
// a zero Metadata and false.
func MetadataFor(code Code) (Metadata, bool) {
	m, ok := metadata[code]
	return m, ok
}

// Valid reports whether code is one of the seven defined axes.
func Valid(code Code) bool {
	_, ok := metadata[code]
	return ok
}
