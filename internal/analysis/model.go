package analysis

// Material is one line item in a project's required-materials list.
// EstimatedCost carries the numeric value for storage and totals; Cost is
// the currency-prefixed display text derived from it when the model only
// returned a bare number.
type Material struct {
	Item               string   `json:"item"`
	Category           string   `json:"category,omitempty"`
	Quantity           string   `json:"quantity"`
	Cost               string   `json:"cost"`
	EstimatedCost      float64  `json:"estimatedCost"`
	Specifications     string   `json:"specifications,omitempty"`
	RecommendedBrands  []string `json:"recommendedBrands,omitempty"`
	AlternativeOptions []string `json:"alternativeOptions,omitempty"`
	WhereToBuy         []string `json:"whereToBuy,omitempty"`
	UsageInstructions  string   `json:"usageInstructions,omitempty"`
	ImportantNotes     string   `json:"importantNotes,omitempty"`
}

// Instruction is a single step in the optional step-by-step guide.
type Instruction struct {
	StepNumber    int      `json:"stepNumber"`
	Instruction   string   `json:"instruction"`
	EstimatedTime string   `json:"estimatedTime,omitempty"`
	SafetyNotes   string   `json:"safetyNotes,omitempty"`
	Tools         []string `json:"tools,omitempty"`
}

// Result is the normalized analysis record returned to clients and
// persisted alongside a saved project. Required fields are always
// populated, with documented defaults when the model omitted them.
type Result struct {
	Difficulty     int           `json:"difficulty"`
	EstimatedTime  float64       `json:"estimatedTime"`
	EstimatedCost  float64       `json:"estimatedCost"`
	RequiredSkills []string      `json:"requiredSkills"`
	Notes          string        `json:"notes"`
	Materials      []Material    `json:"materialsList"`
	Instructions   []Instruction `json:"instructions,omitempty"`
}
