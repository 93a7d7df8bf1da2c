package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The model's field names have drifted across prompt revisions: PascalCase
// (DifficultyLevel), snake_case (difficulty_level) and camelCase all occur
// in the wild. Each field is resolved against an ordered alias list and
// missing values fall back to documented defaults (difficulty 1, numbers 0,
// lists empty) instead of failing the request.

var (
	difficultyAliases = []string{"difficulty", "DifficultyLevel", "difficulty_level", "Difficulty"}
	timeAliases       = []string{"estimatedTime", "EstimatedTimeHours", "estimated_time_hours", "estimated_time", "EstimatedTime"}
	costAliases       = []string{"estimatedCost", "EstimatedCost", "estimated_cost"}
	skillsAliases     = []string{"requiredSkills", "RequiredSkills", "required_skills"}
	notesAliases      = []string{"notes", "Notes", "warnings", "Warnings"}
	materialsAliases  = []string{"materialsList", "MaterialsList", "materials_list", "materials", "Materials"}
	stepsAliases      = []string{"instructions", "StepByStepInstructions", "step_by_step_instructions", "Instructions", "steps", "Steps"}
)

// Normalize parses a model reply and maps it onto the canonical Result
// shape. It only fails when the reply is not a JSON object at all.
func Normalize(raw []byte) (*Result, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse analysis reply: %w", err)
	}
	return fromDocument(doc), nil
}

func fromDocument(doc map[string]any) *Result {
	res := &Result{
		Difficulty:     1,
		RequiredSkills: []string{},
		Materials:      []Material{},
	}

	if n, ok := pickNumber(doc, difficultyAliases); ok {
		res.Difficulty = clampDifficulty(int(n))
	}
	if n, ok := pickNumber(doc, timeAliases); ok && n >= 0 {
		res.EstimatedTime = n
	}
	if n, ok := pickNumber(doc, costAliases); ok && n >= 0 {
		res.EstimatedCost = n
	}
	if s, ok := pickString(doc, notesAliases); ok {
		res.Notes = s
	}
	if list, ok := pickStringList(doc, skillsAliases); ok {
		res.RequiredSkills = list
	}

	if v, ok := pick(doc, materialsAliases); ok {
		if items, ok := v.([]any); ok {
			for _, item := range items {
				if m, ok := item.(map[string]any); ok {
					res.Materials = append(res.Materials, materialFrom(m))
				}
			}
		}
	}

	if v, ok := pick(doc, stepsAliases); ok {
		res.Instructions = instructionsFrom(v)
	}

	return res
}

var (
	matItemAliases     = []string{"item", "Item", "Material", "material", "name", "Name"}
	matQuantityAliases = []string{"quantity", "Quantity"}
	matCostAliases     = []string{"estimatedCost", "EstimatedCost", "estimated_cost", "cost", "Cost"}
	matCategoryAliases = []string{"category", "Category"}
	matSpecAliases     = []string{"specifications", "Specifications"}
	matBrandsAliases   = []string{"recommendedBrands", "RecommendedBrands", "recommended_brands"}
	matAltAliases      = []string{"alternativeOptions", "AlternativeOptions", "alternative_options"}
	matWhereAliases    = []string{"whereToBuy", "WhereToBuy", "where_to_buy"}
	matUsageAliases    = []string{"usageInstructions", "UsageInstructions", "usage_instructions"}
	matNotesAliases    = []string{"importantNotes", "ImportantNotes", "important_notes"}
)

func materialFrom(m map[string]any) Material {
	mat := Material{}
	if s, ok := pickString(m, matItemAliases); ok {
		mat.Item = s
	}
	if s, ok := pickString(m, matCategoryAliases); ok {
		mat.Category = s
	}
	if s, ok := pickString(m, matSpecAliases); ok {
		mat.Specifications = s
	}
	if s, ok := pickString(m, matUsageAliases); ok {
		mat.UsageInstructions = s
	}
	if s, ok := pickString(m, matNotesAliases); ok {
		mat.ImportantNotes = s
	}
	if list, ok := pickStringList(m, matBrandsAliases); ok {
		mat.RecommendedBrands = list
	}
	if list, ok := pickStringList(m, matAltAliases); ok {
		mat.AlternativeOptions = list
	}
	if list, ok := pickStringList(m, matWhereAliases); ok {
		mat.WhereToBuy = list
	}

	// Quantities show up both as text ("2 boards") and bare numbers.
	if v, ok := pick(m, matQuantityAliases); ok {
		switch q := v.(type) {
		case string:
			mat.Quantity = q
		case float64:
			mat.Quantity = strconv.FormatFloat(q, 'f', -1, 64)
		}
	}

	// Cost can arrive as a number or as a preformatted string; keep the
	// numeric value for storage and derive the display text when absent.
	if v, ok := pick(m, matCostAliases); ok {
		switch c := v.(type) {
		case float64:
			if c >= 0 {
				mat.EstimatedCost = c
			}
		case string:
			mat.Cost = c
			if n, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(c), "$"), 64); err == nil && n >= 0 {
				mat.EstimatedCost = n
			}
		}
	}
	if mat.Cost == "" {
		mat.Cost = FormatCost(mat.EstimatedCost)
	}

	return mat
}

var (
	stepNumberAliases = []string{"stepNumber", "StepNumber", "step_number"}
	stepTextAliases   = []string{"instruction", "Instruction", "step", "Step", "description", "Description"}
	stepTimeAliases   = []string{"estimatedTime", "EstimatedTime", "estimated_time"}
	stepSafetyAliases = []string{"safetyNotes", "SafetyNotes", "safety_notes"}
	stepToolsAliases  = []string{"tools", "Tools"}
)

// instructionsFrom accepts both plain string steps and structured step
// objects; both shapes occur in model replies.
func instructionsFrom(v any) []Instruction {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]Instruction, 0, len(items))
	for i, item := range items {
		switch step := item.(type) {
		case string:
			out = append(out, Instruction{StepNumber: i + 1, Instruction: step})
		case map[string]any:
			ins := Instruction{StepNumber: i + 1}
			if n, ok := pickNumber(step, stepNumberAliases); ok {
				ins.StepNumber = int(n)
			}
			if s, ok := pickString(step, stepTextAliases); ok {
				ins.Instruction = s
			}
			if s, ok := pickString(step, stepTimeAliases); ok {
				ins.EstimatedTime = s
			}
			if s, ok := pickString(step, stepSafetyAliases); ok {
				ins.SafetyNotes = s
			}
			if list, ok := pickStringList(step, stepToolsAliases); ok {
				ins.Tools = list
			}
			if ins.Instruction != "" {
				out = append(out, ins)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FormatCost renders a numeric cost as currency-prefixed display text.
func FormatCost(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func clampDifficulty(d int) int {
	if d < 1 {
		return 1
	}
	if d > 5 {
		return 5
	}
	return d
}

func pick(doc map[string]any, aliases []string) (any, bool) {
	for _, key := range aliases {
		if v, ok := doc[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func pickString(doc map[string]any, aliases []string) (string, bool) {
	v, ok := pick(doc, aliases)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func pickNumber(doc map[string]any, aliases []string) (float64, bool) {
	v, ok := pick(doc, aliases)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		// Models occasionally quote numbers.
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func pickStringList(doc map[string]any, aliases []string) ([]string, bool) {
	v, ok := pick(doc, aliases)
	if !ok {
		return nil, false
	}
	switch list := v.(type) {
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case string:
		if list == "" {
			return nil, false
		}
		return []string{list}, true
	}
	return nil, false
}
