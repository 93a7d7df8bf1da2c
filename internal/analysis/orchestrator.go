package analysis

import (
	"context"
	"strings"

	"github.com/craftwise/craftwise-backend/internal/logging"
)

const visionPrompt = "Analyze this DIY project image and describe the materials, tools, and complexity level visible in the image."

const analysisSystemPrompt = `You are a DIY project expert. Analyze the project description and provide detailed recommendations in the following JSON format:
{
  "DifficultyLevel": number (1-5),
  "EstimatedTimeHours": number,
  "EstimatedCost": number,
  "RequiredSkills": string[],
  "Notes": string (warnings and caveats),
  "MaterialsList": [
    {
      "Material": string,
      "Category": string,
      "Quantity": string,
      "EstimatedCost": number,
      "Specifications": string,
      "RecommendedBrands": string[],
      "AlternativeOptions": string[],
      "WhereToBuy": string[],
      "UsageInstructions": string,
      "ImportantNotes": string
    }
  ],
  "StepByStepInstructions": [
    {
      "StepNumber": number,
      "Instruction": string
    }
  ]
}`

// ChatClient is the slice of the model provider the orchestrator needs.
type ChatClient interface {
	Complete(ctx context.Context, msgs []ChatMessage, jsonMode bool) (string, error)
}

// Orchestrator runs the analysis flow: optional vision pass, structured
// text pass, then normalization of the semi-structured reply.
type Orchestrator struct {
	llm ChatClient
}

func NewOrchestrator(llm ChatClient) *Orchestrator {
	return &Orchestrator{llm: llm}
}

// Analyze produces a normalized analysis for a description and/or a base64
// image payload. At least one must be non-empty. A failed vision pass
// degrades to text-only when a description exists; all other upstream
// failures surface as *UpstreamError without retry.
func (o *Orchestrator) Analyze(ctx context.Context, description, imageB64 string) (*Result, error) {
	logger := logging.NewLogger(ctx)

	description = strings.TrimSpace(description)
	imageB64 = strings.TrimSpace(imageB64)
	if description == "" && imageB64 == "" {
		return nil, ErrNoInput
	}

	input := description
	if imageB64 != "" {
		imageText, err := o.describeImage(ctx, imageB64)
		switch {
		case err != nil && description == "":
			logger.LogError("analyze_image", err)
			return nil, &UpstreamError{Op: "image analysis", Err: err}
		case err != nil:
			// Text is still usable on its own.
			logger.LogWarnf("analyze_image", "vision pass failed, continuing with description only: %v", err)
		case description == "":
			input = imageText
		default:
			input = description + "\n\nImage Analysis: " + imageText
		}
	}

	reply, err := o.llm.Complete(ctx, []ChatMessage{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: input},
	}, true)
	if err != nil {
		logger.LogError("analyze_project", err)
		return nil, &UpstreamError{Op: "project analysis", Err: err}
	}

	result, err := Normalize([]byte(reply))
	if err != nil {
		logger.LogError("normalize_analysis", err)
		return nil, &UpstreamError{Op: "project analysis", Err: err}
	}

	logger.LogInfof("analyze_project", "difficulty=%d materials=%d", result.Difficulty, len(result.Materials))
	return result, nil
}

func (o *Orchestrator) describeImage(ctx context.Context, imageB64 string) (string, error) {
	msgs := []ChatMessage{
		{
			Role: "user",
			Content: []any{
				TextPart{Type: "text", Text: visionPrompt},
				ImagePart{Type: "image_url", ImageURL: ImageURL{URL: "data:image/jpeg;base64," + imageB64}},
			},
		},
	}
	return o.llm.Complete(ctx, msgs, false)
}
