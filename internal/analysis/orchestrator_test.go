package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChat struct {
	visionReply   string
	visionErr     error
	analysisReply string
	analysisErr   error

	lastAnalysisInput string
}

func (s *stubChat) Complete(_ context.Context, msgs []ChatMessage, jsonMode bool) (string, error) {
	if !jsonMode {
		return s.visionReply, s.visionErr
	}
	for _, m := range msgs {
		if m.Role == "user" {
			if text, ok := m.Content.(string); ok {
				s.lastAnalysisInput = text
			}
		}
	}
	return s.analysisReply, s.analysisErr
}

const birdhouseReply = `{
	"DifficultyLevel": 2,
	"EstimatedTimeHours": 4,
	"EstimatedCost": 35,
	"RequiredSkills": ["Sawing", "Drilling"],
	"Notes": "Pre-drill to avoid splitting.",
	"MaterialsList": [{"Material": "Cedar board", "Quantity": "1", "EstimatedCost": 15}]
}`

func TestAnalyze_NoInputFails(t *testing.T) {
	orch := NewOrchestrator(&stubChat{})

	_, err := orch.Analyze(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = orch.Analyze(context.Background(), "   ", "")
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestAnalyze_TextOnly(t *testing.T) {
	stub := &stubChat{analysisReply: birdhouseReply}
	orch := NewOrchestrator(stub)

	res, err := orch.Analyze(context.Background(), "Build a wooden birdhouse", "")
	require.NoError(t, err)

	assert.Equal(t, "Build a wooden birdhouse", stub.lastAnalysisInput)
	assert.GreaterOrEqual(t, res.Difficulty, 1)
	assert.LessOrEqual(t, res.Difficulty, 5)
	assert.GreaterOrEqual(t, res.EstimatedTime, 0.0)
	assert.GreaterOrEqual(t, res.EstimatedCost, 0.0)
	assert.NotEmpty(t, res.RequiredSkills)
	assert.NotEmpty(t, res.Materials)
}

func TestAnalyze_ImageAndTextCombinesInputs(t *testing.T) {
	stub := &stubChat{
		visionReply:   "Visible: cedar planks, a hand saw, nails.",
		analysisReply: birdhouseReply,
	}
	orch := NewOrchestrator(stub)

	_, err := orch.Analyze(context.Background(), "Build a wooden birdhouse", "aW1hZ2U=")
	require.NoError(t, err)

	assert.Equal(t,
		"Build a wooden birdhouse\n\nImage Analysis: Visible: cedar planks, a hand saw, nails.",
		stub.lastAnalysisInput)
}

func TestAnalyze_VisionFailureDegradesToText(t *testing.T) {
	stub := &stubChat{
		visionErr:     errors.New("vision endpoint down"),
		analysisReply: birdhouseReply,
	}
	orch := NewOrchestrator(stub)

	res, err := orch.Analyze(context.Background(), "Build a wooden birdhouse", "aW1hZ2U=")
	require.NoError(t, err)
	assert.Equal(t, "Build a wooden birdhouse", stub.lastAnalysisInput)
	assert.Equal(t, 2, res.Difficulty)
}

func TestAnalyze_VisionFailureWithoutTextFails(t *testing.T) {
	stub := &stubChat{visionErr: errors.New("vision endpoint down")}
	orch := NewOrchestrator(stub)

	_, err := orch.Analyze(context.Background(), "", "aW1hZ2U=")
	require.Error(t, err)

	var ue *UpstreamError
	assert.ErrorAs(t, err, &ue)
}

func TestAnalyze_ImageOnlyUsesVisionText(t *testing.T) {
	stub := &stubChat{
		visionReply:   "A half-built planter box.",
		analysisReply: birdhouseReply,
	}
	orch := NewOrchestrator(stub)

	_, err := orch.Analyze(context.Background(), "", "aW1hZ2U=")
	require.NoError(t, err)
	assert.Equal(t, "A half-built planter box.", stub.lastAnalysisInput)
}

func TestAnalyze_UnparsableReplyIsUpstreamError(t *testing.T) {
	stub := &stubChat{analysisReply: "Sorry, I can't help with that."}
	orch := NewOrchestrator(stub)

	_, err := orch.Analyze(context.Background(), "Build a shelf", "")
	require.Error(t, err)

	var ue *UpstreamError
	assert.ErrorAs(t, err, &ue)
}

func TestAnalyze_AnalysisFailureIsUpstreamError(t *testing.T) {
	stub := &stubChat{analysisErr: errors.New("rate limited")}
	orch := NewOrchestrator(stub)

	_, err := orch.Analyze(context.Background(), "Build a shelf", "")
	require.Error(t, err)

	var ue *UpstreamError
	assert.ErrorAs(t, err, &ue)
}
