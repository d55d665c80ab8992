package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/altibbe/transparency-api/internal/utils"
	"github.com/altibbe/transparency-api/pkg/groq"
)

// ScoringService asks the generative service to score a completed submission
// against the transparency rubric.
type ScoringService struct {
	groq *groq.Client
}

// NewScoringService constructs a ScoringService.
func NewScoringService(groqClient *groq.Client) *ScoringService {
	return &ScoringService{groq: groqClient}
}

// ScoreResult is the post-processed scoring outcome. TransparencyScore is
// always within [0,100] and every field carries a usable default.
type ScoreResult struct {
	TransparencyScore int      `json:"transparencyScore"`
	HealthScore       string   `json:"healthScore"`
	Highlights        []string `json:"highlights"`
	Analysis          string   `json:"analysis"`
	Recommendations   []string `json:"recommendations"`
}

const scoringSystemPrompt = "You are an expert in product transparency assessment and health evaluation. " +
	"Provide fair, accurate scoring based on the information provided. " +
	"Focus on actionable insights that help both manufacturers and consumers make better decisions. " +
	"Respond with ONLY a valid JSON object, no explanations, no markdown."

// rawScore mirrors the model's JSON output before post-processing. Fields may
// be absent; defaults are substituted rather than failing.
type rawScore struct {
	TransparencyScore *int     `json:"transparencyScore"`
	HealthScore       string   `json:"healthScore"`
	Highlights        []string `json:"highlights"`
	Analysis          string   `json:"analysis"`
	Recommendations   []string `json:"recommendations"`
}

// Score sends the product data and answered questions to the generative
// service and returns the clamped, defaulted result. Only unanswered
// questions should be omitted from responses, never passed as empty values.
func (s *ScoringService) Score(ctx context.Context, productData map[string]interface{}, responses map[string]string) (*ScoreResult, error) {
	productJSON, err := json.MarshalIndent(productData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", utils.ErrScoringFailed, err.Error())
	}
	responsesJSON, err := json.MarshalIndent(responses, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", utils.ErrScoringFailed, err.Error())
	}

	prompt := buildScoringPrompt(string(productJSON), string(responsesJSON))

	response, err := s.groq.ChatJSON(ctx, scoringSystemPrompt, prompt, 0.3, 1000)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", utils.ErrScoringFailed, err.Error())
	}

	var raw rawScore
	if err := json.Unmarshal([]byte(response), &raw); err != nil {
		log.Error().Str("response", response).Err(err).Msg("Failed to parse scoring response")
		return nil, fmt.Errorf("%w: %s", utils.ErrScoringFailed, err.Error())
	}

	result := &ScoreResult{
		TransparencyScore: 0,
		HealthScore:       raw.HealthScore,
		Highlights:        raw.Highlights,
		Analysis:          raw.Analysis,
		Recommendations:   raw.Recommendations,
	}
	if raw.TransparencyScore != nil {
		result.TransparencyScore = clampScore(*raw.TransparencyScore)
	}
	if result.HealthScore == "" {
		result.HealthScore = "C"
	}
	if result.Highlights == nil {
		result.Highlights = []string{}
	}
	if result.Analysis == "" {
		result.Analysis = "Analysis unavailable"
	}
	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}

	return result, nil
}

// clampScore forces a transparency score into [0,100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func buildScoringPrompt(productJSON, responsesJSON string) string {
	return fmt.Sprintf(`Analyze this product submission for transparency and health scoring:

Product Data: %s
Question Responses: %s

Generate a comprehensive analysis with:

1. Transparency Score (0-100): Based on:
   - Completeness of information provided (40%%)
   - Supply chain visibility (20%%)
   - Manufacturing process disclosure (20%%)
   - Certifications and compliance (20%%)

2. Health Score (A+ to F): Based on:
   - Safety profile and risk assessment
   - Ingredient quality and sourcing
   - Regulatory compliance
   - Target audience appropriateness

3. Key Highlights: 3-6 specific positive transparency aspects that build consumer trust

4. Analysis: 2-3 sentence explanation of scoring rationale focusing on strengths and transparency efforts

5. Recommendations: 2-4 actionable suggestions for improving transparency or addressing any concerns

Scoring Guidelines:
- A+/A: Exceptional transparency, comprehensive disclosure, highest safety standards
- B+/B: Good transparency with minor gaps, solid safety profile
- C+/C: Adequate transparency, meets basic requirements, some improvement needed
- D/F: Significant transparency gaps, safety concerns, or insufficient information

Return JSON in this format:
{
  "transparencyScore": 85,
  "healthScore": "A",
  "highlights": ["highlight 1", "highlight 2", "highlight 3"],
  "analysis": "Analysis text explaining the scores and transparency efforts",
  "recommendations": ["recommendation 1", "recommendation 2"]
}`, productJSON, responsesJSON)
}
