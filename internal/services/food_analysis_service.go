package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
	"github.com/vladimiradmaev/care-planner/internal/logger"
	"github.com/vladimiradmaev/care-planner/internal/metrics"
	"github.com/vladimiradmaev/care-planner/internal/nutrition"
	"github.com/vladimiradmaev/care-planner/internal/utils"
)

// aiFoodEstimate is the JSON object the model is asked to return
type aiFoodEstimate struct {
	MatchedFoods  []string `json:"matched_foods"`
	Calories      float64  `json:"calories"`
	Carbohydrates float64  `json:"carbohydrates_g"`
	Sugar         float64  `json:"sugar_g"`
	Fiber         float64  `json:"fiber_g"`
	Protein       float64  `json:"protein_g"`
	GlycemicIndex float64  `json:"glycemic_index"`
	SodiumMg      float64  `json:"sodium_mg"`
}

type FoodAnalysisService struct {
	ai      domain.AIClient
	logs    domain.LogStore
	loc     *time.Location
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewFoodAnalysisService accepts a nil AI client; every analysis is then rule based
func NewFoodAnalysisService(ai domain.AIClient, logs domain.LogStore, loc *time.Location, m *metrics.Metrics) *FoodAnalysisService {
	if loc == nil {
		loc = time.UTC
	}
	return &FoodAnalysisService{ai: ai, logs: logs, loc: loc, metrics: m, now: time.Now}
}

// Analyze estimates a described meal for the given condition. The AI
// estimate is preferred; any AI failure falls back to the local food table
// and is never returned to the caller. A non-zero userID stores the calories
// as a food_calories reading.
func (s *FoodAnalysisService) Analyze(ctx context.Context, userID uint, description, quantity string, condition domain.Condition) (*domain.FoodAnalysis, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperrors.NewValidationError("food description is required")
	}
	if condition != domain.ConditionHypertension {
		condition = domain.ConditionDiabetes
	}

	result, err := s.analyzeWithAI(ctx, foodPrompt(description, quantity, condition), nil, description, quantity, condition)
	if err != nil {
		if s.ai != nil {
			logger.WithContext(ctx).Warn("AI food analysis failed, using rule-based estimate",
				"provider", s.ai.Name(), "error", err)
			s.metrics.AIFallback()
		}
		fallback := nutrition.Estimate(description, quantity, condition)
		result = &fallback
	}

	return s.finish(ctx, userID, result)
}

// AnalyzePhoto estimates a meal from a photo. Without a working AI client
// the caption, if any, is analyzed instead; with neither the AI error is returned.
func (s *FoodAnalysisService) AnalyzePhoto(ctx context.Context, userID uint, image []byte, caption string, condition domain.Condition) (*domain.FoodAnalysis, error) {
	if len(image) == 0 {
		return nil, apperrors.NewValidationError("photo is empty")
	}
	if condition != domain.ConditionHypertension {
		condition = domain.ConditionDiabetes
	}
	caption = strings.TrimSpace(caption)

	result, err := s.analyzeWithAI(ctx, photoPrompt(caption, condition), image, caption, "", condition)
	if err != nil {
		if caption == "" {
			return nil, err
		}
		logger.WithContext(ctx).Warn("AI photo analysis failed, using caption", "error", err)
		s.metrics.AIFallback()
		fallback := nutrition.Estimate(caption, "", condition)
		result = &fallback
	}
	return s.finish(ctx, userID, result)
}

func (s *FoodAnalysisService) finish(ctx context.Context, userID uint, result *domain.FoodAnalysis) (*domain.FoodAnalysis, error) {
	if userID != 0 {
		if err := s.saveCalories(ctx, userID, *result); err != nil {
			return nil, err
		}
	}
	s.metrics.FoodAnalyzed(result.Source, string(result.Condition))
	return result, nil
}

var errNoAIClient = errors.New("no AI client configured")

func (s *FoodAnalysisService) analyzeWithAI(ctx context.Context, prompt string, image []byte, description, quantity string, condition domain.Condition) (*domain.FoodAnalysis, error) {
	if s.ai == nil {
		return nil, apperrors.NewExternalAPIError(errNoAIClient, "ai")
	}

	raw, err := s.ai.GenerateStructured(ctx, prompt, image)
	if err != nil {
		return nil, err
	}

	var estimate aiFoodEstimate
	if err := json.Unmarshal(raw, &estimate); err != nil {
		return nil, apperrors.NewExternalAPIError(fmt.Errorf("failed to parse AI response: %w", err), s.ai.Name())
	}
	if err := estimate.validate(); err != nil {
		return nil, apperrors.NewExternalAPIError(err, s.ai.Name())
	}

	totals := domain.NutritionTotals{
		Calories:      estimate.Calories,
		Carbohydrates: estimate.Carbohydrates,
		Sugar:         estimate.Sugar,
		Fiber:         estimate.Fiber,
		Protein:       estimate.Protein,
		GlycemicIndex: estimate.GlycemicIndex,
		SodiumMg:      estimate.SodiumMg,
		MatchedFoods:  estimate.MatchedFoods,
		Multiplier:    nutrition.Multiplier(quantity),
	}
	totals.GlycemicLoad = totals.Carbohydrates * totals.GlycemicIndex / 100
	totals.NetCarbs = math.Max(0, totals.Carbohydrates-totals.Fiber)

	if description == "" {
		description = strings.Join(estimate.MatchedFoods, ", ")
	}
	analysis := &domain.FoodAnalysis{
		Description: description,
		Quantity:    quantity,
		Condition:   condition,
		Source:      s.ai.Name(),
		Nutrition:   nutrition.Rounded(totals),
		Disclaimer:  nutrition.Disclaimer,
	}
	switch condition {
	case domain.ConditionHypertension:
		sodium := nutrition.AssessSodiumMg(totals.SodiumMg)
		analysis.Sodium = &sodium
	default:
		risk := nutrition.SpikeRisk(totals)
		suitability := nutrition.Suitability(totals)
		analysis.SpikeRisk = &risk
		analysis.Suitability = &suitability
	}
	return analysis, nil
}

func (e aiFoodEstimate) validate() error {
	for name, v := range map[string]float64{
		"calories":        e.Calories,
		"carbohydrates_g": e.Carbohydrates,
		"sugar_g":         e.Sugar,
		"fiber_g":         e.Fiber,
		"protein_g":       e.Protein,
		"sodium_mg":       e.SodiumMg,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("invalid %s in AI response: %v", name, v)
		}
	}
	if math.IsNaN(e.GlycemicIndex) || e.GlycemicIndex < 0 || e.GlycemicIndex > 100 {
		return fmt.Errorf("invalid glycemic_index in AI response: %v", e.GlycemicIndex)
	}
	if e.Calories == 0 && len(e.MatchedFoods) == 0 {
		return errors.New("AI response recognised no food")
	}
	return nil
}

func foodPrompt(description, quantity string, condition domain.Condition) string {
	if quantity == "" {
		quantity = "1 serving"
	}
	return fmt.Sprintf(`Estimate the nutrition of this meal for a person managing %s.

Meal: %s
Quantity: %s

%s`, condition, description, quantity, jsonFormatInstructions)
}

func photoPrompt(caption string, condition domain.Condition) string {
	prompt := fmt.Sprintf("Identify the foods in this photo and estimate the nutrition of the whole plate for a person managing %s.", condition)
	if caption != "" {
		prompt += "\nThe user describes it as: " + caption
	}
	return prompt + "\n\n" + jsonFormatInstructions
}

const jsonFormatInstructions = `CRITICAL JSON FORMAT REQUIREMENTS:
1. Respond with ONLY a JSON object, no explanations and no markdown
2. All numbers must be plain numbers for the whole quantity given
3. glycemic_index is the average glycemic index of the foods, between 0 and 100

{
  "matched_foods": ["food name", ...],
  "calories": number,
  "carbohydrates_g": number,
  "sugar_g": number,
  "fiber_g": number,
  "protein_g": number,
  "glycemic_index": number,
  "sodium_mg": number
}`

func (s *FoodAnalysisService) saveCalories(ctx context.Context, userID uint, result domain.FoodAnalysis) error {
	now := s.now()
	reading := domain.Reading{
		UserID:       userID,
		MetricType:   domain.MetricFoodCalories,
		PrimaryValue: result.Nutrition.Calories,
		Unit:         domain.MetricFoodCalories.DefaultUnit(),
		Context:      result.Source,
		Notes:        result.Description,
		Timestamp:    now,
		LogDate:      utils.LogDate(now, s.loc),
	}
	if err := s.logs.SaveReading(ctx, &reading); err != nil {
		logger.WithContext(ctx).Error("Failed to store meal calories", "user_id", userID, "error", err)
		return fmt.Errorf("failed to save meal: %w", err)
	}
	s.metrics.ReadingLogged(string(reading.MetricType), false)
	return nil
}
