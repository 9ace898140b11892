package analysis

import (
	"time"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/guidelines"
)

const (
	messageAdjusted     = "Your care plan has been updated based on this week's data"
	messageNoAdjustment = "No adjustments needed - keep up the good work!"
)

// adjustmentRule appends its adjustments when it applies. Rules are
// independent: every rule is evaluated and none suppresses another.
type adjustmentRule struct {
	disease domain.Disease
	apply   func(summaries map[domain.MetricType]domain.WeeklySummary) []domain.CarePlanAdjustment
}

var adjustmentRules = []adjustmentRule{
	{disease: domain.DiseaseDiabetes, apply: highGlucoseAdjustments},
	{disease: domain.DiseaseDiabetes, apply: lowGlucoseAdjustments},
	{disease: domain.DiseaseHypertension, apply: hypertensionAdjustments},
}

// GenerateAdjustments runs the rule chain for the user's conditions in a fixed order
func GenerateAdjustments(diseases []domain.Disease, summaries map[domain.MetricType]domain.WeeklySummary, now time.Time) domain.AdjustmentPlan {
	has := make(map[domain.Disease]bool, len(diseases))
	for _, d := range diseases {
		has[d] = true
	}

	plan := domain.AdjustmentPlan{WeekOf: now, Adjustments: []domain.CarePlanAdjustment{}}
	for _, rule := range adjustmentRules {
		if !has[rule.disease] {
			continue
		}
		plan.Adjustments = append(plan.Adjustments, rule.apply(summaries)...)
	}

	if len(plan.Adjustments) > 0 {
		plan.Message = messageAdjusted
	} else {
		plan.Message = messageNoAdjustment
	}
	return plan
}

func glucoseOutsideTarget(s domain.WeeklySummary) bool {
	return s.Average < guidelines.FastingTargetMin || s.Average > guidelines.FastingTargetMax
}

func highGlucoseAdjustments(summaries map[domain.MetricType]domain.WeeklySummary) []domain.CarePlanAdjustment {
	s, ok := summaries[domain.MetricGlucose]
	if !ok || !s.HasData || !glucoseOutsideTarget(s) || s.Average <= guidelines.AfterMealTargetMax {
		return nil
	}
	return []domain.CarePlanAdjustment{
		{
			Category: domain.AdjustmentDiet,
			Action:   "Add an extra vegetable serving to lunch and dinner",
			Reason:   "High average glucose levels detected",
		},
		{
			Category: domain.AdjustmentActivity,
			Action:   "Increase walking duration by 10 minutes",
			Reason:   "Physical activity helps regulate blood sugar",
		},
	}
}

func lowGlucoseAdjustments(summaries map[domain.MetricType]domain.WeeklySummary) []domain.CarePlanAdjustment {
	s, ok := summaries[domain.MetricGlucose]
	if !ok || !s.HasData || !glucoseOutsideTarget(s) || s.Average >= guidelines.FastingTargetMin {
		return nil
	}
	return []domain.CarePlanAdjustment{
		{
			Category: domain.AdjustmentDiet,
			Action:   "Add a small snack between meals",
			Reason:   "Low average glucose levels detected",
		},
	}
}

// hypertensionAdjustments fires for stage 1 and above, crisis included
func hypertensionAdjustments(summaries map[domain.MetricType]domain.WeeklySummary) []domain.CarePlanAdjustment {
	s, ok := summaries[domain.MetricBloodPressure]
	if !ok || !s.HasData || s.Category == nil {
		return nil
	}
	if guidelines.BPSeverityRank(s.Category.Status) < guidelines.BPSeverityRank(guidelines.BPStage1) {
		return nil
	}
	return []domain.CarePlanAdjustment{
		{
			Category: domain.AdjustmentDiet,
			Action:   "Reduce sodium to less than 1,500mg daily",
			Reason:   "Elevated blood pressure detected",
		},
		{
			Category: domain.AdjustmentWellness,
			Action:   "Add 10-minute evening relaxation session",
			Reason:   "Stress management helps lower blood pressure",
		},
	}
}
