package analysis

import (
	"sort"
	"time"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/guidelines"
	"github.com/vladimiradmaev/care-planner/internal/utils"
)

// CarePlanTask is one timed item of the daily plan
type CarePlanTask struct {
	Time     string `json:"time"` // HH:MM
	Task     string `json:"task"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// DailyCarePlan is the static daily routine for a user's conditions
type DailyCarePlan struct {
	Date      time.Time        `json:"date"`
	Diseases  []domain.Disease `json:"diseases"`
	Tasks     []CarePlanTask   `json:"tasks"`
	Tips      []string         `json:"tips"`
	Citations []string         `json:"citations"`
}

type diseasePlan struct {
	tasks    []CarePlanTask
	tips     []string
	citation string
}

var (
	baseMorningTasks = []CarePlanTask{
		{"07:00", "Take morning medications", "medication", "high"},
		{"07:30", "Light stretching exercise (10 mins)", "exercise", "medium"},
	}
	baseEveningTasks = []CarePlanTask{
		{"21:00", "Take evening medications", "medication", "high"},
		{"22:00", "Prepare for 7-8 hours of sleep", "wellness", "medium"},
	}

	diseasePlans = map[domain.Disease]diseasePlan{
		domain.DiseaseDiabetes: {
			tasks: []CarePlanTask{
				{"08:00", "Check fasting blood sugar level", "monitoring", "high"},
				{"12:00", "Eat balanced lunch (low glycemic index)", "diet", "high"},
				{"18:00", "Check post-meal blood sugar", "monitoring", "medium"},
			},
			tips: []string{
				"Keep blood sugar levels between 80-130 mg/dL before meals (ADA Guidelines)",
				"Stay hydrated - drink at least 8 glasses of water daily",
				"Target HbA1c below 7% for most adults with diabetes",
			},
			citation: guidelines.CitationADA,
		},
		domain.DiseaseHeart: {
			tasks: []CarePlanTask{
				{"08:30", "Monitor blood pressure", "monitoring", "high"},
				{"10:00", "30-minute brisk walk", "exercise", "high"},
				{"13:00", "Take heart medication with lunch", "medication", "high"},
			},
			tips: []string{
				"Limit sodium intake to less than 2,300mg per day (AHA Guidelines)",
				"Avoid saturated fats and trans fats",
				"Aim for 150 minutes of moderate exercise per week",
			},
			citation: guidelines.CitationAHALifestyle,
		},
		domain.DiseaseHypertension: {
			tasks: []CarePlanTask{
				{"09:00", "Morning blood pressure check", "monitoring", "high"},
				{"17:00", "Evening blood pressure check", "monitoring", "high"},
				{"20:00", "Relaxation/meditation (15 mins)", "wellness", "medium"},
			},
			tips: []string{
				"Target blood pressure below 130/80 mmHg (AHA Guidelines)",
				"Reduce salt intake to help control blood pressure",
				"Practice stress management techniques daily",
			},
			citation: guidelines.CitationAHA,
		},
	}

	planOrder = []domain.Disease{domain.DiseaseDiabetes, domain.DiseaseHeart, domain.DiseaseHypertension}
)

// BuildDailyCarePlan assembles the routine for the given conditions, sorted by time of day
func BuildDailyCarePlan(diseases []domain.Disease, now time.Time) DailyCarePlan {
	plan := DailyCarePlan{Date: now, Diseases: diseases}
	plan.Tasks = append(plan.Tasks, baseMorningTasks...)

	has := make(map[domain.Disease]bool, len(diseases))
	for _, d := range diseases {
		has[d] = true
	}
	seen := make(map[string]bool)
	for _, d := range planOrder {
		if !has[d] {
			continue
		}
		p := diseasePlans[d]
		plan.Tasks = append(plan.Tasks, p.tasks...)
		plan.Tips = append(plan.Tips, p.tips...)
		if !seen[p.citation] {
			seen[p.citation] = true
			plan.Citations = append(plan.Citations, p.citation)
		}
	}
	plan.Tasks = append(plan.Tasks, baseEveningTasks...)

	sort.SliceStable(plan.Tasks, func(i, j int) bool {
		return utils.TimeToMinutes(plan.Tasks[i].Time) < utils.TimeToMinutes(plan.Tasks[j].Time)
	})
	return plan
}
