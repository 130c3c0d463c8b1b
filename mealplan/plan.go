// Package mealplan holds the fixed 7-day meal templates, the advisory tip
// rule table and the HTML document rendered into the plan email. All
// selection is a pure lookup over the questionnaire answers.
package mealplan

import (
	"strconv"

	"fitcalc-backend/anamnesis"
)

// economicProfileLabels are the short labels shown on the plan header.
var economicProfileLabels = map[anamnesis.EconomicProfile]string{
	anamnesis.EconomicEconomical: "Econômico",
	anamnesis.EconomicStandard:   "Padrão",
	anamnesis.EconomicFlexible:   "Flexível",
}

// PlanData is the fully resolved plan for one user: header fields, the
// selected 7-day template and the filtered tip list.
type PlanData struct {
	Name               string                      `json:"name"`
	Calories           string                      `json:"calories"`
	TargetWeight       string                      `json:"targetWeight,omitempty"`
	EconomicProfile    anamnesis.EconomicProfile   `json:"economicProfile"`
	EconomicLabel      string                      `json:"economicLabel"`
	DietaryPreference  anamnesis.DietaryPreference `json:"dietaryPreference"`
	DietaryRestriction string                      `json:"dietaryRestriction,omitempty"`
	HealthConditions   []anamnesis.HealthCondition `json:"healthConditions"`
	Days               []Day                       `json:"mealPlans"`
	Tips               []Tip                       `json:"personalizedTips"`
}

// Build resolves the plan for the given answers and calorie target.
// Missing preference/profile values fall back the same way the plan page
// does when query parameters are absent.
func Build(in *anamnesis.Input, calories string) PlanData {
	diet := in.DietaryPreference
	if diet == "" {
		diet = anamnesis.DietOmnivore
	}
	economy := in.EconomicProfile
	if economy == "" {
		economy = anamnesis.EconomicStandard
	}

	targetWeight := ""
	if in.TargetWeight > 0 {
		targetWeight = trimWeight(in.TargetWeight)
	}

	return PlanData{
		Name:               in.Name,
		Calories:           calories,
		TargetWeight:       targetWeight,
		EconomicProfile:    economy,
		EconomicLabel:      economicProfileLabels[economy],
		DietaryPreference:  diet,
		DietaryRestriction: string(in.DietaryRestriction),
		HealthConditions:   in.HealthConditions,
		Days:               Template(diet, economy),
		Tips: PlanTips(in.MainChallenge, in.SleepQuality, in.ExerciseFrequency,
			in.ActivityTypes, in.HealthConditions),
	}
}

func trimWeight(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
