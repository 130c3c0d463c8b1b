package anamnesis

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityIntense   ActivityLevel = "intense"
	ActivityAthlete   ActivityLevel = "athlete"
)

type EconomicProfile string

const (
	EconomicEconomical EconomicProfile = "economical"
	EconomicStandard   EconomicProfile = "standard"
	EconomicFlexible   EconomicProfile = "flexible"
)

type Goal string

const (
	GoalLoseWeight     Goal = "lose_weight"
	GoalMaintainWeight Goal = "maintain_weight"
	GoalGainWeight     Goal = "gain_weight"
)

type DietaryPreference string

const (
	DietOmnivore   DietaryPreference = "omnivore"
	DietVegetarian DietaryPreference = "vegetarian"
)

type DietaryRestriction string

const (
	RestrictionNone    DietaryRestriction = "none"
	RestrictionGluten  DietaryRestriction = "gluten_intolerance"
	RestrictionLactose DietaryRestriction = "lactose_intolerance"
)

type MainChallenge string

const (
	ChallengeLackOfTime       MainChallenge = "lack_of_time"
	ChallengeCravings         MainChallenge = "cravings"
	ChallengeSocialEvents     MainChallenge = "social_events"
	ChallengeLackOfMotivation MainChallenge = "lack_of_motivation"
)

type SleepQuality string

const (
	SleepGood    SleepQuality = "good"
	SleepRegular SleepQuality = "regular"
	SleepPoor    SleepQuality = "poor"
)

type ExerciseFrequency string

const (
	ExerciseNone       ExerciseFrequency = "none"
	ExerciseOccasional ExerciseFrequency = "occasional" // 1-2x per week
	ExerciseRegular    ExerciseFrequency = "regular"    // 3-4x per week
	ExerciseIntense    ExerciseFrequency = "intense"    // 5x+ per week
)

type ActivityType string

const (
	ActWalking        ActivityType = "walking"
	ActRunning        ActivityType = "running"
	ActWeightTraining ActivityType = "weight_training"
	ActFunctional     ActivityType = "functional"
	ActCycling        ActivityType = "cycling"
	ActSwimming       ActivityType = "swimming"
)

type HealthCondition string

const (
	CondNone              HealthCondition = "none"
	CondDiabetes          HealthCondition = "diabetes"
	CondHighBloodPressure HealthCondition = "high_blood_pressure"
	CondCholesterol       HealthCondition = "cholesterol"
	CondThyroid           HealthCondition = "thyroid"
)

type Medication string

const (
	MedNone        Medication = "none"
	MedSibutramina Medication = "sibutramina"
	MedOrlistat    Medication = "orlistat"
	MedLiraglutida Medication = "liraglutida"
	MedSemaglutida Medication = "semaglutida"
	MedOther       Medication = "other"
)

type TakesSupplements string

const (
	SupplementsNo  TakesSupplements = "no"
	SupplementsYes TakesSupplements = "yes"
)

type SmokingStatus string

const (
	Smoker    SmokingStatus = "smoker"
	NonSmoker SmokingStatus = "non_smoker"
)

type AlcoholFrequency string

const (
	AlcoholNone       AlcoholFrequency = "none"
	AlcoholSocially   AlcoholFrequency = "socially"
	AlcoholFrequently AlcoholFrequency = "frequently"
)

// ActivityLevelFactors maps an activity level to its TDEE multiplier.
// Single source of truth, also used to validate incoming levels.
var ActivityLevelFactors = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityIntense:   1.725,
	ActivityAthlete:   1.9,
}

// Input is the full questionnaire answer set. It is created once at form
// submission and travels between pages as URL query parameters; it is never
// mutated after creation.
type Input struct {
	Name string `json:"name"`

	Weight float64 `json:"weight"` // kg
	Height float64 `json:"height"` // cm
	Age    int     `json:"age"`
	Sex    Sex     `json:"sex"`

	ActivityLevel     ActivityLevel     `json:"activityLevel"`
	SleepQuality      SleepQuality      `json:"sleepQuality"`
	ExerciseFrequency ExerciseFrequency `json:"exerciseFrequency"`
	ActivityTypes     []ActivityType    `json:"activityTypes,omitempty"`

	Goal         Goal    `json:"goal"`
	TargetWeight float64 `json:"targetWeight,omitempty"` // kg, required for lose/gain

	EconomicProfile    EconomicProfile    `json:"economicProfile"`
	DietaryPreference  DietaryPreference  `json:"dietaryPreference"`
	DietaryRestriction DietaryRestriction `json:"dietaryRestriction"`
	MainChallenge      MainChallenge      `json:"mainChallenge"`

	SmokingStatus    SmokingStatus     `json:"smokingStatus"`
	AlcoholFrequency AlcoholFrequency  `json:"alcoholFrequency"`
	HealthConditions []HealthCondition `json:"healthConditions"`
	Medications      []Medication      `json:"medications"`
	TakesSupplements TakesSupplements  `json:"takesSupplements"`
}

// FieldError is a user-correctable validation problem tied to one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the same rules the questionnaire form enforces. The first
// violation is returned as a *FieldError.
func (in *Input) Validate() error {
	if len(in.Name) < 2 {
		return &FieldError{Field: "name", Message: "Nome muito curto"}
	}
	if len(in.Name) > 50 {
		return &FieldError{Field: "name", Message: "Nome muito longo"}
	}
	if !isFinite(in.Weight) || in.Weight < 30 || in.Weight > 300 {
		return &FieldError{Field: "weight", Message: "Peso inválido"}
	}
	if !isFinite(in.Height) || in.Height < 100 || in.Height > 250 {
		return &FieldError{Field: "height", Message: "Altura inválida"}
	}
	if in.Age < 16 || in.Age > 100 {
		return &FieldError{Field: "age", Message: "Idade inválida"}
	}
	if in.Sex != SexMale && in.Sex != SexFemale {
		return &FieldError{Field: "sex", Message: "Selecione o gênero"}
	}
	if _, ok := ActivityLevelFactors[in.ActivityLevel]; !ok {
		return &FieldError{Field: "activityLevel", Message: "Selecione seu nível de atividade"}
	}

	switch in.Goal {
	case GoalLoseWeight:
		if !isFinite(in.TargetWeight) || in.TargetWeight <= 0 {
			return &FieldError{Field: "targetWeight", Message: "Informe seu peso desejado."}
		}
		if in.TargetWeight >= in.Weight {
			return &FieldError{Field: "targetWeight", Message: "O peso desejado deve ser menor que o peso atual."}
		}
	case GoalGainWeight:
		if !isFinite(in.TargetWeight) || in.TargetWeight <= 0 {
			return &FieldError{Field: "targetWeight", Message: "Informe seu peso desejado."}
		}
		if in.TargetWeight <= in.Weight {
			return &FieldError{Field: "targetWeight", Message: "O peso desejado deve ser maior que o peso atual."}
		}
	case GoalMaintainWeight:
	default:
		return &FieldError{Field: "goal", Message: "Selecione seu objetivo"}
	}

	if in.ExerciseFrequency != ExerciseNone && len(in.ActivityTypes) == 0 {
		return &FieldError{Field: "activityTypes", Message: "Selecione pelo menos um tipo de atividade."}
	}

	if len(in.HealthConditions) == 0 {
		return &FieldError{Field: "healthConditions", Message: "Selecione pelo menos uma opção"}
	}
	if hasSentinelMix(len(in.HealthConditions), containsCond(in.HealthConditions, CondNone)) {
		return &FieldError{Field: "healthConditions", Message: "'Nenhuma condição' não pode ser combinada com outras opções"}
	}
	if len(in.Medications) == 0 {
		return &FieldError{Field: "medications", Message: "Selecione pelo menos uma opção"}
	}
	if hasSentinelMix(len(in.Medications), containsMed(in.Medications, MedNone)) {
		return &FieldError{Field: "medications", Message: "'Não tomo nenhuma medicação' não pode ser combinada com outras opções"}
	}
	return nil
}

// hasSentinelMix reports whether a set combines the "none" sentinel with
// real values. The sentinel is only valid alone.
func hasSentinelMix(size int, hasNone bool) bool {
	return hasNone && size > 1
}

func containsCond(set []HealthCondition, v HealthCondition) bool {
	for _, c := range set {
		if c == v {
			return true
		}
	}
	return false
}

func containsMed(set []Medication, v Medication) bool {
	for _, m := range set {
		if m == v {
			return true
		}
	}
	return false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Values serializes the input into URL query parameters, the de facto
// persistence format between funnel pages. Set-valued fields use repeated
// keys and are written in sorted order so the encoding is canonical.
func (in *Input) Values() url.Values {
	v := url.Values{}
	v.Set("name", in.Name)
	v.Set("weight", trimFloat(in.Weight))
	v.Set("height", trimFloat(in.Height))
	v.Set("age", strconv.Itoa(in.Age))
	v.Set("sex", string(in.Sex))
	v.Set("activityLevel", string(in.ActivityLevel))
	v.Set("sleepQuality", string(in.SleepQuality))
	v.Set("exerciseFrequency", string(in.ExerciseFrequency))
	for _, a := range sortedStrings(in.ActivityTypes) {
		v.Add("activityTypes", a)
	}
	v.Set("goal", string(in.Goal))
	if in.TargetWeight > 0 {
		v.Set("targetWeight", trimFloat(in.TargetWeight))
	}
	v.Set("economicProfile", string(in.EconomicProfile))
	v.Set("dietaryPreference", string(in.DietaryPreference))
	v.Set("dietaryRestriction", string(in.DietaryRestriction))
	v.Set("mainChallenge", string(in.MainChallenge))
	v.Set("smokingStatus", string(in.SmokingStatus))
	v.Set("alcoholFrequency", string(in.AlcoholFrequency))
	for _, c := range sortedStrings(in.HealthConditions) {
		v.Add("healthConditions", c)
	}
	for _, m := range sortedStrings(in.Medications) {
		v.Add("medications", m)
	}
	v.Set("takesSupplements", string(in.TakesSupplements))
	return v
}

// FromQuery reconstructs an Input from query parameters produced by Values.
// Set-valued fields are normalized to sorted order, so two inputs that
// differ only in insertion order decode to equal values.
func FromQuery(v url.Values) *Input {
	weight, _ := strconv.ParseFloat(v.Get("weight"), 64)
	height, _ := strconv.ParseFloat(v.Get("height"), 64)
	age, _ := strconv.Atoi(v.Get("age"))
	targetWeight, _ := strconv.ParseFloat(v.Get("targetWeight"), 64)

	in := &Input{
		Name:               v.Get("name"),
		Weight:             weight,
		Height:             height,
		Age:                age,
		Sex:                Sex(v.Get("sex")),
		ActivityLevel:      ActivityLevel(v.Get("activityLevel")),
		SleepQuality:       SleepQuality(v.Get("sleepQuality")),
		ExerciseFrequency:  ExerciseFrequency(v.Get("exerciseFrequency")),
		Goal:               Goal(v.Get("goal")),
		TargetWeight:       targetWeight,
		EconomicProfile:    EconomicProfile(v.Get("economicProfile")),
		DietaryPreference:  DietaryPreference(v.Get("dietaryPreference")),
		DietaryRestriction: DietaryRestriction(v.Get("dietaryRestriction")),
		MainChallenge:      MainChallenge(v.Get("mainChallenge")),
		SmokingStatus:      SmokingStatus(v.Get("smokingStatus")),
		AlcoholFrequency:   AlcoholFrequency(v.Get("alcoholFrequency")),
		TakesSupplements:   TakesSupplements(v.Get("takesSupplements")),
	}
	for _, a := range sortedCopy(v["activityTypes"]) {
		in.ActivityTypes = append(in.ActivityTypes, ActivityType(a))
	}
	for _, c := range sortedCopy(v["healthConditions"]) {
		in.HealthConditions = append(in.HealthConditions, HealthCondition(c))
	}
	for _, m := range sortedCopy(v["medications"]) {
		in.Medications = append(in.Medications, Medication(m))
	}
	return in
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sortedStrings[T ~string](set []T) []string {
	out := make([]string, len(set))
	for i, s := range set {
		out[i] = string(s)
	}
	sort.Strings(out)
	return out
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
