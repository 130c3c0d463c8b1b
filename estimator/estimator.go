// Package estimator computes the calorie targets shown on the result page.
// Mifflin-St Jeor for BMR, fixed multipliers for TDEE, fixed kcal offsets
// for the goal tiers. Everything here is pure arithmetic.
package estimator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"fitcalc-backend/anamnesis"
)

var ErrInvalidInput = errors.New("invalid estimator input")

// Profile is the full set of derived calorie values for one input.
// Recomputing from the same input yields an identical Profile.
type Profile struct {
	BMR  int `json:"bmr"`
	TDEE int `json:"tdee"`

	// Lose-weight deficit tiers, each a fixed offset below TDEE.
	LossLight      int `json:"lossLight"`
	LossModerate   int `json:"lossModerate"`
	LossAggressive int `json:"lossAggressive"`
	DeficitLow     int `json:"deficitLow"`
	DeficitHigh    int `json:"deficitHigh"`

	// Gain-weight surplus target and safe range.
	GainTarget  int `json:"gainTarget"`
	SurplusLow  int `json:"surplusLow"`
	SurplusHigh int `json:"surplusHigh"`
}

// Estimate derives a Profile from the anamnesis answers.
//
// The questionnaire front end used to let missing numerics flow into the
// arithmetic and render NaN; here the preconditions are checked up front
// and rejected with ErrInvalidInput instead.
func Estimate(in *anamnesis.Input) (Profile, error) {
	if in == nil {
		return Profile{}, fmt.Errorf("%w: nil input", ErrInvalidInput)
	}
	if !isFinite(in.Weight) || in.Weight <= 0 {
		return Profile{}, fmt.Errorf("%w: weight", ErrInvalidInput)
	}
	if !isFinite(in.Height) || in.Height <= 0 {
		return Profile{}, fmt.Errorf("%w: height", ErrInvalidInput)
	}
	if in.Age <= 0 {
		return Profile{}, fmt.Errorf("%w: age", ErrInvalidInput)
	}
	if in.Sex != anamnesis.SexMale && in.Sex != anamnesis.SexFemale {
		return Profile{}, fmt.Errorf("%w: sex", ErrInvalidInput)
	}
	factor, ok := anamnesis.ActivityLevelFactors[in.ActivityLevel]
	if !ok {
		return Profile{}, fmt.Errorf("%w: activity level %q", ErrInvalidInput, in.ActivityLevel)
	}

	bmr := 10*in.Weight + 6.25*in.Height - 5*float64(in.Age)
	if in.Sex == anamnesis.SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}

	// TDEE is rounded after the multiplication, not before.
	tdee := bmr * factor

	return Profile{
		BMR:            round(bmr),
		TDEE:           round(tdee),
		LossLight:      round(tdee - 300),
		LossModerate:   round(tdee - 400),
		LossAggressive: round(tdee - 500),
		DeficitLow:     round(tdee - 500),
		DeficitHigh:    round(tdee - 300),
		GainTarget:     round(tdee + 400),
		SurplusLow:     round(tdee + 300),
		SurplusHigh:    round(tdee + 500),
	}, nil
}

// activityBurnKcal is the estimated kcal burned per session of each activity.
var activityBurnKcal = map[anamnesis.ActivityType]float64{
	anamnesis.ActWalking:        250,
	anamnesis.ActRunning:        500,
	anamnesis.ActWeightTraining: 300,
	anamnesis.ActFunctional:     350,
	anamnesis.ActCycling:        400,
	anamnesis.ActSwimming:       450,
}

const defaultBurnKcal = 300

// sessionsPerWeek maps exercise frequency to average weekly sessions.
var sessionsPerWeek = map[anamnesis.ExerciseFrequency]float64{
	anamnesis.ExerciseNone:       0,
	anamnesis.ExerciseOccasional: 1.5,
	anamnesis.ExerciseRegular:    3.5,
	anamnesis.ExerciseIntense:    5,
}

// Indeterminate is returned by EstimateWeeks when no progress can be made at
// the given rates. It is a display marker, not an error.
const Indeterminate = "-"

// EstimateWeeks estimates how long reaching the target weight takes, given
// the weekly kg change from diet alone plus the kcal burned by exercise
// (7700 kcal ≈ 1 kg). With no activity types selected the 300 kcal default
// stands in for the per-session mean, so an empty selection never zeroes the
// exercise contribution. Returns "~N semana(s)" up to four weeks and
// "~M mes(es)" beyond that.
func EstimateWeeks(weightDeltaKg, dietaryWeeklyKg float64, freq anamnesis.ExerciseFrequency, activities []anamnesis.ActivityType) string {
	avgBurn := float64(defaultBurnKcal)
	if len(activities) > 0 {
		sum := 0.0
		for _, a := range activities {
			burn, ok := activityBurnKcal[a]
			if !ok {
				burn = defaultBurnKcal
			}
			sum += burn
		}
		avgBurn = sum / float64(len(activities))
	}

	weeklyExerciseBurn := avgBurn * sessionsPerWeek[freq]
	weeklyExerciseKg := weeklyExerciseBurn / 7700

	totalWeeklyKg := dietaryWeeklyKg + weeklyExerciseKg
	if totalWeeklyKg <= 0 {
		return Indeterminate
	}

	weeks := int(math.Ceil(weightDeltaKg / totalWeeklyKg))
	if weeks <= 4 {
		if weeks > 1 {
			return fmt.Sprintf("~%d semanas", weeks)
		}
		return fmt.Sprintf("~%d semana", weeks)
	}
	// Half away from zero to one decimal, matching toFixed(1): 5 weeks is
	// 1.25 months and must display as 1.3, not banker's-rounded 1.2.
	m := math.Floor(float64(weeks)/4*10+0.5) / 10
	months := strings.TrimSuffix(strconv.FormatFloat(m, 'f', 1, 64), ".0")
	if m > 1 {
		return fmt.Sprintf("~%s meses", months)
	}
	return fmt.Sprintf("~%s mes", months)
}

func round(f float64) int {
	return int(math.Round(f))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
