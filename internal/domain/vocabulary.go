package domain

import "slices"

// Muscle is a muscle-group identifier. The stored vocabulary is open; the
// constants below are the groups used by the seed dataset.
type Muscle string

const (
	MuscleAbdominals Muscle = "abdominals"
	MuscleAbductors  Muscle = "abductors"
	MuscleAdductors  Muscle = "adductors"
	MuscleBiceps     Muscle = "biceps"
	MuscleCalves     Muscle = "calves"
	MuscleChest      Muscle = "chest"
	MuscleForearms   Muscle = "forearms"
	MuscleGlutes     Muscle = "glutes"
	MuscleHamstrings Muscle = "hamstrings"
	MuscleLats       Muscle = "lats"
	MuscleLowerBack  Muscle = "lower back"
	MuscleMiddleBack Muscle = "middle back"
	MuscleNeck       Muscle = "neck"
	MuscleQuadriceps Muscle = "quadriceps"
	MuscleShoulders  Muscle = "shoulders"
	MuscleTraps      Muscle = "traps"
	MuscleTriceps    Muscle = "triceps"
)

// Equipment is an equipment identifier, open like Muscle.
type Equipment string

const (
	EquipmentBands        Equipment = "bands"
	EquipmentBarbell      Equipment = "barbell"
	EquipmentBodyOnly     Equipment = "body only"
	EquipmentCable        Equipment = "cable"
	EquipmentDumbbell     Equipment = "dumbbell"
	EquipmentEZCurlBar    Equipment = "e-z curl bar"
	EquipmentExerciseBall Equipment = "exercise ball"
	EquipmentFoamRoll     Equipment = "foam roll"
	EquipmentKettlebells  Equipment = "kettlebells"
	EquipmentMachine      Equipment = "machine"
	EquipmentMedicineBall Equipment = "medicine ball"
	EquipmentOther        Equipment = "other"
)

// KnownMuscles lists the dataset muscle groups in lexicographic order.
var KnownMuscles = []Muscle{
	MuscleAbdominals, MuscleAbductors, MuscleAdductors, MuscleBiceps, MuscleCalves,
	MuscleChest, MuscleForearms, MuscleGlutes, MuscleHamstrings, MuscleLats,
	MuscleLowerBack, MuscleMiddleBack, MuscleNeck, MuscleQuadriceps, MuscleShoulders,
	MuscleTraps, MuscleTriceps,
}

// KnownEquipment lists the dataset equipment values in lexicographic order.
var KnownEquipment = []Equipment{
	EquipmentBands, EquipmentBarbell, EquipmentBodyOnly, EquipmentCable, EquipmentDumbbell,
	EquipmentEZCurlBar, EquipmentExerciseBall, EquipmentFoamRoll, EquipmentKettlebells,
	EquipmentMachine, EquipmentMedicineBall, EquipmentOther,
}

// IsKnown reports whether m belongs to the dataset vocabulary. Matching never
// depends on this; it is used for import warnings only.
func (m Muscle) IsKnown() bool { return slices.Contains(KnownMuscles, m) }

// IsKnown reports whether e belongs to the dataset vocabulary.
func (e Equipment) IsKnown() bool { return slices.Contains(KnownEquipment, e) }

// MuscleNames returns KnownMuscles as plain strings.
func MuscleNames() []string {
	out := make([]string, len(KnownMuscles))
	for i, m := range KnownMuscles {
		out[i] = string(m)
	}
	return out
}

// EquipmentNames returns KnownEquipment as plain strings.
func EquipmentNames() []string {
	out := make([]string, len(KnownEquipment))
	for i, e := range KnownEquipment {
		out[i] = string(e)
	}
	return out
}
