package program

import (
	"testing"

	"fittracker/server/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(id, name string) domain.Exercise {
	return domain.Exercise{ID: id, Name: name, Sets: "3", Reps: "10", Rest: "60"}
}

// twoWeekTree builds W1{D1{E1,E2,E3}, D2{E4}}, W2{D3{E5,E6}}.
func twoWeekTree() []domain.Week {
	return []domain.Week{
		{
			ID: "w1", Name: "Week 1", Number: 1,
			Days: []domain.Day{
				{ID: "d1", Name: "Push", Exercises: []domain.Exercise{
					exercise("e1", "Bench Press"),
					exercise("e2", "Incline Press"),
					exercise("e3", "Dips"),
				}},
				{ID: "d2", Name: "Pull", Exercises: []domain.Exercise{
					exercise("e4", "Deadlift"),
				}},
			},
		},
		{
			ID: "w2", Name: "Week 2", Number: 2,
			Days: []domain.Day{
				{ID: "d3", Name: "Legs", Exercises: []domain.Exercise{
					exercise("e5", "Squat"),
					exercise("e6", "Leg Press"),
				}},
			},
		},
	}
}

func cloneTree(weeks []domain.Week) []domain.Week {
	out := make([]domain.Week, len(weeks))
	copy(out, weeks)
	for i := range out {
		days := make([]domain.Day, len(out[i].Days))
		copy(days, out[i].Days)
		for j := range days {
			ex := make([]domain.Exercise, len(days[j].Exercises))
			copy(ex, days[j].Exercises)
			days[j].Exercises = ex
		}
		out[i].Days = days
	}
	return out
}

func exerciseIDs(d domain.Day) []string {
	ids := make([]string, len(d.Exercises))
	for i, e := range d.Exercises {
		ids[i] = e.ID
	}
	return ids
}

func dayIDs(w domain.Week) []string {
	ids := make([]string, len(w.Days))
	for i, d := range w.Days {
		ids[i] = d.ID
	}
	return ids
}

func weekIDs(weeks []domain.Week) []string {
	ids := make([]string, len(weeks))
	for i, w := range weeks {
		ids[i] = w.ID
	}
	return ids
}

func TestApplyMoveExerciseWithinDay(t *testing.T) {
	weeks := twoWeekTree()
	before := cloneTree(weeks)

	// Scenario A: move E1 from index 0 to index 2 within D1.
	got, changed := ApplyMove(weeks, Move{
		Level:       LevelExercise,
		Source:      Position{ContainerKey: ExerciseContainerKey("w1", "d1"), Index: 0},
		Destination: &Position{ContainerKey: ExerciseContainerKey("w1", "d1"), Index: 2},
	})
	require.True(t, changed, "move should report a change")
	assert.Equal(t, []string{"e2", "e3", "e1"}, exerciseIDs(got[0].Days[0]))

	// The moved exercise keeps its content.
	assert.Equal(t, "Bench Press", got[0].Days[0].Exercises[2].Name)

	// Non-participating branches are content-equal to the input.
	assert.Empty(t, cmp.Diff(before[0].Days[1], got[0].Days[1]), "sibling day changed")
	assert.Empty(t, cmp.Diff(before[1], got[1]), "other week changed")

	// The input tree is not mutated.
	assert.Empty(t, cmp.Diff(before, weeks), "input tree mutated")
}

func TestApplyMoveExerciseWithinDayPermutations(t *testing.T) {
	tests := []struct {
		name string
		from int
		to   int
		want []string
	}{
		{"first to last", 0, 2, []string{"e2", "e3", "e1"}},
		{"last to first", 2, 0, []string{"e3", "e1", "e2"}},
		{"middle down", 1, 2, []string{"e1", "e3", "e2"}},
		{"middle up", 1, 0, []string{"e2", "e1", "e3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := ExerciseContainerKey("w1", "d1")
			got, changed := ApplyMove(twoWeekTree(), Move{
				Level:       LevelExercise,
				Source:      Position{ContainerKey: key, Index: tt.from},
				Destination: &Position{ContainerKey: key, Index: tt.to},
			})
			require.True(t, changed)
			assert.Equal(t, tt.want, exerciseIDs(got[0].Days[0]))
		})
	}
}

func TestApplyMoveExerciseAcrossDaysSameWeek(t *testing.T) {
	weeks := twoWeekTree()
	got, changed := ApplyMove(weeks, Move{
		Level:       LevelExercise,
		Source:      Position{ContainerKey: ExerciseContainerKey("w1", "d1"), Index: 1},
		Destination: &Position{ContainerKey: ExerciseContainerKey("w1", "d2"), Index: 0},
	})
	require.True(t, changed)
	assert.Equal(t, []string{"e1", "e3"}, exerciseIDs(got[0].Days[0]))
	assert.Equal(t, []string{"e2", "e4"}, exerciseIDs(got[0].Days[1]))
	// Count is conserved across the two containers.
	assert.Equal(t, 4, len(got[0].Days[0].Exercises)+len(got[0].Days[1].Exercises))
}

func TestApplyMoveExerciseAcrossWeeks(t *testing.T) {
	weeks := twoWeekTree()
	before := cloneTree(weeks)

	got, changed := ApplyMove(weeks, Move{
		Level:       LevelExercise,
		Source:      Position{ContainerKey: ExerciseContainerKey("w1", "d1"), Index: 0},
		Destination: &Position{ContainerKey: ExerciseContainerKey("w2", "d3"), Index: 2},
	})
	require.True(t, changed)
	assert.Equal(t, []string{"e2", "e3"}, exerciseIDs(got[0].Days[0]))
	assert.Equal(t, []string{"e5", "e6", "e1"}, exerciseIDs(got[1].Days[0]))

	// The moved exercise arrives structurally unchanged.
	assert.Empty(t, cmp.Diff(before[0].Days[0].Exercises[0], got[1].Days[0].Exercises[2]))

	// Days outside the two affected containers are untouched.
	assert.Empty(t, cmp.Diff(before[0].Days[1], got[0].Days[1]))
	assert.Empty(t, cmp.Diff(before, weeks), "input tree mutated")
}

func TestApplyMoveDayWithinWeek(t *testing.T) {
	got, changed := ApplyMove(twoWeekTree(), Move{
		Level:       LevelDay,
		Source:      Position{ContainerKey: DayContainerKey("w1"), Index: 0},
		Destination: &Position{ContainerKey: DayContainerKey("w1"), Index: 1},
	})
	require.True(t, changed)
	assert.Equal(t, []string{"d2", "d1"}, dayIDs(got[0]))
	// Day contents ride along with the move.
	assert.Equal(t, []string{"e1", "e2", "e3"}, exerciseIDs(got[0].Days[1]))
}

func TestApplyMoveDayAcrossWeeks(t *testing.T) {
	// Scenario B: W1{D1{E1}}, W2{D2{E2}}; move D1 to W2 index 1.
	weeks := []domain.Week{
		{ID: "w1", Name: "Week 1", Days: []domain.Day{
			{ID: "d1", Name: "A", Exercises: []domain.Exercise{exercise("e1", "Squat")}},
		}},
		{ID: "w2", Name: "Week 2", Days: []domain.Day{
			{ID: "d2", Name: "B", Exercises: []domain.Exercise{exercise("e2", "Bench")}},
		}},
	}

	got, changed := ApplyMove(weeks, Move{
		Level:       LevelDay,
		Source:      Position{ContainerKey: DayContainerKey("w1"), Index: 0},
		Destination: &Position{ContainerKey: DayContainerKey("w2"), Index: 1},
	})
	require.True(t, changed)
	assert.Empty(t, got[0].Days)
	assert.Equal(t, []string{"d2", "d1"}, dayIDs(got[1]))
	// The moved day carries its descendants unchanged.
	assert.Equal(t, []string{"e1"}, exerciseIDs(got[1].Days[1]))
}

func TestApplyMoveWeek(t *testing.T) {
	got, changed := ApplyMove(twoWeekTree(), Move{
		Level:       LevelWeek,
		Source:      Position{ContainerKey: WeekContainerKey(), Index: 0},
		Destination: &Position{ContainerKey: WeekContainerKey(), Index: 1},
	})
	require.True(t, changed)
	assert.Equal(t, []string{"w2", "w1"}, weekIDs(got))
	// Week ordinals are advisory and must not be rewritten by a reorder.
	assert.Equal(t, 2, got[0].Number)
	assert.Equal(t, 1, got[1].Number)
}

func TestApplyMoveNoOps(t *testing.T) {
	dayKey := DayContainerKey("w1")
	exKey := ExerciseContainerKey("w1", "d1")

	tests := []struct {
		name string
		mv   Move
	}{
		{"cancelled drag", Move{
			Level:  LevelExercise,
			Source: Position{ContainerKey: exKey, Index: 0},
		}},
		{"identity", Move{
			Level:       LevelExercise,
			Source:      Position{ContainerKey: exKey, Index: 1},
			Destination: &Position{ContainerKey: exKey, Index: 1},
		}},
		{"unknown week", Move{
			Level:       LevelDay,
			Source:      Position{ContainerKey: DayContainerKey("nope"), Index: 0},
			Destination: &Position{ContainerKey: dayKey, Index: 0},
		}},
		{"unknown day", Move{
			Level:       LevelExercise,
			Source:      Position{ContainerKey: ExerciseContainerKey("w1", "nope"), Index: 0},
			Destination: &Position{ContainerKey: exKey, Index: 0},
		}},
		{"source index out of range", Move{
			Level:       LevelExercise,
			Source:      Position{ContainerKey: exKey, Index: 3},
			Destination: &Position{ContainerKey: exKey, Index: 0},
		}},
		{"destination index out of range", Move{
			Level:       LevelExercise,
			Source:      Position{ContainerKey: exKey, Index: 0},
			Destination: &Position{ContainerKey: exKey, Index: 3},
		}},
		{"negative source index", Move{
			Level:       LevelWeek,
			Source:      Position{ContainerKey: WeekContainerKey(), Index: -1},
			Destination: &Position{ContainerKey: WeekContainerKey(), Index: 0},
		}},
		{"malformed container key", Move{
			Level:       LevelDay,
			Source:      Position{ContainerKey: "days", Index: 0},
			Destination: &Position{ContainerKey: dayKey, Index: 0},
		}},
		{"week move with foreign container", Move{
			Level:       LevelWeek,
			Source:      Position{ContainerKey: WeekContainerKey(), Index: 0},
			Destination: &Position{ContainerKey: dayKey, Index: 0},
		}},
		{"unknown level", Move{
			Level:       Level("month"),
			Source:      Position{ContainerKey: WeekContainerKey(), Index: 0},
			Destination: &Position{ContainerKey: WeekContainerKey(), Index: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weeks := twoWeekTree()
			before := cloneTree(weeks)
			got, changed := ApplyMove(weeks, tt.mv)
			assert.False(t, changed, "no-op should not report a change")
			assert.Empty(t, cmp.Diff(before, got), "no-op should return the tree unchanged")
		})
	}
}

func TestApplyMoveDestinationEndOfCrossContainer(t *testing.T) {
	// Insertion bound for a cross-container move is the destination length,
	// inclusive (append position).
	weeks := twoWeekTree()
	got, changed := ApplyMove(weeks, Move{
		Level:       LevelDay,
		Source:      Position{ContainerKey: DayContainerKey("w1"), Index: 1},
		Destination: &Position{ContainerKey: DayContainerKey("w2"), Index: 1},
	})
	require.True(t, changed)
	assert.Equal(t, []string{"d1"}, dayIDs(got[0]))
	assert.Equal(t, []string{"d3", "d2"}, dayIDs(got[1]))
}

func TestApplyMoveEmptySourceContainer(t *testing.T) {
	weeks := []domain.Week{{ID: "w1", Name: "Week 1"}}
	got, changed := ApplyMove(weeks, Move{
		Level:       LevelDay,
		Source:      Position{ContainerKey: DayContainerKey("w1"), Index: 0},
		Destination: &Position{ContainerKey: DayContainerKey("w1"), Index: 1},
	})
	assert.False(t, changed)
	assert.Empty(t, cmp.Diff(weeks, got))
}
