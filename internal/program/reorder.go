// Package program implements the hierarchical reordering engine for the
// week/day/exercise tree of a workout program. All operations are pure: they
// return a new tree (copy-on-write along the affected path) and never touch
// branches that did not participate in the move.
package program

import "fittracker/server/internal/domain"

// Level selects which nesting level of the tree a move operates on.
type Level string

const (
	LevelWeek     Level = "week"
	LevelDay      Level = "day"
	LevelExercise Level = "exercise"
)

// Position identifies a slot inside a container.
type Position struct {
	ContainerKey string `json:"containerKey"`
	Index        int    `json:"index"`
}

// Move describes a single drag operation. A nil Destination means the drag
// was cancelled and the move is a no-op.
type Move struct {
	Level       Level     `json:"level"`
	Source      Position  `json:"source"`
	Destination *Position `json:"destination"`
}

// ApplyMove computes the tree after a single move. The returned bool reports
// whether anything changed; when false the input slice is returned as-is.
//
// Malformed descriptors (unknown container IDs, out-of-range indices, bad
// keys) are absorbed as silent no-ops: during interactive dragging a stale
// identifier from a concurrent edit must not crash the editing surface.
func ApplyMove(weeks []domain.Week, mv Move) ([]domain.Week, bool) {
	if mv.Destination == nil {
		return weeks, false
	}
	src := mv.Source
	dst := *mv.Destination
	if src.ContainerKey == dst.ContainerKey && src.Index == dst.Index {
		return weeks, false
	}

	switch mv.Level {
	case LevelWeek:
		return moveWeek(weeks, src, dst)
	case LevelDay:
		return moveDay(weeks, src, dst)
	case LevelExercise:
		return moveExercise(weeks, src, dst)
	}
	return weeks, false
}

// moveWeek reorders the program's single implicit week container. Weeks
// never move across containers.
func moveWeek(weeks []domain.Week, src, dst Position) ([]domain.Week, bool) {
	if src.ContainerKey != weekContainerKey || dst.ContainerKey != weekContainerKey {
		return weeks, false
	}
	out, ok := reorderWithin(weeks, src.Index, dst.Index)
	if !ok {
		return weeks, false
	}
	return out, true
}

func moveDay(weeks []domain.Week, src, dst Position) ([]domain.Week, bool) {
	srcWeekID, ok := parseDayKey(src.ContainerKey)
	if !ok {
		return weeks, false
	}
	dstWeekID, ok := parseDayKey(dst.ContainerKey)
	if !ok {
		return weeks, false
	}

	swi := WeekIndex(weeks, srcWeekID)
	if swi == -1 {
		return weeks, false
	}

	if srcWeekID == dstWeekID {
		days, ok := reorderWithin(weeks[swi].Days, src.Index, dst.Index)
		if !ok {
			return weeks, false
		}
		out := make([]domain.Week, len(weeks))
		copy(out, weeks)
		out[swi].Days = days
		return out, true
	}

	dwi := WeekIndex(weeks, dstWeekID)
	if dwi == -1 {
		return weeks, false
	}
	if src.Index < 0 || src.Index >= len(weeks[swi].Days) {
		return weeks, false
	}
	if dst.Index < 0 || dst.Index > len(weeks[dwi].Days) {
		return weeks, false
	}

	srcDays, moved := removeAt(weeks[swi].Days, src.Index)
	dstDays := insertAt(weeks[dwi].Days, dst.Index, moved)

	out := make([]domain.Week, len(weeks))
	copy(out, weeks)
	out[swi].Days = srcDays
	out[dwi].Days = dstDays
	return out, true
}

func moveExercise(weeks []domain.Week, src, dst Position) ([]domain.Week, bool) {
	srcWeekID, srcDayID, ok := parseExerciseKey(src.ContainerKey)
	if !ok {
		return weeks, false
	}
	dstWeekID, dstDayID, ok := parseExerciseKey(dst.ContainerKey)
	if !ok {
		return weeks, false
	}

	swi := WeekIndex(weeks, srcWeekID)
	if swi == -1 {
		return weeks, false
	}
	sdi := DayIndex(&weeks[swi], srcDayID)
	if sdi == -1 {
		return weeks, false
	}

	if srcWeekID == dstWeekID && srcDayID == dstDayID {
		exercises, ok := reorderWithin(weeks[swi].Days[sdi].Exercises, src.Index, dst.Index)
		if !ok {
			return weeks, false
		}
		out := make([]domain.Week, len(weeks))
		copy(out, weeks)
		days := make([]domain.Day, len(out[swi].Days))
		copy(days, out[swi].Days)
		days[sdi].Exercises = exercises
		out[swi].Days = days
		return out, true
	}

	dwi := WeekIndex(weeks, dstWeekID)
	if dwi == -1 {
		return weeks, false
	}
	ddi := DayIndex(&weeks[dwi], dstDayID)
	if ddi == -1 {
		return weeks, false
	}

	srcExercises := weeks[swi].Days[sdi].Exercises
	dstExercises := weeks[dwi].Days[ddi].Exercises
	if src.Index < 0 || src.Index >= len(srcExercises) {
		return weeks, false
	}
	if dst.Index < 0 || dst.Index > len(dstExercises) {
		return weeks, false
	}

	newSrc, moved := removeAt(srcExercises, src.Index)
	newDst := insertAt(dstExercises, dst.Index, moved)

	out := make([]domain.Week, len(weeks))
	copy(out, weeks)

	srcDays := make([]domain.Day, len(out[swi].Days))
	copy(srcDays, out[swi].Days)
	srcDays[sdi].Exercises = newSrc
	out[swi].Days = srcDays

	// The destination day may live in the same week; reuse the already
	// copied day slice in that case so both patches land.
	dstDays := srcDays
	if dwi != swi {
		dstDays = make([]domain.Day, len(out[dwi].Days))
		copy(dstDays, out[dwi].Days)
	}
	dstDays[ddi].Exercises = newDst
	out[dwi].Days = dstDays
	return out, true
}

// reorderWithin extracts the item at from and reinserts it at to. The
// destination index is interpreted against the already-shortened sequence,
// matching standard drag-list semantics.
func reorderWithin[T any](items []T, from, to int) ([]T, bool) {
	if from < 0 || from >= len(items) {
		return nil, false
	}
	rest, moved := removeAt(items, from)
	if to < 0 || to > len(rest) {
		return nil, false
	}
	return insertAt(rest, to, moved), true
}

func removeAt[T any](s []T, i int) ([]T, T) {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out, s[i]
}

func insertAt[T any](s []T, i int, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	out = append(out, s[i:]...)
	return out
}
