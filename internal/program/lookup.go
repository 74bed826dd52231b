package program

import "fittracker/server/internal/domain"

// WeekIndex returns the position of the week with the given ID, or -1.
func WeekIndex(weeks []domain.Week, weekID string) int {
	for i := range weeks {
		if weeks[i].ID == weekID {
			return i
		}
	}
	return -1
}

// DayIndex returns the position of the day with the given ID inside the
// week, or -1.
func DayIndex(week *domain.Week, dayID string) int {
	for i := range week.Days {
		if week.Days[i].ID == dayID {
			return i
		}
	}
	return -1
}

// FindDay locates a day by week and day ID. Returns nil when either is
// unknown.
func FindDay(weeks []domain.Week, weekID, dayID string) *domain.Day {
	wi := WeekIndex(weeks, weekID)
	if wi == -1 {
		return nil
	}
	di := DayIndex(&weeks[wi], dayID)
	if di == -1 {
		return nil
	}
	return &weeks[wi].Days[di]
}

// CountExercises returns the total number of exercises in the tree. Used by
// backup stats and a few sanity checks.
func CountExercises(weeks []domain.Week) int {
	n := 0
	for i := range weeks {
		for j := range weeks[i].Days {
			n += len(weeks[i].Days[j].Exercises)
		}
	}
	return n
}
