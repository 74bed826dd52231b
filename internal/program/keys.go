package program

import "strings"

// Container keys route a move to a parent sequence. They mirror the editor's
// droppable IDs:
//
//	weeks                          the program's week list
//	days::<weekID>                 one week's day list
//	exercises::<weekID>::<dayID>   one day's exercise list
const (
	weekContainerKey   = "weeks"
	dayKeyPrefix       = "days"
	exerciseKeyPrefix  = "exercises"
	containerSeparator = "::"
)

// WeekContainerKey returns the key for the program's single implicit week
// container.
func WeekContainerKey() string {
	return weekContainerKey
}

// DayContainerKey returns the key for the day list of the given week.
func DayContainerKey(weekID string) string {
	return dayKeyPrefix + containerSeparator + weekID
}

// ExerciseContainerKey returns the key for the exercise list of the given
// day inside the given week.
func ExerciseContainerKey(weekID, dayID string) string {
	return exerciseKeyPrefix + containerSeparator + weekID + containerSeparator + dayID
}

// parseDayKey extracts the week ID from a "days::<weekID>" key.
func parseDayKey(key string) (weekID string, ok bool) {
	parts := strings.Split(key, containerSeparator)
	if len(parts) != 2 || parts[0] != dayKeyPrefix || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// parseExerciseKey extracts the week and day IDs from an
// "exercises::<weekID>::<dayID>" key.
func parseExerciseKey(key string) (weekID, dayID string, ok bool) {
	parts := strings.Split(key, containerSeparator)
	if len(parts) != 3 || parts[0] != exerciseKeyPrefix || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
