// Package gametime maps real-world clock hours onto ChatWars day phases.
package gametime

import "time"

// Label is a ChatWars time-of-day phase.
type Label string

const (
	Morning Label = "morning"
	Day     Label = "day"
	Evening Label = "evening"
	Night   Label = "night"
)

// hourTable is the fixed hour-of-day lookup used by the game.
// The game day cycles faster than a real day, so phases repeat
// three times across 24 hours with an offset at midnight.
var hourTable = [24]Label{
	Morning, Day, Day, Evening, Evening, Night, Night,
	Morning, Morning, Day, Day, Evening, Evening, Night, Night,
	Morning, Morning, Day, Day, Evening, Evening, Night, Night,
	Morning,
}

// Classify returns the game phase for the given moment's hour.
func Classify(t time.Time) Label {
	return hourTable[t.Hour()]
}

// ClassifyHour returns the game phase for an hour in [0, 23].
func ClassifyHour(hour int) Label {
	return hourTable[hour]
}
