package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// Notifier delivers a desktop notification.
type Notifier func(title, message string) error

// Desktop sends through the OS notification service.
func Desktop(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Alert is Desktop with a sound.
func Alert(title, message string) error {
	return beeep.Alert(title, message, "")
}

// FormatDailyPrompt builds the training reminder. logged is the number of
// workouts recorded so far this week.
func FormatDailyPrompt(logged int) (string, string) {
	title := "liftlog: training day"
	switch logged {
	case 0:
		return title, "No workouts logged this week yet. Log today's session?"
	case 1:
		return title, "1 workout logged this week. Log today's session?"
	default:
		return title, fmt.Sprintf("%d workouts logged this week. Log today's session?", logged)
	}
}
