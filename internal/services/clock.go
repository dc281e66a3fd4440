package services

import "time"

// nowFunc lets tests pin the clock.
type nowFunc func() time.Time

func defaultNow() time.Time {
	return time.Now()
}
