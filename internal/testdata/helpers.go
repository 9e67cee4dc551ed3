package testdata

import "time"

// RandomString returns length random alphanumeric characters.
func RandomString(length int) string {
	return defaultGenerator.String(length)
}

// RandomNumber returns a random int in [min, max].
func RandomNumber(min, max int) int {
	return defaultGenerator.Number(min, max)
}

// CurrentDate returns today as DD-MM-YYYY.
func CurrentDate() string {
	return FormatDate(time.Now())
}

// FormatDate renders t as DD-MM-YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02-01-2006")
}
