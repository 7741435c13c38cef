// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var (
	timeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	dateRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Allows + prefix followed by 7-15 digits
	regex := `^\+?[1-9]\d{1,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}

// ValidateTime checks a 24h "HH:MM" wall-clock string
func ValidateTime(hhmm string) bool {
	return timeRegex.MatchString(hhmm)
}

// ValidateDate checks a "YYYY-MM-DD" calendar date string
func ValidateDate(date string) bool {
	return dateRegex.MatchString(date)
}
