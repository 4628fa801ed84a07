package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldLabels maps struct field names to user-friendly labels
var fieldLabels = map[string]string{
	"CandidateID":        "Candidate",
	"JobID":              "Job",
	"ApplicationID":      "Application",
	"ScheduledAt":        "Scheduled time",
	"DurationMinutes":    "Duration (minutes)",
	"MeetingType":        "Meeting type",
	"MeetingTool":        "Meeting tool",
	"MeetingLink":        "Meeting link",
	"Location":           "Location",
	"Notes":              "Notes",
	"Salary":             "Salary",
	"Currency":           "Currency",
	"JoiningDate":        "Joining date",
	"ExpiresAt":          "Expiry date",
	"AdditionalBenefits": "Additional benefits",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Split(param, " "), ", "))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "uuid4":
		return fmt.Sprintf("%s must be a valid identifier", label)
	case "future_time":
		return fmt.Sprintf("%s must be in the future", label)
	case "currency_code":
		return fmt.Sprintf("%s must be a 3-letter ISO currency code", label)
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := fieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
