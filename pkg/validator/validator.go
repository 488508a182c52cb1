package validator

import (
	"net/mail"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// RegisterUserInput is the subset of the registration payload that is
// validated at the transport boundary before it reaches the service.
type RegisterUserInput struct {
	DeviceID    string
	Name        string
	NetID       string
	GradYear    int
	Age         int
	Gender      int
	SleepTime   int
	Cleanliness int
	City        string
	State       string
	Email       string
}

func ValidateRegisterUser(in RegisterUserInput) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(in.DeviceID) == "" {
		errs.Add("device_id", "Device ID is required")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs.Add("name", "Name is required")
	} else if len(name) > 100 {
		errs.Add("name", "Name is too long")
	}

	if strings.TrimSpace(in.NetID) == "" {
		errs.Add("netid", "NetID is required")
	}

	if in.GradYear < 1900 || in.GradYear > 2100 {
		errs.Add("grad_year", "Graduation year must be a four-digit year")
	}

	if in.Age < 16 || in.Age > 120 {
		errs.Add("age", "Age must be between 16 and 120")
	}

	if in.Gender < 0 {
		errs.Add("gender", "Gender must be a non-negative category")
	}
	if in.SleepTime < 0 {
		errs.Add("sleep_time", "Sleep time must be a non-negative category")
	}
	if in.Cleanliness < 0 {
		errs.Add("cleanliness", "Cleanliness must be a non-negative category")
	}

	if strings.TrimSpace(in.City) == "" {
		errs.Add("city", "City is required")
	}
	if strings.TrimSpace(in.State) == "" {
		errs.Add("state", "State is required")
	}

	if email := strings.TrimSpace(in.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errs.Add("email", "Invalid email address")
		}
	}

	return errs
}
