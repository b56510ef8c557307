package projects

import (
	"errors"
	"regexp"
	"strings"
)

var projectIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func ValidateProjectID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("project id is required")
	}
	if len(id) < 3 || len(id) > 64 {
		return errors.New("project id must be 3-64 characters")
	}
	if !projectIDRegex.MatchString(id) {
		return errors.New("project id may contain only lowercase letters, digits, and hyphens")
	}
	return nil
}

func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required")
	}
	if len(name) > 100 {
		return errors.New("name must be 100 characters or less")
	}
	return nil
}

func ValidateDescription(description string) error {
	if len(description) > 1000 {
		return errors.New("description must be 1000 characters or less")
	}
	return nil
}
