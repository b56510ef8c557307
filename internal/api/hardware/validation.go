package hardware

import (
	"errors"
	"regexp"
	"strings"
)

var poolNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

func ValidatePoolName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("pool name is required")
	}
	if len(name) > 64 {
		return errors.New("pool name must be 64 characters or less")
	}
	if !poolNameRegex.MatchString(name) {
		return errors.New("pool name may contain only letters, digits, - and _")
	}
	return nil
}
