package helper

import (
	"regexp"

	"unimart-io/unimart_api/configs"
)

var shopUsernamePattern = regexp.MustCompile("^[a-zA-Z0-9_]{3,30}$")

func ValidateShopName(name string) error {
	if len(name) < 2 || len(name) > 60 {
		return &configs.InputValidationError{
			Message: "Shop name must be between 2 and 60 characters",
			Field:   "name",
			Tag:     "len",
		}
	}
	return nil
}

func ValidateShopUserName(username string) error {
	if !shopUsernamePattern.MatchString(username) {
		return &configs.InputValidationError{
			Message: "Shop username may only contain letters, digits and underscores (3-30 characters)",
			Field:   "username",
			Tag:     "pattern",
		}
	}
	return nil
}

func ValidateShopDescription(description string) error {
	if len(description) > 2000 {
		return &configs.InputValidationError{
			Message: "Shop description may not exceed 2000 characters",
			Field:   "description",
			Tag:     "max",
		}
	}
	return nil
}
