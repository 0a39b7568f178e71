package leads

import (
	"strings"

	"github.com/asaskevich/govalidator"

	"homeleads/pkg/apperrors"
)

// Validation happens before any persistence; a rejected submission leaves no
// rows behind.

func validatePerson(firstName, lastName, email string) error {
	if strings.TrimSpace(firstName) == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "first_name is required")
	}
	if !govalidator.StringLength(strings.TrimSpace(firstName), "1", "100") {
		return apperrors.New(apperrors.CodeInvalidInput, "first_name too long")
	}
	if strings.TrimSpace(lastName) == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "last_name is required")
	}
	if !govalidator.StringLength(strings.TrimSpace(lastName), "1", "100") {
		return apperrors.New(apperrors.CodeInvalidInput, "last_name too long")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "email is required")
	}
	if !govalidator.StringLength(email, "1", "255") || !govalidator.IsEmail(email) {
		return apperrors.New(apperrors.CodeInvalidInput, "invalid email")
	}
	return nil
}

func validateContactRequest(req ContactRequest) error {
	if err := validatePerson(req.FirstName, req.LastName, req.Email); err != nil {
		return err
	}
	if strings.TrimSpace(req.Message) == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "message is required")
	}
	if !govalidator.StringLength(req.Message, "1", "5000") {
		return apperrors.New(apperrors.CodeInvalidInput, "message too long")
	}
	return nil
}

func validateOpenHouseRequest(req OpenHouseRequest) error {
	if strings.TrimSpace(req.Address) == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "address is required")
	}
	return validatePerson(req.FirstName, req.LastName, req.Email)
}

func validateEventRequest(req EventRequest) error {
	if strings.TrimSpace(req.EventName) == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "event_name is required")
	}
	return validatePerson(req.FirstName, req.LastName, req.Email)
}
