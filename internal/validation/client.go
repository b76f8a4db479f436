package validation

import (
	"regexp"
	"strings"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/domain"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/apierr"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/dates"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/requests"
)

var (
	emailRe        = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe        = regexp.MustCompile(`^\+?[0-9 .\-]{7,20}$`)
	companyIdentRe = regexp.MustCompile(`^[A-Z]{3}-\d{3}$`)
)

// ClientCreate checks the plain field rules and the type-conditional rule for
// a single client-creation payload. It runs before any persistence or
// uniqueness work, so a malformed payload never reaches storage.
func ClientCreate(req *requests.ClientCreate) []apierr.FieldError {
	var errs []apierr.FieldError

	if strings.TrimSpace(req.Type) == "" {
		errs = append(errs, apierr.FieldError{Field: "type", Message: "type is required"})
	} else if !domain.ClientType(req.Type).Valid() {
		errs = append(errs, apierr.FieldError{
			Field:         "type",
			Message:       "type must be PERSON or COMPANY",
			RejectedValue: req.Type,
		})
	}

	errs = append(errs, contactFields(req.Name, req.Email, req.Phone)...)
	errs = append(errs, clientTypeRule(req)...)

	return errs
}

// clientTypeRule is the cross-field conditional check: PERSON requires a
// birthdate, COMPANY requires a companyIdentifier. When type itself is
// absent or unknown the required-type error above already covers it and no
// additional error is reported.
func clientTypeRule(req *requests.ClientCreate) []apierr.FieldError {
	var errs []apierr.FieldError

	switch domain.ClientType(req.Type) {
	case domain.ClientTypePerson:
		if req.Birthdate == nil {
			errs = append(errs, apierr.FieldError{
				Field:   "birthdate",
				Message: "birthdate is required for PERSON",
			})
		} else if req.Birthdate.Time.After(dates.Today()) {
			errs = append(errs, apierr.FieldError{
				Field:         "birthdate",
				Message:       "birthdate must not be in the future",
				RejectedValue: dates.Format(req.Birthdate.Time),
			})
		}
	case domain.ClientTypeCompany:
		if req.CompanyIdentifier == nil || strings.TrimSpace(*req.CompanyIdentifier) == "" {
			errs = append(errs, apierr.FieldError{
				Field:   "companyIdentifier",
				Message: "companyIdentifier is required for COMPANY",
			})
		} else if !companyIdentRe.MatchString(*req.CompanyIdentifier) {
			errs = append(errs, apierr.FieldError{
				Field:         "companyIdentifier",
				Message:       "companyIdentifier must match AAA-000",
				RejectedValue: *req.CompanyIdentifier,
			})
		}
	}

	return errs
}

// ClientCreateBatch validates every item and tags each error with its index.
func ClientCreateBatch(items []requests.ClientCreate) []apierr.FieldError {
	var errs []apierr.FieldError
	for i := range items {
		errs = append(errs, apierr.At(i, ClientCreate(&items[i]))...)
	}
	return errs
}

func ClientUpdate(req *requests.ClientUpdate) []apierr.FieldError {
	return contactFields(req.Name, req.Email, req.Phone)
}

func contactFields(name, email, phone string) []apierr.FieldError {
	var errs []apierr.FieldError

	if strings.TrimSpace(name) == "" {
		errs = append(errs, apierr.FieldError{Field: "name", Message: "name must not be blank"})
	}

	if strings.TrimSpace(email) == "" {
		errs = append(errs, apierr.FieldError{Field: "email", Message: "email must not be blank"})
	} else if !emailRe.MatchString(email) {
		errs = append(errs, apierr.FieldError{
			Field:         "email",
			Message:       "email must be a valid email address",
			RejectedValue: email,
		})
	}

	if strings.TrimSpace(phone) == "" {
		errs = append(errs, apierr.FieldError{Field: "phone", Message: "phone must not be blank"})
	} else if !phoneRe.MatchString(phone) {
		errs = append(errs, apierr.FieldError{
			Field:         "phone",
			Message:       "phone must match ^\\+?[0-9 .\\-]{7,20}$",
			RejectedValue: phone,
		})
	}

	return errs
}
