// Package validation checks option requests and configuration sections.
//
// Struct tags are validated with go-playground/validator:
//
//	type request struct {
//	    OwnerType string `json:"owner_type" validate:"required,max=255"`
//	}
//	err := validation.Validate(req)
//
// Config sections use the programmatic Validator:
//
//	v := validation.New()
//	v.Required("database.dsn", cfg.DSN)
//	return v.Err()
//
// Both report failures as errors.AppError with code INVALID_INPUT and the
// failing fields under Details["fields"].
package validation
