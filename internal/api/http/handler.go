package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/craftlink/auth-server/internal/model"
)

// decodeAndValidate decodes a JSON request body into dst and runs the
// struct validation tags, converting failures into a ValidationError.
func decodeAndValidate(r *http.Request, validate *validator.Validate, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewValidationError("body", "malformed JSON")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = validationMessage(fe)
			}
			return &model.ValidationError{Fields: fields}
		}
		return model.NewValidationError("body", "invalid request")
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "malformed address"
	case "e164":
		return "must be an E.164 phone number"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "len":
		return "wrong length"
	case "oneof":
		return "unknown value"
	default:
		return "invalid"
	}
}
