package utils

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/storefrontlabs/storefront-api/internal/errors"
	"github.com/storefrontlabs/storefront-api/internal/utils/response"
)

func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))
		return false
	}

	if err := validate.Struct(dest); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			response.ValidationError(w, validationErrs)
		} else {
			response.Error(w, errors.ValidationError("Invalid input data").WithError(err))
		}

		return false
	}

	return true
}
