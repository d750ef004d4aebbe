package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// collectFieldErrors flattens validator errors into a field→message map,
// optionally prefixing the field path (e.g. "product.category").
func collectFieldErrors(dst map[string]string, err error, prefix string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		dst[prefix] = err.Error()
		return
	}

	for _, fe := range verrs {
		// Namespace is "Struct.Field.Sub"; drop the root struct name.
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		field := strings.ToLower(path)
		if prefix != "" {
			field = prefix + "." + field
		}

		switch fe.Tag() {
		case "required":
			dst[field] = "this field is required"
		case "max":
			dst[field] = "must be at most " + fe.Param() + " characters"
		default:
			dst[field] = "invalid value"
		}
	}
}
