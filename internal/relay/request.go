package relay

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator builds a validator that reports field names by their JSON tag,
// so failures read as "db_name ..." rather than "DBName ...".
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Request carries the two caller-supplied fields resolved against the
// upstream. Field values pass through to the upstream payload verbatim:
// no trimming, no case folding, no default substitution.
type Request struct {
	DBName string `json:"db_name" validate:"required"`
	Region string `json:"region"  validate:"required"`
}

// Validate rejects requests with absent or empty fields. Whitespace-only
// values are accepted here; the upstream owns any stricter semantics.
func (q Request) Validate() error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s is required and must be a non-empty string", fe.Field()))
	}
	return errors.Join(errs...)
}
