package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their file names instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("content_type", func(fl validator.FieldLevel) bool {
		return domain.ValidContentTypes[fl.Field().String()]
	})
	return v
}

// ValidateSchema checks the schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateSchema(schema *ProgramSchema) []error {
	var errs []error

	if err := validate.Struct(schema); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []error{err}
		}
		for _, fe := range verrs {
			errs = append(errs, fieldError(fe))
		}
	}

	errs = append(errs, validateRefs(schema)...)
	return errs
}

func fieldError(fe validator.FieldError) error {
	field := strings.TrimPrefix(fe.Namespace(), "ProgramSchema.")
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Errorf("%s is required", field)
	case "min":
		return fmt.Errorf("%s must have at least %s entries", field, fe.Param())
	case "content_type":
		return fmt.Errorf("%s: invalid content type %q", field, fe.Value())
	default:
		return fmt.Errorf("%s: failed %q validation", field, fe.Tag())
	}
}

// validateRefs runs the cross-reference checks struct tags cannot express.
func validateRefs(schema *ProgramSchema) []error {
	var errs []error

	moduleRefs := make(map[string]bool)
	lessonRefs := make(map[string]bool)
	for mi, m := range schema.Modules {
		prefix := fmt.Sprintf("modules[%d]", mi)
		if m.Ref != "" {
			if moduleRefs[m.Ref] {
				errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, m.Ref))
			}
			moduleRefs[m.Ref] = true
		}

		for li, l := range m.Lessons {
			lprefix := fmt.Sprintf("%s.lessons[%d]", prefix, li)
			if l.Ref != "" {
				if lessonRefs[l.Ref] {
					errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", lprefix, l.Ref))
				}
				lessonRefs[l.Ref] = true
			}

			if len(l.Parts) > 0 && domain.ValidContentTypes[l.Type] && !domain.ContentType(l.Type).SupportsParts() {
				errs = append(errs, fmt.Errorf("%s.parts: %s lessons cannot have parts", lprefix, l.Type))
			}

			partRefs := make(map[string]bool)
			for pi, p := range l.Parts {
				if p.Ref == "" {
					continue
				}
				if partRefs[p.Ref] {
					errs = append(errs, fmt.Errorf("%s.parts[%d].ref: duplicate ref %q", lprefix, pi, p.Ref))
				}
				partRefs[p.Ref] = true
			}
		}
	}

	return errs
}
