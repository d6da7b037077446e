package http

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/invoicing-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores usan el nombre de json/form/query, que es el que ve el cliente.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// validateStruct valida las etiquetas `validate` y devuelve un *domain.ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := domain.NewValidationError()
	for _, fe := range verrs {
		out.Add(fieldPath(fe), validationMessage(fe))
	}
	return out
}

// fieldPath quita el struct raíz y los embebidos y normaliza índices:
// Req.items[0].quantity -> items.0.quantity, Req.ProfileFields.full_name -> full_name.
func fieldPath(fe validator.FieldError) string {
	ns := strings.NewReplacer("[", ".", "]", "").Replace(fe.Namespace())
	parts := strings.Split(ns, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts[1:] {
		if p == "" || unicode.IsUpper(rune(p[0])) {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return fe.Field()
	}
	return strings.Join(out, ".")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "requerido"
	case "email":
		return "email inválido"
	case "uuid":
		return "identificador inválido"
	case "datetime":
		return "fecha inválida, formato " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return "debe incluir al menos " + fe.Param() + " elemento(s)"
		}
		if fe.Kind() == reflect.String {
			return "mínimo " + fe.Param() + " caracteres"
		}
		return "debe ser al menos " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "máximo " + fe.Param() + " caracteres"
		}
		return "debe ser como máximo " + fe.Param()
	case "len":
		return "debe tener " + fe.Param() + " caracteres"
	case "eqfield":
		return "no coincide"
	case "hexcolor":
		return "color hexadecimal inválido"
	case "alphanum":
		return "solo letras y números"
	case "alpha":
		return "solo letras"
	default:
		return "valor inválido"
	}
}
