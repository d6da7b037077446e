package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
)

// ErrInvoiceNumberTaken colisión del número de factura contra el índice único.
var ErrInvoiceNumberTaken = &wrapped{msg: "el número de factura ya existe", base: ErrDuplicate}

type wrapped struct {
	msg  string
	base error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.base }

// ValidationError agrupa mensajes por campo. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError crea un ValidationError vacío.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add registra el mensaje de un campo. Conserva el primer mensaje si el campo ya existe.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
	return e
}

// Merge incorpora los campos de err si es un ValidationError. Devuelve false si err no lo es.
func (e *ValidationError) Merge(err error) bool {
	var other *ValidationError
	if !errors.As(err, &other) {
		return false
	}
	for f, m := range other.Fields {
		e.Add(f, m)
	}
	return true
}

// Empty indica si no hay campos con error.
func (e *ValidationError) Empty() bool { return e == nil || len(e.Fields) == 0 }

// OrNil devuelve nil cuando no hay errores, para poder retornar el resultado directamente.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "datos inválidos: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
