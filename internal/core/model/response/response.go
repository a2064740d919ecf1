package response

import (
	"time"
)

const DateLayout = "2006-01-02"

// UsuarioResponse is the listing projection. Document and zip stay out of
// it on purpose.
type UsuarioResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
}

// UsuarioForUpdateResponse is the edit projection served to the update form.
type UsuarioForUpdateResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	BirthDate     string `json:"birth_date"`
	Document      string `json:"document"`
	Zip           string `json:"zip"`
	AddressNumber int    `json:"address_number"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse mirrors the wire shape consumed by the front end:
// code, message, optional per-field details and a timestamp.
type ErrorResponse struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   []string  `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
