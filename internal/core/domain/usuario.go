package domain

import (
	"time"
)

type Usuario struct {
	ID            int64
	Name          string `validate:"required,min=3,max=100"`
	BirthDate     time.Time
	Document      string `validate:"required,len=11,numeric"`
	Zip           string `validate:"required,len=8,numeric"`
	AddressNumber int
	AddressLine   string
	City          string
	State         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (u *Usuario) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":             u.ID,
		"name":           u.Name,
		"birth_date":     u.BirthDate,
		"document":       u.Document,
		"zip":            u.Zip,
		"address_number": u.AddressNumber,
		"address_line":   u.AddressLine,
		"city":           u.City,
		"state":          u.State,
		"created_at":     u.CreatedAt,
		"updated_at":     u.UpdatedAt,
	}
}

func (u *Usuario) IsPersisted() bool {
	return u.ID > 0
}

// SetEndereco overwrites the resolved address fields so they never go
// stale relative to the zip they were resolved from.
func (u *Usuario) SetEndereco(zip string, number int, e Endereco) {
	u.Zip = zip
	u.AddressNumber = number
	u.AddressLine = e.Logradouro
	u.City = e.Localidade
	u.State = e.UF
}

// Endereco is the structured result of a CEP lookup.
type Endereco struct {
	Logradouro string
	Localidade string
	UF         string
}

func (e Endereco) Incomplete() bool {
	return e.Localidade == "" || e.UF == ""
}
