package validation

import (
	"strings"
	"time"

	"usuariosapi/internal/core/model/response"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ptbr_translations "github.com/go-playground/validator/v10/translations/pt_BR"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	ptBR := pt_BR.New()
	uni := ut.New(ptBR, ptBR)

	var found bool
	Translator, found = uni.GetTranslator("pt_BR")

	if !found {
		panic("translator pt_BR not found")
	}

	if err := ptbr_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	if err := Validator.RegisterValidation("pastdate", pastDate); err != nil {
		panic(err)
	}

	addCustomTranslations()
}

// pastdate applies to date strings already shaped by the datetime rule;
// anything unparseable is left for datetime to report.
func pastDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	if value == "" {
		return true
	}

	date, err := time.Parse("2006-01-02", value)

	if err != nil {
		return true
	}

	return date.Before(time.Now().Truncate(24 * time.Hour))
}

func addCustomTranslations() {
	Validator.RegisterTranslation("required", Translator, func(ut ut.Translator) error {
		return ut.Add("required", "{0} é obrigatório", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", getFieldName(fe.Field()))
		return t
	})

	Validator.RegisterTranslation("min", Translator, func(ut ut.Translator) error {
		return ut.Add("min", "{0} deve ter no mínimo {1} caracteres", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("min", getFieldName(fe.Field()), fe.Param())
		return t
	})

	Validator.RegisterTranslation("max", Translator, func(ut ut.Translator) error {
		return ut.Add("max", "{0} deve ter no máximo {1} caracteres", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("max", getFieldName(fe.Field()), fe.Param())
		return t
	})

	Validator.RegisterTranslation("len", Translator, func(ut ut.Translator) error {
		return ut.Add("len", "{0} deve ter exatamente {1} caracteres", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("len", getFieldName(fe.Field()), fe.Param())
		return t
	})

	Validator.RegisterTranslation("numeric", Translator, func(ut ut.Translator) error {
		return ut.Add("numeric", "{0} deve conter apenas números", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("numeric", getFieldName(fe.Field()))
		return t
	})

	Validator.RegisterTranslation("datetime", Translator, func(ut ut.Translator) error {
		return ut.Add("datetime", "{0} deve estar no formato {1}", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("datetime", getFieldName(fe.Field()), fe.Param())
		return t
	})

	Validator.RegisterTranslation("pastdate", Translator, func(ut ut.Translator) error {
		return ut.Add("pastdate", "{0} deve ser uma data passada", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("pastdate", getFieldName(fe.Field()))
		return t
	})
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Name":          "Nome",
		"BirthDate":     "Data de nascimento",
		"Document":      "Documento",
		"Zip":           "CEP",
		"AddressNumber": "Número do endereço",
		"ID":            "ID",
	}

	if name, exists := fieldNames[field]; exists {
		return name
	}

	return field
}

// FormatValidationErrors flattens validator errors into the field/message
// pairs the API returns.
func FormatValidationErrors(err error) []response.ValidationError {
	var errors []response.ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			errors = append(errors, response.ValidationError{
				Field:   strings.ToLower(fieldError.Field()),
				Message: fieldError.Translate(Translator),
			})
		}
	}

	return errors
}
