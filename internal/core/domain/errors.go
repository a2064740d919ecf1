package domain

import "errors"

var (
	ErrUsuarioNotFound  = errors.New("usuário não encontrado")
	ErrDocumentExists   = errors.New("documento já cadastrado")
	ErrCepNotFound      = errors.New("CEP não encontrado")
	ErrCepService       = errors.New("erro ao consultar o serviço de CEP")
	ErrInvalidName      = errors.New("nome não pode ser vazio")
	ErrInvalidBirthDate = errors.New("data de nascimento não pode ser nula")
	ErrInvalidDocument  = errors.New("documento não pode ser nulo")
)
