package port

import (
	"context"

	"usuariosapi/internal/core/domain"
)

// CepResolver turns an 8-digit CEP into a structured address. A lookup
// that reaches the service but matches nothing reports domain.ErrCepNotFound;
// anything else that goes wrong reports domain.ErrCepService.
type CepResolver interface {
	Resolve(ctx context.Context, cep string) (domain.Endereco, error)
}
