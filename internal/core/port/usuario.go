package port

import (
	"context"
	"time"

	"usuariosapi/internal/core/domain"
	"usuariosapi/internal/core/model/response"
)

type UsuarioRepository interface {
	ExistsByDocument(ctx context.Context, document string) (bool, error)
	// Save inserts when the usuario has no id yet and updates otherwise.
	Save(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error)
	GetByID(ctx context.Context, id int64) (domain.Usuario, error)
	GetAll(ctx context.Context) ([]domain.Usuario, error)
	DeleteByID(ctx context.Context, id int64) error
}

type UsuarioService interface {
	Create(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error)
	FindAll(ctx context.Context) ([]response.UsuarioResponse, error)
	FindForUpdate(ctx context.Context, id int64) (response.UsuarioForUpdateResponse, error)
	Delete(ctx context.Context, id int64) error
	UpdateName(ctx context.Context, id int64, name string) (domain.Usuario, error)
	UpdateBirthDate(ctx context.Context, id int64, birthDate time.Time) (domain.Usuario, error)
	UpdateDocument(ctx context.Context, id int64, document string) (domain.Usuario, error)
	UpdateAddress(ctx context.Context, id int64, zip string, addressNumber int) (domain.Usuario, error)
	Update(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error)
}
