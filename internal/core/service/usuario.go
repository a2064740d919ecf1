package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"usuariosapi/internal/core/domain"
	"usuariosapi/internal/core/model/response"
	"usuariosapi/internal/core/port"
	tel "usuariosapi/internal/core/telemetry"
)

type UsuarioService struct {
	repo      port.UsuarioRepository
	cep       port.CepResolver
	telemetry port.Telemetry
}

func NewUsuarioService(repo port.UsuarioRepository, cep port.CepResolver, telemetry port.Telemetry) *UsuarioService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UsuarioService{
		repo:      repo,
		cep:       cep,
		telemetry: telemetry,
	}
}

// Create checks document uniqueness, resolves the CEP and persists the new
// usuario. The lookup always happens before the write, so a failed lookup
// never touches storage. The unique index on document backstops the
// existence check under concurrent creates.
func (us *UsuarioService) Create(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error) {
	start := time.Now()

	exists, err := us.repo.ExistsByDocument(ctx, usuario.Document)

	if err != nil {
		return domain.Usuario{}, err
	}

	if exists {
		return domain.Usuario{}, domain.ErrDocumentExists
	}

	endereco, err := us.cep.Resolve(ctx, usuario.Zip)

	if err != nil {
		us.telemetry.RecordServiceOperation(ctx, "usuario", "Create", time.Since(start), err)
		return domain.Usuario{}, err
	}

	if endereco.Incomplete() {
		return domain.Usuario{}, fmt.Errorf("%w: %s", domain.ErrCepNotFound, usuario.Zip)
	}

	now := time.Now()

	newData := domain.Usuario{
		Name:      usuario.Name,
		BirthDate: usuario.BirthDate,
		Document:  usuario.Document,
		CreatedAt: now,
		UpdatedAt: now,
	}
	newData.SetEndereco(usuario.Zip, usuario.AddressNumber, endereco)

	saved, err := us.repo.Save(ctx, newData)

	if err != nil {
		slog.Error("Repository save failed", "error", err, "document", usuario.Document)
		us.telemetry.RecordServiceOperation(ctx, "usuario", "Create", time.Since(start), err)
		return domain.Usuario{}, err
	}

	us.telemetry.RecordBusinessEvent(ctx, "created", "usuario", strconv.FormatInt(saved.ID, 10), map[string]interface{}{
		"city":  saved.City,
		"state": saved.State,
	})
	us.telemetry.RecordServiceOperation(ctx, "usuario", "Create", time.Since(start), nil)

	return saved, nil
}

// FindAll projects every stored usuario to the listing summary.
func (us *UsuarioService) FindAll(ctx context.Context) ([]response.UsuarioResponse, error) {
	rows, err := us.repo.GetAll(ctx)

	data := make([]response.UsuarioResponse, 0)

	if err != nil {
		return data, err
	}

	for _, usuario := range rows {
		data = append(data, response.UsuarioResponse{
			ID:        usuario.ID,
			Name:      usuario.Name,
			BirthDate: usuario.BirthDate.Format(response.DateLayout),
			City:      usuario.City,
			State:     usuario.State,
		})
	}

	return data, nil
}

// FindForUpdate projects a single usuario to the edit view.
func (us *UsuarioService) FindForUpdate(ctx context.Context, id int64) (response.UsuarioForUpdateResponse, error) {
	usuario, err := us.repo.GetByID(ctx, id)

	if err != nil {
		return response.UsuarioForUpdateResponse{}, err
	}

	return response.UsuarioForUpdateResponse{
		ID:            usuario.ID,
		Name:          usuario.Name,
		BirthDate:     usuario.BirthDate.Format(response.DateLayout),
		Document:      usuario.Document,
		Zip:           usuario.Zip,
		AddressNumber: usuario.AddressNumber,
	}, nil
}

func (us *UsuarioService) Delete(ctx context.Context, id int64) error {
	usuario, err := us.repo.GetByID(ctx, id)

	if err != nil {
		return err
	}

	if err := us.repo.DeleteByID(ctx, usuario.ID); err != nil {
		return err
	}

	us.telemetry.RecordBusinessEvent(ctx, "deleted", "usuario", strconv.FormatInt(id, 10), nil)

	return nil
}

func (us *UsuarioService) UpdateName(ctx context.Context, id int64, name string) (domain.Usuario, error) {
	usuario, err := us.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Usuario{}, err
	}

	if name == "" {
		return domain.Usuario{}, domain.ErrInvalidName
	}

	usuario.Name = name
	usuario.UpdatedAt = time.Now()

	return us.repo.Save(ctx, usuario)
}

func (us *UsuarioService) UpdateBirthDate(ctx context.Context, id int64, birthDate time.Time) (domain.Usuario, error) {
	usuario, err := us.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Usuario{}, err
	}

	if birthDate.IsZero() {
		return domain.Usuario{}, domain.ErrInvalidBirthDate
	}

	usuario.BirthDate = birthDate
	usuario.UpdatedAt = time.Now()

	return us.repo.Save(ctx, usuario)
}

// UpdateDocument does not re-check uniqueness, matching the other partial
// updates; a real conflict still surfaces through the unique index at the
// store boundary.
func (us *UsuarioService) UpdateDocument(ctx context.Context, id int64, document string) (domain.Usuario, error) {
	usuario, err := us.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Usuario{}, err
	}

	if document == "" {
		return domain.Usuario{}, domain.ErrInvalidDocument
	}

	usuario.Document = document
	usuario.UpdatedAt = time.Now()

	return us.repo.Save(ctx, usuario)
}

func (us *UsuarioService) UpdateAddress(ctx context.Context, id int64, zip string, addressNumber int) (domain.Usuario, error) {
	usuario, err := us.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Usuario{}, err
	}

	endereco, err := us.cep.Resolve(ctx, zip)

	if err != nil {
		return domain.Usuario{}, err
	}

	if endereco.Incomplete() {
		return domain.Usuario{}, fmt.Errorf("%w: %s", domain.ErrCepNotFound, zip)
	}

	usuario.SetEndereco(zip, addressNumber, endereco)
	usuario.UpdatedAt = time.Now()

	return us.repo.Save(ctx, usuario)
}

// Update overwrites every mutable field in one operation.
func (us *UsuarioService) Update(ctx context.Context, data domain.Usuario) (domain.Usuario, error) {
	usuario, err := us.repo.GetByID(ctx, data.ID)

	if err != nil {
		return domain.Usuario{}, err
	}

	endereco, err := us.cep.Resolve(ctx, data.Zip)

	if err != nil {
		return domain.Usuario{}, err
	}

	if endereco.Incomplete() {
		return domain.Usuario{}, fmt.Errorf("%w: %s", domain.ErrCepNotFound, data.Zip)
	}

	usuario.Name = data.Name
	usuario.BirthDate = data.BirthDate
	usuario.Document = data.Document
	usuario.SetEndereco(data.Zip, data.AddressNumber, endereco)
	usuario.UpdatedAt = time.Now()

	return us.repo.Save(ctx, usuario)
}
