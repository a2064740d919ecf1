package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	. "usuariosapi/pkg/test"

	"github.com/stretchr/testify/assert"

	"usuariosapi/internal/adapter/database/sqlite/repository"
	"usuariosapi/internal/core/domain"
	"usuariosapi/internal/core/model/response"
	"usuariosapi/internal/core/port"
	"usuariosapi/internal/core/service"
)

// stubResolver answers lookups from a fixed table so tests never
// reach the real ViaCEP service.
type stubResolver struct {
	enderecos map[string]domain.Endereco
	failWith  error
}

func (r *stubResolver) Resolve(ctx context.Context, cep string) (domain.Endereco, error) {
	if r.failWith != nil {
		return domain.Endereco{}, r.failWith
	}

	endereco, ok := r.enderecos[cep]
	if !ok {
		return domain.Endereco{}, fmt.Errorf("%w: %s", domain.ErrCepNotFound, cep)
	}

	return endereco, nil
}

type UsuarioUseCaseTestSuite struct {
	suite.Suite
	UseCase  *service.UsuarioService
	Repo     port.UsuarioRepository
	Resolver *stubResolver
}

func (s *UsuarioUseCaseTestSuite) SetupTest() {
	db := InitTestDatabase()

	usuarioRepo := repository.NewUsuarioRepository(db, nil)

	s.Resolver = &stubResolver{
		enderecos: map[string]domain.Endereco{
			"01001000": {
				Logradouro: "Praça da Sé",
				Localidade: "São Paulo",
				UF:         "SP",
			},
			"20040030": {
				Logradouro: "Rua México",
				Localidade: "Rio de Janeiro",
				UF:         "RJ",
			},
		},
	}

	s.UseCase = service.NewUsuarioService(usuarioRepo, s.Resolver, nil)
	s.Repo = usuarioRepo
}

func TestUsuarioUseCaseTestSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(UsuarioUseCaseTestSuite))
}

func (s *UsuarioUseCaseTestSuite) newUsuario(document string) domain.Usuario {
	return domain.Usuario{
		Name:          "Ana Silva",
		BirthDate:     time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC),
		Document:      document,
		Zip:           "01001000",
		AddressNumber: 52,
	}
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_Create_Success() {
	saved, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))

	Expect(err).To(BeNil())
	Expect(saved.ID).To(BeNumerically(">", 0))
	Expect(saved.AddressLine).To(Equal("Praça da Sé"))
	Expect(saved.City).To(Equal("São Paulo"))
	Expect(saved.State).To(Equal("SP"))
	Expect(saved.AddressNumber).To(Equal(52))
	Expect(saved.CreatedAt.IsZero()).To(BeFalse())
	Expect(saved.UpdatedAt.IsZero()).To(BeFalse())
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_Create_DuplicateDocument() {
	_, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))
	Expect(err).To(BeNil())

	_, err = s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))

	assert.ErrorIs(s.T(), err, domain.ErrDocumentExists)
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_Create_CepNotFound_PersistsNothing() {
	usuario := s.newUsuario("52998224725")
	usuario.Zip = "99999999"

	_, err := s.UseCase.Create(context.Background(), usuario)

	assert.ErrorIs(s.T(), err, domain.ErrCepNotFound)

	rows, err := s.Repo.GetAll(context.Background())
	Expect(err).To(BeNil())
	Expect(rows).To(BeEmpty())
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_Create_CepServiceDown() {
	s.Resolver.failWith = fmt.Errorf("%w: viacep unreachable", domain.ErrCepService)

	_, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))

	assert.ErrorIs(s.T(), err, domain.ErrCepService)
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_FindAll_Empty() {
	data, err := s.UseCase.FindAll(context.Background())

	Expect(err).To(BeNil())
	Expect(data).To(Equal([]response.UsuarioResponse{}))
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_FindAll_Projection() {
	saved, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))
	Expect(err).To(BeNil())

	data, err := s.UseCase.FindAll(context.Background())

	Expect(err).To(BeNil())
	Expect(data).To(HaveLen(1))
	Expect(data[0].ID).To(Equal(saved.ID))
	Expect(data[0].Name).To(Equal("Ana Silva"))
	Expect(data[0].BirthDate).To(Equal("1990-05-10"))
	Expect(data[0].City).To(Equal("São Paulo"))
	Expect(data[0].State).To(Equal("SP"))
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_FindForUpdate_Success() {
	saved, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))
	Expect(err).To(BeNil())

	data, err := s.UseCase.FindForUpdate(context.Background(), saved.ID)

	Expect(err).To(BeNil())
	Expect(data.ID).To(Equal(saved.ID))
	Expect(data.Document).To(Equal("52998224725"))
	Expect(data.Zip).To(Equal("01001000"))
	Expect(data.AddressNumber).To(Equal(52))
	Expect(data.BirthDate).To(Equal("1990-05-10"))
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_FindForUpdate_NotFound() {
	_, err := s.UseCase.FindForUpdate(context.Background(), 9999)

	assert.ErrorIs(s.T(), err, domain.ErrUsuarioNotFound)
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_Delete_Success() {
	saved, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))
	Expect(err).To(BeNil())

	err = s.UseCase.Delete(context.Background(), saved.ID)
	Expect(err).To(BeNil())

	_, err = s.Repo.GetByID(context.Background(), saved.ID)
	assert.ErrorIs(s.T(), err, domain.ErrUsuarioNotFound)
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_Delete_NotFound() {
	err := s.UseCase.Delete(context.Background(), 9999)

	assert.ErrorIs(s.T(), err, domain.ErrUsuarioNotFound)
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_UpdateName_Success() {
	saved, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))
	Expect(err).To(BeNil())

	updated, err := s.UseCase.UpdateName(context.Background(), saved.ID, "Ana Souza")

	Expect(err).To(BeNil())
	Expect(updated.Name).To(Equal("Ana Souza"))
	Expect(updated.Document).To(Equal(saved.Document))
	Expect(updated.UpdatedAt.After(saved.UpdatedAt)).To(BeTrue())
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_UpdateName_Empty() {
	saved, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))
	Expect(err).To(BeNil())

	_, err = s.UseCase.UpdateName(context.Background(), saved.ID, "")

	assert.ErrorIs(s.T(), err, domain.ErrInvalidName)
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_UpdateBirthDate_Success() {
	saved, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))
	Expect(err).To(BeNil())

	newDate := time.Date(1985, 12, 1, 0, 0, 0, 0, time.UTC)
	updated, err := s.UseCase.UpdateBirthDate(context.Background(), saved.ID, newDate)

	Expect(err).To(BeNil())
	Expect(updated.BirthDate.Format(response.DateLayout)).To(Equal("1985-12-01"))
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_UpdateBirthDate_Zero() {
	saved, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))
	Expect(err).To(BeNil())

	_, err = s.UseCase.UpdateBirthDate(context.Background(), saved.ID, time.Time{})

	assert.ErrorIs(s.T(), err, domain.ErrInvalidBirthDate)
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_UpdateDocument_Success() {
	saved, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))
	Expect(err).To(BeNil())

	updated, err := s.UseCase.UpdateDocument(context.Background(), saved.ID, "15350946056")

	Expect(err).To(BeNil())
	Expect(updated.Document).To(Equal("15350946056"))
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_UpdateDocument_Conflict() {
	first, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))
	Expect(err).To(BeNil())

	second := s.newUsuario("15350946056")
	saved, err := s.UseCase.Create(context.Background(), second)
	Expect(err).To(BeNil())

	_, err = s.UseCase.UpdateDocument(context.Background(), saved.ID, first.Document)

	assert.ErrorIs(s.T(), err, domain.ErrDocumentExists)
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_UpdateAddress_OverwritesOnlyAddress() {
	saved, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))
	Expect(err).To(BeNil())

	updated, err := s.UseCase.UpdateAddress(context.Background(), saved.ID, "20040030", 101)

	Expect(err).To(BeNil())
	Expect(updated.Zip).To(Equal("20040030"))
	Expect(updated.AddressNumber).To(Equal(101))
	Expect(updated.AddressLine).To(Equal("Rua México"))
	Expect(updated.City).To(Equal("Rio de Janeiro"))
	Expect(updated.State).To(Equal("RJ"))

	Expect(updated.Name).To(Equal(saved.Name))
	Expect(updated.Document).To(Equal(saved.Document))
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_UpdateAddress_CepNotFound() {
	saved, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))
	Expect(err).To(BeNil())

	_, err = s.UseCase.UpdateAddress(context.Background(), saved.ID, "99999999", 101)

	assert.ErrorIs(s.T(), err, domain.ErrCepNotFound)

	current, err := s.Repo.GetByID(context.Background(), saved.ID)
	Expect(err).To(BeNil())
	Expect(current.Zip).To(Equal("01001000"))
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_Update_Full() {
	saved, err := s.UseCase.Create(context.Background(), s.newUsuario("52998224725"))
	Expect(err).To(BeNil())

	updated, err := s.UseCase.Update(context.Background(), domain.Usuario{
		ID:            saved.ID,
		Name:          "Ana Souza",
		BirthDate:     time.Date(1991, 1, 2, 0, 0, 0, 0, time.UTC),
		Document:      "15350946056",
		Zip:           "20040030",
		AddressNumber: 7,
	})

	Expect(err).To(BeNil())
	Expect(updated.Name).To(Equal("Ana Souza"))
	Expect(updated.Document).To(Equal("15350946056"))
	Expect(updated.City).To(Equal("Rio de Janeiro"))
	Expect(updated.AddressNumber).To(Equal(7))
	Expect(updated.CreatedAt.Equal(saved.CreatedAt) || updated.CreatedAt.Sub(saved.CreatedAt) < time.Second).To(BeTrue())
}

func (s *UsuarioUseCaseTestSuite) TestUseCase_Update_NotFound() {
	_, err := s.UseCase.Update(context.Background(), domain.Usuario{
		ID:            9999,
		Name:          "Ana Souza",
		BirthDate:     time.Date(1991, 1, 2, 0, 0, 0, 0, time.UTC),
		Document:      "15350946056",
		Zip:           "01001000",
		AddressNumber: 7,
	})

	assert.True(s.T(), errors.Is(err, domain.ErrUsuarioNotFound))
}
