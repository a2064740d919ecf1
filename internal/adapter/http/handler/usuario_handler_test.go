package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	. "usuariosapi/pkg/test"

	"usuariosapi/internal/adapter/cep"
	"usuariosapi/internal/adapter/database/sqlite/repository"
	"usuariosapi/internal/adapter/http/middleware"
	"usuariosapi/internal/core/domain"
	"usuariosapi/internal/core/model/response"
	"usuariosapi/internal/core/port"
	"usuariosapi/internal/core/service"
	"usuariosapi/pkg/tracing"
)

type UsuarioHandlerSuite struct {
	suite.Suite
	UsuarioRepo port.UsuarioRepository
	Router      *gin.Engine
	CepServer   *httptest.Server
	Registry    *prometheus.Registry
}

var ctx = context.Background()

func (s *UsuarioHandlerSuite) SetupTest() {
	db := InitTestDatabase()

	s.UsuarioRepo = repository.NewUsuarioRepository(db, nil)

	s.CepServer = newFakeViaCep()

	s.Registry = prometheus.NewRegistry()
	metrics := tracing.NewAppMetrics(s.Registry)

	resolver := cep.NewViaCepClientWithMetrics(s.CepServer.URL, metrics)
	usuarioUseCase := service.NewUsuarioService(s.UsuarioRepo, resolver, nil)
	usuarioHandler := NewUsuarioHandlerWithMetrics(usuarioUseCase, metrics)

	s.Router = setupUsuarioTestRouter(usuarioHandler)
}

// counterValue walks the gathered families for a counter carrying the
// given label value.
func (s *UsuarioHandlerSuite) counterValue(name, labelValue string) float64 {
	families, _ := s.Registry.Gather()

	for _, family := range families {
		if family.GetName() != name {
			continue
		}

		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetValue() == labelValue {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}

	return 0
}

func (s *UsuarioHandlerSuite) TearDownTest() {
	if s.CepServer != nil {
		s.CepServer.Close()
	}
}

func TestUsuarioHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UsuarioHandlerSuite))
}

// newFakeViaCep answers the ViaCEP wire format for two known CEPs,
// "erro" for 99999999 and a 500 for 66666666.
func newFakeViaCep() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		if len(parts) < 3 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		code := parts[2]
		w.Header().Set("Content-Type", "application/json")

		switch code {
		case "01001000":
			fmt.Fprint(w, `{"cep":"01001-000","logradouro":"Praça da Sé","localidade":"São Paulo","uf":"SP"}`)
		case "20040030":
			fmt.Fprint(w, `{"cep":"20040-030","logradouro":"Rua México","localidade":"Rio de Janeiro","uf":"RJ"}`)
		case "66666666":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			fmt.Fprint(w, `{"erro": true}`)
		}
	}))
}

func setupUsuarioTestRouter(usuarioHandler *UsuarioHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(gin.Recovery())

	usuarios := router.Group("/")
	usuarios.Use(middleware.CurrentMiddleware())
	{
		usuarios.POST("/usuarios", usuarioHandler.Create)
		usuarios.GET("/usuarios", usuarioHandler.FindAll)
		usuarios.GET("/usuarios/:id", usuarioHandler.FindForUpdate)
		usuarios.DELETE("/usuarios/:id", usuarioHandler.Delete)
		usuarios.PUT("/usuarios", usuarioHandler.Update)
		usuarios.PATCH("/usuarios/name", usuarioHandler.UpdateName)
		usuarios.PATCH("/usuarios/birthDate", usuarioHandler.UpdateBirthDate)
		usuarios.PATCH("/usuarios/document", usuarioHandler.UpdateDocument)
		usuarios.PATCH("/usuarios/address", usuarioHandler.UpdateAddress)
	}

	return router
}

func (s *UsuarioHandlerSuite) createUsuario(document string) domain.Usuario {
	now := time.Now()

	saved, _ := s.UsuarioRepo.Save(ctx, domain.Usuario{
		Name:          "Ana Silva",
		BirthDate:     time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC),
		Document:      document,
		Zip:           "01001000",
		AddressNumber: 52,
		AddressLine:   "Praça da Sé",
		City:          "São Paulo",
		State:         "SP",
		CreatedAt:     now,
		UpdatedAt:     now,
	})

	return saved
}

func (s *UsuarioHandlerSuite) TestCreateUsuario() {
	reqBody := strings.NewReader(`{
		"name": "Ana Silva",
		"birth_date": "1990-05-10",
		"document": "52998224725",
		"zip": "01001000",
		"address_number": 52
	}`)

	req, _ := http.NewRequest("POST", "/usuarios", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(rr.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data response.UsuarioForUpdateResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(resp.Data.ID).To(BeNumerically(">", 0))
	Expect(resp.Data.Name).To(Equal("Ana Silva"))
	Expect(resp.Data.BirthDate).To(Equal("1990-05-10"))
	Expect(resp.Data.Zip).To(Equal("01001000"))

	saved, err := s.UsuarioRepo.GetByID(ctx, resp.Data.ID)
	Expect(err).To(BeNil())
	Expect(saved.City).To(Equal("São Paulo"))
	Expect(saved.State).To(Equal("SP"))
	Expect(saved.AddressLine).To(Equal("Praça da Sé"))
}

func (s *UsuarioHandlerSuite) TestCreateUsuarioValidationError() {
	reqBody := strings.NewReader(`{
		"name": "Al",
		"birth_date": "1990-05-10",
		"document": "123",
		"zip": "01001000",
		"address_number": 52
	}`)

	req, _ := http.NewRequest("POST", "/usuarios", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Code).To(Equal("VALIDATION_ERROR"))
	Expect(len(errorResponse.Details)).To(BeNumerically(">", 0))
	Expect(errorResponse.Timestamp.IsZero()).To(BeFalse())
}

func (s *UsuarioHandlerSuite) TestCreateUsuarioFutureBirthDate() {
	future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")

	reqBody := strings.NewReader(fmt.Sprintf(`{
		"name": "Ana Silva",
		"birth_date": "%s",
		"document": "52998224725",
		"zip": "01001000",
		"address_number": 52
	}`, future))

	req, _ := http.NewRequest("POST", "/usuarios", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Code).To(Equal("VALIDATION_ERROR"))
}

func (s *UsuarioHandlerSuite) TestCreateUsuarioDuplicateDocument() {
	s.createUsuario("52998224725")

	reqBody := strings.NewReader(`{
		"name": "Ana Silva",
		"birth_date": "1990-05-10",
		"document": "52998224725",
		"zip": "01001000",
		"address_number": 52
	}`)

	req, _ := http.NewRequest("POST", "/usuarios", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusConflict))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Code).To(Equal("DOCUMENT_EXISTS"))
}

func (s *UsuarioHandlerSuite) TestCreateUsuarioCepNotFound() {
	reqBody := strings.NewReader(`{
		"name": "Ana Silva",
		"birth_date": "1990-05-10",
		"document": "52998224725",
		"zip": "99999999",
		"address_number": 52
	}`)

	req, _ := http.NewRequest("POST", "/usuarios", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Code).To(Equal("INVALID_CEP"))
	Expect(errorResponse.Message).To(ContainSubstring("99999999"))

	all, _ := s.UsuarioRepo.GetAll(ctx)
	Expect(all).To(BeEmpty())
}

func (s *UsuarioHandlerSuite) TestCreateUsuarioCepServiceUnavailable() {
	reqBody := strings.NewReader(`{
		"name": "Ana Silva",
		"birth_date": "1990-05-10",
		"document": "52998224725",
		"zip": "66666666",
		"address_number": 52
	}`)

	req, _ := http.NewRequest("POST", "/usuarios", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusServiceUnavailable))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Code).To(Equal("CEP_ERROR"))
}

func (s *UsuarioHandlerSuite) TestFindAllProjection() {
	s.createUsuario("52998224725")

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/usuarios", nil)

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data []response.UsuarioResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(resp.Data).To(HaveLen(1))
	Expect(resp.Data[0].Name).To(Equal("Ana Silva"))
	Expect(resp.Data[0].City).To(Equal("São Paulo"))

	// the listing must not leak document or zip
	Expect(string(body)).ToNot(ContainSubstring("52998224725"))
	Expect(string(body)).ToNot(ContainSubstring("01001000"))
}

func (s *UsuarioHandlerSuite) TestFindForUpdate() {
	saved := s.createUsuario("52998224725")

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", fmt.Sprintf("/usuarios/%d", saved.ID), nil)

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data response.UsuarioForUpdateResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(resp.Data.ID).To(Equal(saved.ID))
	Expect(resp.Data.Document).To(Equal("52998224725"))
	Expect(resp.Data.Zip).To(Equal("01001000"))
	Expect(resp.Data.AddressNumber).To(Equal(52))
}

func (s *UsuarioHandlerSuite) TestFindForUpdateNotFound() {
	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/usuarios/9999", nil)

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusNotFound))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Code).To(Equal("USER_NOT_FOUND"))
}

func (s *UsuarioHandlerSuite) TestFindForUpdateInvalidID() {
	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/usuarios/abc", nil)

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Code).To(Equal("VALIDATION_ERROR"))
}

func (s *UsuarioHandlerSuite) TestDeleteUsuarioInvalidID() {
	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/usuarios/abc", nil)

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Code).To(Equal("VALIDATION_ERROR"))
}

func (s *UsuarioHandlerSuite) TestCreateUsuarioRecordsMetrics() {
	reqBody := strings.NewReader(`{
		"name": "Ana Silva",
		"birth_date": "1990-05-10",
		"document": "52998224725",
		"zip": "01001000",
		"address_number": 52
	}`)

	req, _ := http.NewRequest("POST", "/usuarios", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	Expect(s.counterValue("usuario_operations_total", "create")).To(Equal(1.0))
	Expect(s.counterValue("cep_lookups_total", "success")).To(Equal(1.0))
}

func (s *UsuarioHandlerSuite) TestCreateUsuarioCepNotFoundRecordsMetrics() {
	reqBody := strings.NewReader(`{
		"name": "Ana Silva",
		"birth_date": "1990-05-10",
		"document": "52998224725",
		"zip": "99999999",
		"address_number": 52
	}`)

	req, _ := http.NewRequest("POST", "/usuarios", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	Expect(s.counterValue("cep_lookups_total", "not_found")).To(Equal(1.0))
	Expect(s.counterValue("usuario_operations_total", "create")).To(Equal(0.0))
}

func (s *UsuarioHandlerSuite) TestDeleteUsuario() {
	saved := s.createUsuario("52998224725")

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/usuarios/%d", saved.ID), nil)

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	data := gin.H{}
	json.Unmarshal(body, &data)

	Expect(data["message"]).To(Equal("Usuário removido com sucesso"))
}

func (s *UsuarioHandlerSuite) TestDeleteUsuarioNotFound() {
	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/usuarios/9999", nil)

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *UsuarioHandlerSuite) TestUpdateName() {
	saved := s.createUsuario("52998224725")

	reqBody := strings.NewReader(fmt.Sprintf(`{"id": %d, "name": "Ana Souza"}`, saved.ID))

	req, _ := http.NewRequest("PATCH", "/usuarios/name", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	current, err := s.UsuarioRepo.GetByID(ctx, saved.ID)
	Expect(err).To(BeNil())
	Expect(current.Name).To(Equal("Ana Souza"))
}

func (s *UsuarioHandlerSuite) TestUpdateNameEmpty() {
	saved := s.createUsuario("52998224725")

	reqBody := strings.NewReader(fmt.Sprintf(`{"id": %d, "name": ""}`, saved.ID))

	req, _ := http.NewRequest("PATCH", "/usuarios/name", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Code).To(Equal("INVALID_UPDATE"))
}

func (s *UsuarioHandlerSuite) TestUpdateBirthDate() {
	saved := s.createUsuario("52998224725")

	reqBody := strings.NewReader(fmt.Sprintf(`{"id": %d, "birth_date": "1985-12-01"}`, saved.ID))

	req, _ := http.NewRequest("PATCH", "/usuarios/birthDate", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	current, err := s.UsuarioRepo.GetByID(ctx, saved.ID)
	Expect(err).To(BeNil())
	Expect(current.BirthDate.Format("2006-01-02")).To(Equal("1985-12-01"))
}

func (s *UsuarioHandlerSuite) TestUpdateDocument() {
	saved := s.createUsuario("52998224725")

	reqBody := strings.NewReader(fmt.Sprintf(`{"id": %d, "document": "15350946056"}`, saved.ID))

	req, _ := http.NewRequest("PATCH", "/usuarios/document", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	current, err := s.UsuarioRepo.GetByID(ctx, saved.ID)
	Expect(err).To(BeNil())
	Expect(current.Document).To(Equal("15350946056"))
}

func (s *UsuarioHandlerSuite) TestUpdateDocumentConflict() {
	s.createUsuario("52998224725")
	other := s.createUsuario("15350946056")

	reqBody := strings.NewReader(fmt.Sprintf(`{"id": %d, "document": "52998224725"}`, other.ID))

	req, _ := http.NewRequest("PATCH", "/usuarios/document", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusConflict))
}

func (s *UsuarioHandlerSuite) TestUpdateAddress() {
	saved := s.createUsuario("52998224725")

	reqBody := strings.NewReader(fmt.Sprintf(`{"id": %d, "zip": "20040030", "address_number": 101}`, saved.ID))

	req, _ := http.NewRequest("PATCH", "/usuarios/address", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	current, err := s.UsuarioRepo.GetByID(ctx, saved.ID)
	Expect(err).To(BeNil())
	Expect(current.Zip).To(Equal("20040030"))
	Expect(current.AddressNumber).To(Equal(101))
	Expect(current.City).To(Equal("Rio de Janeiro"))
	Expect(current.State).To(Equal("RJ"))

	// non-address fields stay put
	Expect(current.Name).To(Equal("Ana Silva"))
	Expect(current.Document).To(Equal("52998224725"))
}

func (s *UsuarioHandlerSuite) TestUpdateFull() {
	saved := s.createUsuario("52998224725")

	reqBody := strings.NewReader(fmt.Sprintf(`{
		"id": %d,
		"name": "Ana Souza",
		"birth_date": "1991-01-02",
		"document": "15350946056",
		"zip": "20040030",
		"address_number": 7
	}`, saved.ID))

	req, _ := http.NewRequest("PUT", "/usuarios", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data response.UsuarioForUpdateResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(resp.Data.Name).To(Equal("Ana Souza"))
	Expect(resp.Data.Document).To(Equal("15350946056"))
	Expect(resp.Data.Zip).To(Equal("20040030"))
	Expect(resp.Data.AddressNumber).To(Equal(7))
}
