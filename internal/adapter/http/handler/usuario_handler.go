package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	. "usuariosapi/internal/adapter/http/helper"
	. "usuariosapi/internal/adapter/http/validation"
	"usuariosapi/internal/core/domain"
	"usuariosapi/internal/core/model/request"
	"usuariosapi/internal/core/model/response"
	"usuariosapi/internal/core/port"
	"usuariosapi/internal/core/util"
	. "usuariosapi/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type UsuarioHandler struct {
	svc     port.UsuarioService
	metrics *AppMetrics
}

func NewUsuarioHandler(svc port.UsuarioService) *UsuarioHandler {
	return &UsuarioHandler{svc: svc}
}

func NewUsuarioHandlerWithMetrics(svc port.UsuarioService, metrics *AppMetrics) *UsuarioHandler {
	return &UsuarioHandler{svc: svc, metrics: metrics}
}

func (h *UsuarioHandler) recordOperation(ctx context.Context, operation string) {
	if h.metrics != nil {
		h.metrics.RecordUsuarioOperation(ctx, operation)
	}
}

func (h *UsuarioHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.CreateUsuarioRequest](c)

	if err != nil {
		SendBadRequestError(c, "Corpo da requisição inválido")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	birthDate, _ := time.Parse(response.DateLayout, params.BirthDate)

	usuario := domain.Usuario{
		Name:          params.Name,
		BirthDate:     birthDate,
		Document:      params.Document,
		Zip:           params.Zip,
		AddressNumber: params.AddressNumber,
	}

	saved, err := h.svc.Create(ctx, usuario)

	if err != nil {
		slog.Error("Error creating usuario", "error", err)
		SendDomainError(c, err)
		return
	}

	h.recordOperation(ctx, "create")

	SendSuccess(c, http.StatusCreated, response.UsuarioForUpdateResponse{
		ID:            saved.ID,
		Name:          saved.Name,
		BirthDate:     saved.BirthDate.Format(response.DateLayout),
		Document:      saved.Document,
		Zip:           saved.Zip,
		AddressNumber: saved.AddressNumber,
	})
}

func (h *UsuarioHandler) FindAll(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.usuario.FindAll", []attribute.KeyValue{
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	data, err := h.svc.FindAll(ctx)

	if err != nil {
		AddSpanError(span, err)
		slog.Error("Error listing usuarios", "error", err)
		SendDomainError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("usuarios.count", len(data)))

	h.recordOperation(ctx, "find_all")

	SendSuccess(c, http.StatusOK, data)
}

func (h *UsuarioHandler) FindForUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)

	if err != nil {
		SendBadRequestError(c, "ID inválido")
		return
	}

	data, err := h.svc.FindForUpdate(ctx, id)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	h.recordOperation(ctx, "find_for_update")

	SendSuccess(c, http.StatusOK, data)
}

func (h *UsuarioHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)

	if err != nil {
		SendBadRequestError(c, "ID inválido")
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		SendDomainError(c, err)
		return
	}

	h.recordOperation(ctx, "delete")

	SendSuccess(c, http.StatusOK, nil, "Usuário removido com sucesso")
}

func (h *UsuarioHandler) UpdateName(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.UpdateNameRequest](c)

	if err != nil {
		SendBadRequestError(c, "Corpo da requisição inválido")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	usuario, err := h.svc.UpdateName(ctx, params.ID, params.Name)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	h.recordOperation(ctx, "update_name")

	SendSuccess(c, http.StatusOK, gin.H{"id": usuario.ID, "name": usuario.Name})
}

func (h *UsuarioHandler) UpdateBirthDate(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.UpdateBirthDateRequest](c)

	if err != nil {
		SendBadRequestError(c, "Corpo da requisição inválido")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	// A missing birth_date passes binding and is rejected by the service,
	// like the other partial updates.
	var birthDate time.Time

	if params.BirthDate != "" {
		birthDate, _ = time.Parse(response.DateLayout, params.BirthDate)
	}

	usuario, err := h.svc.UpdateBirthDate(ctx, params.ID, birthDate)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	h.recordOperation(ctx, "update_birth_date")

	SendSuccess(c, http.StatusOK, gin.H{"id": usuario.ID, "birth_date": usuario.BirthDate.Format(response.DateLayout)})
}

func (h *UsuarioHandler) UpdateDocument(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.UpdateDocumentRequest](c)

	if err != nil {
		SendBadRequestError(c, "Corpo da requisição inválido")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	usuario, err := h.svc.UpdateDocument(ctx, params.ID, params.Document)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	h.recordOperation(ctx, "update_document")

	SendSuccess(c, http.StatusOK, gin.H{"id": usuario.ID, "document": usuario.Document})
}

func (h *UsuarioHandler) UpdateAddress(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.UpdateAddressRequest](c)

	if err != nil {
		SendBadRequestError(c, "Corpo da requisição inválido")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	usuario, err := h.svc.UpdateAddress(ctx, params.ID, params.Zip, params.AddressNumber)

	if err != nil {
		slog.Error("Error updating address", "error", err, "id", params.ID)
		SendDomainError(c, err)
		return
	}

	h.recordOperation(ctx, "update_address")

	SendSuccess(c, http.StatusOK, gin.H{
		"id":           usuario.ID,
		"zip":          usuario.Zip,
		"address_line": usuario.AddressLine,
		"city":         usuario.City,
		"state":        usuario.State,
	})
}

func (h *UsuarioHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.UpdateUsuarioRequest](c)

	if err != nil {
		SendBadRequestError(c, "Corpo da requisição inválido")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	birthDate, _ := time.Parse(response.DateLayout, params.BirthDate)

	usuario, err := h.svc.Update(ctx, domain.Usuario{
		ID:            params.ID,
		Name:          params.Name,
		BirthDate:     birthDate,
		Document:      params.Document,
		Zip:           params.Zip,
		AddressNumber: params.AddressNumber,
	})

	if err != nil {
		slog.Error("Error updating usuario", "error", err, "id", params.ID)
		SendDomainError(c, err)
		return
	}

	h.recordOperation(ctx, "update")

	SendSuccess(c, http.StatusOK, response.UsuarioForUpdateResponse{
		ID:            usuario.ID,
		Name:          usuario.Name,
		BirthDate:     usuario.BirthDate.Format(response.DateLayout),
		Document:      usuario.Document,
		Zip:           usuario.Zip,
		AddressNumber: usuario.AddressNumber,
	})
}
