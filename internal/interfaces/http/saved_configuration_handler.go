package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/pricing"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// SavedConfigurationHandler configuraciones guardadas por empresa (protegido).
type SavedConfigurationHandler struct {
	uc *pricing.SavedConfigurationUseCase
}

// NewSavedConfigurationHandler construye el handler.
func NewSavedConfigurationHandler(uc *pricing.SavedConfigurationUseCase) *SavedConfigurationHandler {
	return &SavedConfigurationHandler{uc: uc}
}

func savedConfigurationResponse(s *entity.SavedConfiguration) dto.SavedConfigurationResponse {
	return dto.SavedConfigurationResponse{
		ID:        s.ID,
		CompanyID: s.CompanyID,
		Name:      s.Name,
		Snapshot:  s.Snapshot,
		Total:     s.Total,
		Currency:  string(s.Currency),
		CreatedAt: s.CreatedAt,
	}
}

// Save godoc
// @Summary      Guardar la configuración de una sesión
// @Tags         configurations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveConfigurationRequest  true  "Sesión y nombre"
// @Success      201   {object}  dto.SavedConfigurationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/configurations [post]
func (h *SavedConfigurationHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveConfigurationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Save(c.UserContext(), GetCompanyID(c), GetUserID(c), in.SessionID, in.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(savedConfigurationResponse(out))
}

// List godoc
// @Summary      Listar configuraciones guardadas
// @Tags         configurations
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20, máx 100)"
// @Param        offset  query  int  false  "Offset"
// @Success      200     {object}  dto.SavedConfigurationListResponse
// @Router       /api/configurations [get]
func (h *SavedConfigurationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit y offset deben ser enteros"})
	}
	page.Normalize()
	list, err := h.uc.List(c.UserContext(), GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.SavedConfigurationListResponse{
		Items: make([]dto.SavedConfigurationResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	}
	for _, s := range list {
		out.Items = append(out.Items, savedConfigurationResponse(s))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener configuración guardada
// @Tags         configurations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SavedConfigurationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/configurations/{id} [get]
func (h *SavedConfigurationHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(savedConfigurationResponse(out))
}

// Open godoc
// @Summary      Abrir una sesión nueva con la configuración guardada
// @Tags         configurations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      201  {object}  dto.SessionResponse
// @Router       /api/configurations/{id}/open [post]
func (h *SavedConfigurationHandler) Open(c *fiber.Ctx) error {
	v, err := h.uc.Open(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sessionResponse(v))
}

// Delete godoc
// @Summary      Eliminar configuración guardada
// @Tags         configurations
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Router       /api/configurations/{id} [delete]
func (h *SavedConfigurationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
