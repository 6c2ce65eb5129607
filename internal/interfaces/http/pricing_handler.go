package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/pricing"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// PricingHandler maneja las sesiones de cotización (público).
type PricingHandler struct {
	svc *pricing.SessionService
}

// NewPricingHandler construye el handler.
func NewPricingHandler(svc *pricing.SessionService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

func sessionResponse(v *pricing.SessionView) dto.SessionResponse {
	out := dto.SessionResponse{
		ID:        v.ID,
		Changed:   v.Changed,
		Snapshot:  v.Snapshot,
		Breakdown: dto.NewBreakdownResponse(v.Breakdown),
	}
	if v.Restore != nil {
		out.Restore = v.Restore
	}
	return out
}

func (h *PricingHandler) respond(c *fiber.Ctx, status int, v *pricing.SessionView, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(status).JSON(sessionResponse(v))
}

// Create godoc
// @Summary      Abrir sesión de cotización
// @Tags         pricing
// @Produce      json
// @Success      201  {object}  dto.SessionResponse
// @Router       /api/pricing/sessions [post]
func (h *PricingHandler) Create(c *fiber.Ctx) error {
	v, err := h.svc.Create(c.UserContext())
	return h.respond(c, fiber.StatusCreated, v, err)
}

// CreateFromSnapshot godoc
// @Summary      Abrir sesión a partir de un snapshot
// @Description  El snapshot se revalida contra el catálogo vigente; lo descartado se informa en restore.
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        body  body  entity.Snapshot  true  "Snapshot"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pricing/sessions/from-snapshot [post]
func (h *PricingHandler) CreateFromSnapshot(c *fiber.Ctx) error {
	var snap entity.Snapshot
	if err := c.BodyParser(&snap); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	v, err := h.svc.CreateFromSnapshot(c.UserContext(), snap)
	return h.respond(c, fiber.StatusCreated, v, err)
}

// Get godoc
// @Summary      Estado y desglose de la sesión
// @Tags         pricing
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/sessions/{id} [get]
func (h *PricingHandler) Get(c *fiber.Ctx) error {
	v, err := h.svc.Get(c.UserContext(), c.Params("id"))
	return h.respond(c, fiber.StatusOK, v, err)
}

// Delete godoc
// @Summary      Cerrar sesión
// @Tags         pricing
// @Param        id   path  string  true  "ID de la sesión"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/sessions/{id} [delete]
func (h *PricingHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleModule godoc
// @Summary      Activar/desactivar módulo
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la sesión"
// @Param        body  body  dto.ToggleModuleRequest  true  "Módulo"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pricing/sessions/{id}/modules/toggle [post]
func (h *PricingHandler) ToggleModule(c *fiber.Ctx) error {
	var in dto.ToggleModuleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	v, err := h.svc.ToggleModule(c.UserContext(), c.Params("id"), in.ModuleID, in.DepartmentID)
	return h.respond(c, fiber.StatusOK, v, err)
}

// SetQuantity godoc
// @Summary      Cambiar cantidad de un módulo
// @Description  La cantidad se ajusta a [mínimo, máximo] y se alinea hacia abajo al paso.
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        id        path  string                  true  "ID de la sesión"
// @Param        moduleId  path  string                  true  "ID del módulo"
// @Param        body      body  dto.SetQuantityRequest  true  "Cantidad"
// @Success      200       {object}  dto.SessionResponse
// @Router       /api/pricing/sessions/{id}/modules/{moduleId}/quantity [put]
func (h *PricingHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetQuantityRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	v, err := h.svc.SetQuantity(c.UserContext(), c.Params("id"), c.Params("moduleId"), in.Quantity)
	return h.respond(c, fiber.StatusOK, v, err)
}

// ToggleIntegration godoc
// @Summary      Activar/desactivar integración de un módulo seleccionado
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la sesión"
// @Param        body  body  dto.ToggleIntegrationRequest  true  "Integración"
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/pricing/sessions/{id}/integrations/toggle [post]
func (h *PricingHandler) ToggleIntegration(c *fiber.Ctx) error {
	var in dto.ToggleIntegrationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	v, err := h.svc.ToggleIntegration(c.UserContext(), c.Params("id"), in.DepartmentID, in.ModuleID, in.IntegrationID)
	return h.respond(c, fiber.StatusOK, v, err)
}

// SetCycle godoc
// @Summary      Cambiar ciclo de facturación
// @Description  Un ciclo desconocido no modifica la sesión (changed=false).
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la sesión"
// @Param        body  body  dto.SetCycleRequest  true  "monthly | annual"
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/pricing/sessions/{id}/cycle [put]
func (h *PricingHandler) SetCycle(c *fiber.Ctx) error {
	var in dto.SetCycleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	v, err := h.svc.SetCycle(c.UserContext(), c.Params("id"), entity.Cycle(in.Cycle))
	return h.respond(c, fiber.StatusOK, v, err)
}

// SetCurrency godoc
// @Summary      Cambiar moneda
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la sesión"
// @Param        body  body  dto.SetCurrencyRequest  true  "sar | usd"
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/pricing/sessions/{id}/currency [put]
func (h *PricingHandler) SetCurrency(c *fiber.Ctx) error {
	var in dto.SetCurrencyRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	v, err := h.svc.SetCurrency(c.UserContext(), c.Params("id"), entity.Currency(in.Currency))
	return h.respond(c, fiber.StatusOK, v, err)
}

// SetTier godoc
// @Summary      Cambiar plan
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la sesión"
// @Param        body  body  dto.SetTierRequest  true  "Plan"
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/pricing/sessions/{id}/tier [put]
func (h *PricingHandler) SetTier(c *fiber.Ctx) error {
	var in dto.SetTierRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	v, err := h.svc.SetTier(c.UserContext(), c.Params("id"), in.TierName)
	return h.respond(c, fiber.StatusOK, v, err)
}

// SetContactUs godoc
// @Summary      Bandera global "contáctenos"
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la sesión"
// @Param        body  body  dto.SetContactUsRequest  true  "Bandera"
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/pricing/sessions/{id}/contact-us [put]
func (h *PricingHandler) SetContactUs(c *fiber.Ctx) error {
	var in dto.SetContactUsRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	v, err := h.svc.SetShowContactUs(c.UserContext(), c.Params("id"), in.ShowContactUs)
	return h.respond(c, fiber.StatusOK, v, err)
}

// Reset godoc
// @Summary      Vaciar selecciones
// @Description  Conserva ciclo, moneda y plan.
// @Tags         pricing
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/pricing/sessions/{id}/reset [post]
func (h *PricingHandler) Reset(c *fiber.Ctx) error {
	v, err := h.svc.Reset(c.UserContext(), c.Params("id"))
	return h.respond(c, fiber.StatusOK, v, err)
}

// ExportSnapshot godoc
// @Summary      Exportar snapshot de la sesión
// @Tags         pricing
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  entity.Snapshot
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/sessions/{id}/snapshot [get]
func (h *PricingHandler) ExportSnapshot(c *fiber.Ctx) error {
	v, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(v.Snapshot)
}

// RestoreSnapshot godoc
// @Summary      Restaurar snapshot en la sesión
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID de la sesión"
// @Param        body  body  entity.Snapshot  true  "Snapshot"
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/pricing/sessions/{id}/snapshot [put]
func (h *PricingHandler) RestoreSnapshot(c *fiber.Ctx) error {
	var snap entity.Snapshot
	if err := c.BodyParser(&snap); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	v, err := h.svc.Restore(c.UserContext(), c.Params("id"), snap)
	return h.respond(c, fiber.StatusOK, v, err)
}
