package handler

import (
	"net/http"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/apierror"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/middleware"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CashHandler struct{ svc service.CashService }

func NewCashHandler(svc service.CashService) *CashHandler { return &CashHandler{svc: svc} }

// Open godoc
// @Summary      Abrir sesión de caja
// @Description  Abre una sesión de caja en la tienda. Solo puede haber una sesión abierta por tienda.
// @Tags         cash
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.OpenSessionRequest true "Monto de apertura"
// @Success      201  {object} dto.SessionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cash/sessions [post]
func (h *CashHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p := middleware.GetPrincipal(c)

	resp, err := h.svc.Open(c.Request.Context(), p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary      Cerrar sesión de caja
// @Description  Cierra la sesión y calcula el efectivo esperado y la diferencia contra el monto declarado.
// @Tags         cash
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CloseSessionRequest true "Monto de cierre declarado"
// @Success      200  {object} dto.SessionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cash/sessions/close [post]
func (h *CashHandler) Close(c *gin.Context) {
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p := middleware.GetPrincipal(c)

	resp, err := h.svc.Close(c.Request.Context(), p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual de caja
// @Tags         cash
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ManualMovementRequest true "Movimiento"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cash/movements [post]
func (h *CashHandler) RegisterMovement(c *gin.Context) {
	var req dto.ManualMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p := middleware.GetPrincipal(c)

	if err := h.svc.RegisterMovement(c.Request.Context(), p, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Report godoc
// @Summary      Reporte de sesión de caja
// @Description  Retorna la sesión con sus movimientos, efectivo esperado y diferencia.
// @Tags         cash
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la sesión"
// @Success      200  {object} dto.SessionResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/cash/sessions/{id} [get]
func (h *CashHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	p := middleware.GetPrincipal(c)

	resp, err := h.svc.Report(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Active godoc
// @Summary      Sesión de caja activa de una tienda
// @Tags         cash
// @Produce      json
// @Security     BearerAuth
// @Param        store_id query string true "UUID de la tienda"
// @Success      200  {object} dto.SessionResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/cash/sessions/active [get]
func (h *CashHandler) Active(c *gin.Context) {
	storeID, err := uuid.Parse(c.Query("store_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("store_id inválido"))
		return
	}
	p := middleware.GetPrincipal(c)

	resp, err := h.svc.FindActive(c.Request.Context(), p, storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
