package handler

import (
	"net/http"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/apierror"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/middleware"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Adjust godoc
// @Summary      Ajuste manual de inventario
// @Description  Registra un movimiento INCOMING/OUTGOING/ADJUST contra un producto de tienda. El stock nunca queda negativo.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AdjustStockRequest true "Ajuste"
// @Success      201  {object} dto.InventoryMovementResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p := middleware.GetPrincipal(c)

	resp, err := h.svc.Adjust(c.Request.Context(), p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListMovements godoc
// @Summary      Listar movimientos de inventario
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        store_product_id query string false "UUID del producto de tienda"
// @Param        type             query string false "INCOMING | OUTGOING | SALE | RETURN | ADJUST"
// @Param        page             query int    false "Página (default 1)"
// @Param        limit            query int    false "Registros por página (default 50)"
// @Success      200  {object} dto.InventoryMovementListResponse
// @Router       /v1/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filter dto.InventoryMovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	p := middleware.GetPrincipal(c)

	resp, err := h.svc.ListMovements(c.Request.Context(), p, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alerts godoc
// @Summary      Alertas de stock bajo
// @Description  Productos de tienda con stock en o por debajo de su umbral.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.StockAlertResponse
// @Router       /v1/inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *gin.Context) {
	p := middleware.GetPrincipal(c)

	resp, err := h.svc.ListAlerts(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
