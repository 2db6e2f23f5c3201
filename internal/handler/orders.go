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

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// Create godoc
// @Summary      Registrar una nueva orden de venta
// @Description  Crea una orden ACID: valida sesión de caja, resuelve cliente, descuenta stock y registra pagos. Los movimientos de caja se publican tras el commit.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateOrderRequest true "Detalle de la orden"
// @Success      201  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p := middleware.GetPrincipal(c)

	resp, err := h.svc.Create(c.Request.Context(), p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cancel godoc
// @Summary      Anular orden
// @Description  Anula una orden: restaura stock, marca servicios como anulados y registra devoluciones de efectivo. Una orden ya anulada no puede re-anularse.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la orden"
// @Success      200  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError
// @Failure      403  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/orders/{id}/cancel [post]
func (h *OrdersHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	p := middleware.GetPrincipal(c)

	resp, err := h.svc.Cancel(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Complete godoc
// @Summary      Liquidar orden pendiente
// @Description  Registra pagos incrementales contra los servicios de una orden PENDING y recalcula su estado.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID de la orden"
// @Param        body body dto.CompleteOrderRequest true "Pagos declarados"
// @Success      200  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/orders/{id}/complete [post]
func (h *OrdersHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CompleteOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p := middleware.GetPrincipal(c)

	resp, err := h.svc.Complete(c.Request.Context(), p, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Detalle de orden
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la orden"
// @Success      200  {object} dto.OrderResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/orders/{id} [get]
func (h *OrdersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	p := middleware.GetPrincipal(c)

	resp, err := h.svc.Get(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      Listar órdenes
// @Description  Lista paginada. Con store_id filtra por tienda; sin él, ADMIN ve toda la empresa.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        store_id query string false "UUID de la tienda"
// @Param        status   query string false "PENDING | COMPLETED | CANCELLED"
// @Param        page     query int    false "Página (default 1)"
// @Param        limit    query int    false "Registros por página (default 50)"
// @Success      200  {object} dto.OrderListResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("filtros inválidos"))
		return
	}
	p := middleware.GetPrincipal(c)

	if filter.StoreID != "" {
		storeID, err := uuid.Parse(filter.StoreID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("store_id inválido"))
			return
		}
		resp, err := h.svc.ListByStore(c.Request.Context(), p, storeID, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	resp, err := h.svc.ListByTenant(c.Request.Context(), p, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
