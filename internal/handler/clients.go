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

type ClientsHandler struct{ svc service.ClientService }

func NewClientsHandler(svc service.ClientService) *ClientsHandler { return &ClientsHandler{svc: svc} }

// Get godoc
// @Summary      Detalle de cliente
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del cliente"
// @Success      200  {object} dto.ClientResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clients/{id} [get]
func (h *ClientsHandler) Get(c *gin.Context) {
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
// @Summary      Listar clientes
// @Description  Lista paginada de clientes de la empresa, con búsqueda por nombre, DNI o email.
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Texto de búsqueda"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 50)"
// @Success      200  {object} dto.ClientListResponse
// @Router       /v1/clients [get]
func (h *ClientsHandler) List(c *gin.Context) {
	var filter dto.ClientFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	p := middleware.GetPrincipal(c)

	resp, err := h.svc.List(c.Request.Context(), p, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
