package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/decoracionesmori/gestion-api/internal/application/clients"
	"github.com/decoracionesmori/gestion-api/internal/application/dto"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
)

// ClientHandler maneja el padrón de clientes (personal).
type ClientHandler struct {
	uc *clients.ClientUseCase
}

// NewClientHandler construye el handler de clientes.
func NewClientHandler(uc *clients.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ClientRequest  true  "datos del cliente"
// @Success      201   {object}  dto.ClientResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	client, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toClientResponse(client))
}

// GetByID godoc
// @Summary      Obtener un cliente
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	client, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toClientResponse(client))
}

// Update godoc
// @Summary      Actualizar datos de contacto de un cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del cliente"
// @Param        body  body  dto.ClientRequest  true  "datos a actualizar"
// @Success      200   {object}  dto.ClientResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	client, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toClientResponse(client))
}

// List godoc
// @Summary      Listar clientes
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.ClientResponse
// @Router       /api/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, client := range list {
		out = append(out, toClientResponse(client))
	}
	return c.JSON(out)
}

// LookupDNI godoc
// @Summary      Consultar un DNI en el servicio de identidad
// @Description  Prellena el formulario de cliente; un fallo del servicio externo
//
//	se degrada a found=false.
//
// @Tags         clients
// @Produce      json
// @Param        dni  path  string  true  "documento de identidad"
// @Success      200  {object}  dto.IdentityLookupResponse
// @Router       /api/clients/lookup/{dni} [get]
func (h *ClientHandler) LookupDNI(c *fiber.Ctx) error {
	res, err := h.uc.LookupDNI(c.Context(), c.Params("dni"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func toClientResponse(client *entity.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:          client.ID,
		DNI:         client.DNI,
		Name:        client.Name,
		Email:       client.Email,
		PhoneNumber: client.PhoneNumber,
		Address:     client.Address,
	}
}
