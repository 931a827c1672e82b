package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/decoracionesmori/gestion-api/internal/application/dto"
	"github.com/decoracionesmori/gestion-api/internal/application/inventory"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
)

// InventoryHandler maneja el libro de movimientos y el stock (personal).
type InventoryHandler struct {
	uc *inventory.InventoryService
}

// NewInventoryHandler construye el handler de inventario.
func NewInventoryHandler(uc *inventory.InventoryService) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar un movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, quantity, movement_type"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.RecordMovement(c.Context(), inventory.MovementInput{
		ProductID:         in.ProductID,
		Quantity:          in.Quantity,
		MovementType:      in.MovementType,
		DocumentReference: in.DocumentReference,
		Notes:             in.Notes,
		Draft:             in.Draft,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// ToggleDraft godoc
// @Summary      Confirmar o volver a borrador un lote de movimientos
// @Description  Cambia el flag draft y recomputa el stock de cada producto tocado.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ToggleDraftRequest  true  "movement_ids, draft"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/toggle-draft [post]
func (h *InventoryHandler) ToggleDraft(c *fiber.Ctx) error {
	var in dto.ToggleDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	changed, err := h.uc.ToggleDraft(c.Context(), in.MovementIDs, in.Draft)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"changed": changed})
}

// DeleteMovement godoc
// @Summary      Eliminar un movimiento
// @Description  Elimina la entrada del libro y recomputa el stock del producto.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [delete]
func (h *InventoryHandler) DeleteMovement(c *fiber.Ctx) error {
	if err := h.uc.DeleteMovement(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "movimiento eliminado"})
}

// ListMovements godoc
// @Summary      Listar movimientos del libro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "filtrar por producto"
// @Param        limit       query  int     false  "máximo de filas (default 20)"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListMovements(c.Context(), c.Query("product_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// GetStatus godoc
// @Summary      Stock actual de un producto
// @Description  Si el producto nunca materializó su fila de estado, la rellena
//
//	recomputando desde el historial.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/status/{product_id} [get]
func (h *InventoryHandler) GetStatus(c *fiber.Ctx) error {
	status, err := h.uc.GetStatus(c.Context(), c.Params("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStatusResponse(status))
}

// RecomputeStock godoc
// @Summary      Recomputar el stock de un producto desde el libro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  map[string]string
// @Router       /api/inventory/status/{product_id}/recompute [post]
func (h *InventoryHandler) RecomputeStock(c *fiber.Ctx) error {
	stock, err := h.uc.RecomputeStock(c.Context(), c.Params("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": c.Params("product_id"), "current_stock": stock})
}

// ListStatus godoc
// @Summary      Stock actual de todos los productos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockStatusResponse
// @Router       /api/inventory/status [get]
func (h *InventoryHandler) ListStatus(c *fiber.Ctx) error {
	list, err := h.uc.ListStatus(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockStatusResponse, 0, len(list))
	for _, st := range list {
		out = append(out, toStatusResponse(st))
	}
	return c.JSON(out)
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		Quantity:          m.Quantity,
		MovementType:      m.MovementType,
		DocumentReference: m.DocumentReference,
		InvoiceItemID:     m.InvoiceItemID,
		Notes:             m.Notes,
		Draft:             m.Draft,
		CreatedAt:         m.CreatedAt.Format(time.RFC3339),
	}
}

func toStatusResponse(st *entity.InventoryStatus) dto.StockStatusResponse {
	return dto.StockStatusResponse{
		ProductID:    st.ProductID,
		CurrentStock: st.CurrentStock,
		LastUpdated:  st.LastUpdated.Format(time.RFC3339),
	}
}
