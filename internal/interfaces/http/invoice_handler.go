package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/decoracionesmori/gestion-api/internal/application/billing"
	"github.com/decoracionesmori/gestion-api/internal/application/dto"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
)

// InvoiceHandler maneja las peticiones HTTP de comprobantes (personal).
type InvoiceHandler struct {
	uc *billing.BillingService
}

// NewInvoiceHandler construye el handler de comprobantes.
func NewInvoiceHandler(uc *billing.BillingService) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create godoc
// @Summary      Crear comprobante en borrador
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "invoice_type, client_id, appointment_id?"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv, err := h.uc.CreateDraft(c.Context(), billing.CreateDraftInput{
		InvoiceType:   in.InvoiceType,
		Series:        in.Series,
		ClientID:      in.ClientID,
		AppointmentID: in.AppointmentID,
		Notes:         in.Notes,
		CreatedBy:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(inv, nil))
}

// AddItem godoc
// @Summary      Agregar línea a un comprobante
// @Description  Recalcula subtotal/IGV/total; una línea de servicio expande su
//
//	lista de materiales en líneas de producto a precio cero.
//
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del comprobante"
// @Param        body  body  dto.AddItemRequest  true  "línea"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/items [post]
func (h *InvoiceHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv, err := h.uc.AddItem(c.Context(), c.Params("id"), billing.AddItemInput{
		ItemType:    in.ItemType,
		ServiceID:   in.ServiceID,
		ProductID:   in.ProductID,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Discount:    in.Discount,
	})
	if err != nil {
		return respondError(c, err)
	}
	return h.respondWithItems(c, inv.ID)
}

// RegisterPayment godoc
// @Summary      Registrar un pago
// @Description  Aplica la regla de transición: saldo ≤ epsilon → pagada (descarga
//
//	inventario exactamente una vez y completa la cita ligada); adelanto ≥ mínimo
//	desde borrador → emitida con número asignado.
//
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del comprobante"
// @Param        body  body  dto.RegisterPaymentRequest  true  "monto y método"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments [post]
func (h *InvoiceHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.RegisterPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv, err := h.uc.RegisterPayment(c.Context(), c.Params("id"), billing.PaymentInput{
		Amount:    in.Amount,
		Method:    in.Method,
		Reference: in.Reference,
	})
	if err != nil {
		return respondError(c, err)
	}
	return h.respondWithItems(c, inv.ID)
}

// Issue godoc
// @Summary      Emitir un comprobante
// @Description  Asigna el siguiente número de la serie y pasa a emitida.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/issue [post]
func (h *InvoiceHandler) Issue(c *fiber.Ctx) error {
	inv, err := h.uc.Issue(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return h.respondWithItems(c, inv.ID)
}

// Void godoc
// @Summary      Anular un comprobante
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/void [post]
func (h *InvoiceHandler) Void(c *fiber.Ctx) error {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&body)
	inv, err := h.uc.Void(c.Context(), c.Params("id"), body.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return h.respondWithItems(c, inv.ID)
}

// GetByID godoc
// @Summary      Obtener un comprobante con sus líneas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	return h.respondWithItems(c, c.Params("id"))
}

// List godoc
// @Summary      Listar comprobantes
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int     false  "máximo de filas (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Param        client_id  query  string  false  "filtrar por cliente"
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	if clientID := c.Query("client_id"); clientID != "" {
		list, err := h.uc.ListByClient(c.Context(), clientID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(toInvoiceResponses(list))
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInvoiceResponses(list))
}

func (h *InvoiceHandler) respondWithItems(c *fiber.Ctx, invoiceID string) error {
	inv, items, err := h.uc.GetByID(c.Context(), invoiceID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInvoiceResponse(inv, items))
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) dto.InvoiceResponse {
	res := dto.InvoiceResponse{
		ID:                 inv.ID,
		InvoiceType:        inv.InvoiceType,
		Series:             inv.Series,
		Number:             inv.Number,
		DateIssued:         inv.DateIssued.Format(time.RFC3339),
		ClientID:           inv.ClientID,
		AppointmentID:      inv.AppointmentID,
		Status:             inv.Status,
		PaymentMethod:      inv.PaymentMethod,
		PaymentReference:   inv.PaymentReference,
		Subtotal:           inv.Subtotal,
		IGV:                inv.IGV,
		Total:              inv.Total,
		AdvancePayment:     inv.AdvancePayment,
		PendingBalance:     inv.PendingBalance,
		InventoryProcessed: inv.InventoryProcessed,
		Notes:              inv.Notes,
		Items:              make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, it := range items {
		res.Items = append(res.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			ItemType:    it.ItemType,
			ServiceID:   it.ServiceID,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Subtotal:    it.Subtotal,
		})
	}
	return res
}

func toInvoiceResponses(list []*entity.Invoice) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv, nil))
	}
	return out
}
