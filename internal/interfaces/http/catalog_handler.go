package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/decoracionesmori/gestion-api/internal/application/catalog"
	"github.com/decoracionesmori/gestion-api/internal/application/dto"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
)

// CatalogHandler maneja servicios y productos del catálogo.
type CatalogHandler struct {
	uc *catalog.CatalogUseCase
}

// NewCatalogHandler construye el handler de catálogo.
func NewCatalogHandler(uc *catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateService godoc
// @Summary      Crear servicio
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ServiceRequest  true  "name, base_price"
// @Success      201   {object}  dto.ServiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/services [post]
func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	var in dto.ServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	svc, err := h.uc.CreateService(c.Context(), catalog.ServiceInput{
		Name:        in.Name,
		Description: in.Description,
		BasePrice:   in.BasePrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toServiceResponse(svc, nil))
}

// ListServices godoc
// @Summary      Listar servicios
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.ServiceResponse
// @Router       /api/services [get]
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	list, err := h.uc.ListServices(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ServiceResponse, 0, len(list))
	for _, svc := range list {
		out = append(out, toServiceResponse(svc, nil))
	}
	return c.JSON(out)
}

// GetService godoc
// @Summary      Obtener un servicio con su lista de materiales
// @Tags         catalog
// @Produce      json
// @Param        id  path  string  true  "ID del servicio"
// @Success      200  {object}  dto.ServiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/services/{id} [get]
func (h *CatalogHandler) GetService(c *fiber.Ctx) error {
	svc, components, err := h.uc.GetService(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toServiceResponse(svc, components))
}

// AddComponent godoc
// @Summary      Agregar producto a la lista de materiales de un servicio
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del servicio"
// @Param        body  body  dto.ComponentRequest  true  "product_id, quantity"
// @Success      201   {object}  dto.ComponentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/services/{id}/components [post]
func (h *CatalogHandler) AddComponent(c *fiber.Ctx) error {
	var in dto.ComponentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	comp, err := h.uc.AddComponent(c.Context(), c.Params("id"), in.ProductID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ComponentResponse{
		ID:        comp.ID,
		ProductID: comp.ProductID,
		Quantity:  comp.Quantity,
	})
}

// CreateProduct godoc
// @Summary      Crear producto
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductRequest  true  "name, price_per_unit"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.CreateProduct(c.Context(), catalog.ProductInput{
		Name:         in.Name,
		Description:  in.Description,
		PricePerUnit: in.PricePerUnit,
		Unit:         in.Unit,
		StockMin:     in.StockMin,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

// ListProducts godoc
// @Summary      Listar productos
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	list, err := h.uc.ListProducts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return c.JSON(out)
}

// GetProduct godoc
// @Summary      Obtener un producto
// @Tags         catalog
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.uc.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toProductResponse(product))
}

func toServiceResponse(svc *entity.Service, components []*entity.ServiceComponent) dto.ServiceResponse {
	res := dto.ServiceResponse{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		BasePrice:   svc.BasePrice,
		Active:      svc.Active,
	}
	for _, comp := range components {
		res.Components = append(res.Components, dto.ComponentResponse{
			ID:        comp.ID,
			ProductID: comp.ProductID,
			Quantity:  comp.Quantity,
		})
	}
	return res
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		PricePerUnit: p.PricePerUnit,
		Unit:         p.Unit,
		StockMin:     p.StockMin,
		Active:       p.Active,
	}
}
