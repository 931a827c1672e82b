package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/decoracionesmori/gestion-api/internal/domain"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

// CatalogUseCase administra servicios, productos y la lista de materiales que los
// conecta (componentes de servicio).
type CatalogUseCase struct {
	svcRepo     repository.ServiceRepository
	productRepo repository.ProductRepository
}

// NewCatalogUseCase construye el caso de uso de catálogo.
func NewCatalogUseCase(svcRepo repository.ServiceRepository, productRepo repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{svcRepo: svcRepo, productRepo: productRepo}
}

// ServiceInput entrada para crear un servicio.
type ServiceInput struct {
	Name        string
	Description string
	BasePrice   decimal.Decimal
}

// CreateService registra un servicio en el catálogo.
func (uc *CatalogUseCase) CreateService(ctx context.Context, in ServiceInput) (*entity.Service, error) {
	if in.Name == "" || in.BasePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	svc := &entity.Service{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		BasePrice:   in.BasePrice,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if err := uc.svcRepo.Create(svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// ListServices devuelve el catálogo de servicios.
func (uc *CatalogUseCase) ListServices(ctx context.Context) ([]*entity.Service, error) {
	return uc.svcRepo.List()
}

// GetService devuelve un servicio con su lista de materiales.
func (uc *CatalogUseCase) GetService(ctx context.Context, id string) (*entity.Service, []*entity.ServiceComponent, error) {
	svc, err := uc.svcRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if svc == nil {
		return nil, nil, domain.ErrNotFound
	}
	components, err := uc.svcRepo.ListComponents(id)
	if err != nil {
		return nil, nil, err
	}
	return svc, components, nil
}

// AddComponent agrega un producto a la lista de materiales de un servicio:
// Quantity unidades del producto por cada unidad de servicio facturada.
func (uc *CatalogUseCase) AddComponent(ctx context.Context, serviceID, productID string, quantity decimal.Decimal) (*entity.ServiceComponent, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	svc, err := uc.svcRepo.GetByID(serviceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	comp := &entity.ServiceComponent{
		ID:        uuid.New().String(),
		ServiceID: serviceID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := uc.svcRepo.AddComponent(comp); err != nil {
		return nil, err
	}
	return comp, nil
}

// ProductInput entrada para crear un producto.
type ProductInput struct {
	Name         string
	Description  string
	PricePerUnit decimal.Decimal
	Unit         string
	StockMin     decimal.Decimal
}

// CreateProduct registra un producto en el catálogo.
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if in.Name == "" || in.PricePerUnit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	unit := in.Unit
	if unit == "" {
		unit = "unidad"
	}
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Description:  in.Description,
		PricePerUnit: in.PricePerUnit,
		Unit:         unit,
		StockMin:     in.StockMin,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// ListProducts devuelve el catálogo de productos.
func (uc *CatalogUseCase) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.List()
}

// GetProduct devuelve un producto por ID.
func (uc *CatalogUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}
