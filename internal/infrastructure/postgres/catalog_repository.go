package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/decoracionesmori/gestion-api/internal/domain"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)
var _ repository.ProductRepository = (*ProductRepo)(nil)

// ServiceRepo implementación de ServiceRepository sobre PostgreSQL.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

// Create persiste un servicio.
func (r *ServiceRepo) Create(svc *entity.Service) error {
	if svc.ID == "" {
		svc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO services (id, name, description, base_price, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		svc.ID, svc.Name, svc.Description, svc.BasePrice, svc.Active, svc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create servicio: %w", err)
	}
	return nil
}

// GetByID obtiene un servicio por ID, o nil si no existe.
func (r *ServiceRepo) GetByID(id string) (*entity.Service, error) {
	query := `SELECT id, name, description, base_price, active, created_at FROM services WHERE id = $1`
	var svc entity.Service
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&svc.ID, &svc.Name, &svc.Description, &svc.BasePrice, &svc.Active, &svc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get servicio: %w", err)
	}
	return &svc, nil
}

// List devuelve los servicios activos del catálogo.
func (r *ServiceRepo) List() ([]*entity.Service, error) {
	query := `SELECT id, name, description, base_price, active, created_at FROM services WHERE active ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list servicios: %w", err)
	}
	defer rows.Close()
	var list []*entity.Service
	for rows.Next() {
		var svc entity.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.BasePrice, &svc.Active, &svc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan servicio: %w", err)
		}
		list = append(list, &svc)
	}
	return list, rows.Err()
}

// ListComponents devuelve la lista de materiales del servicio.
func (r *ServiceRepo) ListComponents(serviceID string) ([]*entity.ServiceComponent, error) {
	query := `SELECT id, service_id, product_id, quantity FROM service_components WHERE service_id = $1`
	rows, err := r.q.Query(context.Background(), query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list componentes: %w", err)
	}
	defer rows.Close()
	var list []*entity.ServiceComponent
	for rows.Next() {
		var c entity.ServiceComponent
		if err := rows.Scan(&c.ID, &c.ServiceID, &c.ProductID, &c.Quantity); err != nil {
			return nil, fmt.Errorf("scan componente: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// AddComponent agrega un producto a la lista de materiales (único por servicio+producto).
func (r *ServiceRepo) AddComponent(comp *entity.ServiceComponent) error {
	if comp.ID == "" {
		comp.ID = uuid.New().String()
	}
	query := `
		INSERT INTO service_components (id, service_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, comp.ID, comp.ServiceID, comp.ProductID, comp.Quantity)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("add componente: %w", err)
	}
	return nil
}

// ProductRepo implementación de ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	query := `
		INSERT INTO products (id, name, description, price_per_unit, unit, stock_min, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.PricePerUnit,
		product.Unit, product.StockMin, product.Active, product.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create producto: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID, o nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `
		SELECT id, name, description, price_per_unit, unit, stock_min, active, created_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.PricePerUnit, &p.Unit, &p.StockMin, &p.Active, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return &p, nil
}

// List devuelve los productos activos del catálogo.
func (r *ProductRepo) List() ([]*entity.Product, error) {
	query := `
		SELECT id, name, description, price_per_unit, unit, stock_min, active, created_at
		FROM products WHERE active ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PricePerUnit, &p.Unit,
			&p.StockMin, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza los campos mutables de un producto.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price_per_unit = $4, unit = $5, stock_min = $6, active = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.PricePerUnit,
		product.Unit, product.StockMin, product.Active,
	)
	if err != nil {
		return fmt.Errorf("update producto: %w", err)
	}
	return nil
}
