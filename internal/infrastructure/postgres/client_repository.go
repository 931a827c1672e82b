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

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, dni, name, email, phone_number, address, created_at`

// ClientRepo implementación de ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un cliente.
func (r *ClientRepo) Create(client *entity.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	query := `
		INSERT INTO clients (id, dni, name, email, phone_number, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, nullIfEmpty(client.DNI), client.Name, nullIfEmpty(client.Email),
		nullIfEmpty(client.PhoneNumber), nullIfEmpty(client.Address), client.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create cliente: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID, o nil si no existe.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	return r.getOne(`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
}

// GetByDNI devuelve el cliente con ese documento, o nil si no existe.
func (r *ClientRepo) GetByDNI(dni string) (*entity.Client, error) {
	return r.getOne(`SELECT `+clientColumns+` FROM clients WHERE dni = $1`, dni)
}

// GetByEmail devuelve el cliente con ese email, o nil si no existe.
func (r *ClientRepo) GetByEmail(email string) (*entity.Client, error) {
	return r.getOne(`SELECT `+clientColumns+` FROM clients WHERE email = $1`, email)
}

func (r *ClientRepo) getOne(query, arg string) (*entity.Client, error) {
	client, err := scanClient(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente: %w", err)
	}
	return client, nil
}

// Update actualiza los datos de contacto de un cliente.
func (r *ClientRepo) Update(client *entity.Client) error {
	query := `
		UPDATE clients
		SET dni = $2, name = $3, email = $4, phone_number = $5, address = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, nullIfEmpty(client.DNI), client.Name, nullIfEmpty(client.Email),
		nullIfEmpty(client.PhoneNumber), nullIfEmpty(client.Address),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update cliente: %w", err)
	}
	return nil
}

// List lista clientes paginados por nombre.
func (r *ClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		list = append(list, client)
	}
	return list, rows.Err()
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	var dni, email, phone, address *string
	if err := row.Scan(&c.ID, &dni, &c.Name, &email, &phone, &address, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.DNI = derefStr(dni)
	c.Email = derefStr(email)
	c.PhoneNumber = derefStr(phone)
	c.Address = derefStr(address)
	return &c, nil
}
