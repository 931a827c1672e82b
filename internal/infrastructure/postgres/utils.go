package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// nullIfEmpty convierte "" en NULL para columnas opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// derefStr devuelve "" para punteros NULL escaneados de columnas opcionales.
func derefStr(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}

// todArg serializa una hora opcional como texto "HH:MM" (o NULL).
func todArg(t *entity.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

// todScan parsea una hora opcional leída como texto.
func todScan(s *string) (*entity.TimeOfDay, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := entity.ParseTimeOfDay(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
