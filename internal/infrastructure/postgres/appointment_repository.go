package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

const appointmentColumns = `id, client_id, service_id, staff_id, appointment_date, appointment_time, status, notes, created_at`

// AppointmentRepo implementación de AppointmentRepository sobre PostgreSQL
// (usable con pool o tx).
type AppointmentRepo struct {
	q Querier
}

// NewAppointmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAppointmentRepository(q Querier) *AppointmentRepo {
	return &AppointmentRepo{q: q}
}

// Create persiste una cita.
func (r *AppointmentRepo) Create(appt *entity.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	query := `
		INSERT INTO citas (id, client_id, service_id, staff_id, appointment_date, appointment_time, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		appt.ID, appt.ClientID, appt.ServiceID, nullIfEmpty(appt.StaffID),
		appt.Date, todArg(appt.Time), appt.Status, appt.Notes, appt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create cita: %w", err)
	}
	return nil
}

// GetByID obtiene una cita por ID, o nil si no existe.
func (r *AppointmentRepo) GetByID(id string) (*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM citas WHERE id = $1`
	appt, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get cita: %w", err)
	}
	return appt, nil
}

// Update actualiza los campos mutables de una cita.
func (r *AppointmentRepo) Update(appt *entity.Appointment) error {
	query := `
		UPDATE citas
		SET appointment_date = $2, appointment_time = $3, status = $4, notes = $5, staff_id = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		appt.ID, appt.Date, todArg(appt.Time), appt.Status, appt.Notes, nullIfEmpty(appt.StaffID),
	)
	if err != nil {
		return fmt.Errorf("update cita: %w", err)
	}
	return nil
}

// LockDate toma un advisory lock transaccional sobre la fecha. Debe invocarse
// dentro de una transacción; serializa el par conteo-de-cupo + inserción frente
// a reservas concurrentes de la misma fecha, incluso cuando la fecha todavía no
// tiene citas. El lock se libera al cerrar la transacción.
func (r *AppointmentRepo) LockDate(date time.Time) error {
	query := `SELECT pg_advisory_xact_lock(hashtext('citas:' || $1::date::text))`
	if _, err := r.q.Exec(context.Background(), query, date); err != nil {
		return fmt.Errorf("lock fecha: %w", err)
	}
	return nil
}

// CountActiveOnDate cuenta las citas pending/confirmed de la fecha, excluyendo
// excludingID si no es vacío.
func (r *AppointmentRepo) CountActiveOnDate(date time.Time, excludingID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM citas
		WHERE appointment_date = $1 AND status IN ('pending', 'confirmed')`
	args := []any{date}
	if excludingID != "" {
		query += ` AND id <> $2`
		args = append(args, excludingID)
	}
	var count int
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count citas activas: %w", err)
	}
	return count, nil
}

// ListPendingInRange lista citas pending con fecha dentro de [from, to].
func (r *AppointmentRepo) ListPendingInRange(from, to time.Time) ([]*entity.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + ` FROM citas
		WHERE status = 'pending' AND appointment_date BETWEEN $1 AND $2
		ORDER BY appointment_date, appointment_time NULLS LAST`
	return r.list(query, from, to)
}

// ListByDate lista las citas de una fecha.
func (r *AppointmentRepo) ListByDate(date time.Time) ([]*entity.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + ` FROM citas
		WHERE appointment_date = $1
		ORDER BY appointment_time NULLS LAST`
	return r.list(query, date)
}

// ListByClient lista las citas de un cliente, más recientes primero.
func (r *AppointmentRepo) ListByClient(clientID string) ([]*entity.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + ` FROM citas
		WHERE client_id = $1
		ORDER BY appointment_date DESC`
	return r.list(query, clientID)
}

// List lista citas paginadas, más recientes primero.
func (r *AppointmentRepo) List(limit, offset int) ([]*entity.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + ` FROM citas
		ORDER BY appointment_date DESC, created_at DESC
		LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

func (r *AppointmentRepo) list(query string, args ...any) ([]*entity.Appointment, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list citas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Appointment
	for rows.Next() {
		appt, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, appt)
	}
	return list, rows.Err()
}

func (r *AppointmentRepo) scanOne(row pgx.Row) (*entity.Appointment, error) {
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return appt, nil
}

func (r *AppointmentRepo) scanRow(rows pgx.Rows) (*entity.Appointment, error) {
	appt, err := scanAppointment(rows)
	if err != nil {
		return nil, fmt.Errorf("scan cita: %w", err)
	}
	return appt, nil
}

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var a entity.Appointment
	var staffID, apptTime *string
	if err := row.Scan(&a.ID, &a.ClientID, &a.ServiceID, &staffID, &a.Date, &apptTime,
		&a.Status, &a.Notes, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.StaffID = derefStr(staffID)
	t, err := todScan(apptTime)
	if err != nil {
		return nil, err
	}
	a.Time = t
	return &a, nil
}
