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

var _ repository.WorkDayRuleRepository = (*WorkDayRuleRepo)(nil)
var _ repository.ScheduledDayRepository = (*ScheduledDayRepo)(nil)

// WorkDayRuleRepo implementación de WorkDayRuleRepository sobre PostgreSQL.
type WorkDayRuleRepo struct {
	q Querier
}

// NewWorkDayRuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkDayRuleRepository(q Querier) *WorkDayRuleRepo {
	return &WorkDayRuleRepo{q: q}
}

// GetByDayOfWeek devuelve la regla del día de la semana (0=lunes..6=domingo), o nil.
func (r *WorkDayRuleRepo) GetByDayOfWeek(dayOfWeek int) (*entity.WorkDayRule, error) {
	query := `
		SELECT id, day_of_week, start_time, end_time, is_working_day
		FROM work_day_rules WHERE day_of_week = $1`
	rule, err := scanWorkDayRule(r.q.QueryRow(context.Background(), query, dayOfWeek))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get regla semanal: %w", err)
	}
	return rule, nil
}

// List devuelve la plantilla semanal completa ordenada por día.
func (r *WorkDayRuleRepo) List() ([]*entity.WorkDayRule, error) {
	query := `
		SELECT id, day_of_week, start_time, end_time, is_working_day
		FROM work_day_rules ORDER BY day_of_week`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list reglas semanales: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkDayRule
	for rows.Next() {
		rule, err := scanWorkDayRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan regla semanal: %w", err)
		}
		list = append(list, rule)
	}
	return list, rows.Err()
}

// Upsert crea o reemplaza la regla de un día de la semana (único por día).
func (r *WorkDayRuleRepo) Upsert(rule *entity.WorkDayRule) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	query := `
		INSERT INTO work_day_rules (id, day_of_week, start_time, end_time, is_working_day)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (day_of_week) DO UPDATE
		SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
		    is_working_day = EXCLUDED.is_working_day`
	_, err := r.q.Exec(context.Background(), query,
		rule.ID, rule.DayOfWeek, todArg(rule.StartTime), todArg(rule.EndTime), rule.IsWorkingDay,
	)
	if err != nil {
		return fmt.Errorf("upsert regla semanal: %w", err)
	}
	return nil
}

func scanWorkDayRule(row pgx.Row) (*entity.WorkDayRule, error) {
	var rule entity.WorkDayRule
	var start, end *string
	if err := row.Scan(&rule.ID, &rule.DayOfWeek, &start, &end, &rule.IsWorkingDay); err != nil {
		return nil, err
	}
	var err error
	if rule.StartTime, err = todScan(start); err != nil {
		return nil, err
	}
	if rule.EndTime, err = todScan(end); err != nil {
		return nil, err
	}
	return &rule, nil
}

// ScheduledDayRepo implementación de ScheduledDayRepository sobre PostgreSQL.
type ScheduledDayRepo struct {
	q Querier
}

// NewScheduledDayRepository construye el adaptador. Pasar pool o tx (Querier).
func NewScheduledDayRepository(q Querier) *ScheduledDayRepo {
	return &ScheduledDayRepo{q: q}
}

// GetByDate devuelve la configuración de la fecha exacta, o nil si no existe.
func (r *ScheduledDayRepo) GetByDate(date time.Time) (*entity.ScheduledDay, error) {
	query := `
		SELECT id, date, start_time, end_time, is_working, notes
		FROM scheduled_days WHERE date = $1`
	day, err := scanScheduledDay(r.q.QueryRow(context.Background(), query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get día programado: %w", err)
	}
	return day, nil
}

// ListRange devuelve los días programados dentro de [from, to].
func (r *ScheduledDayRepo) ListRange(from, to time.Time) ([]*entity.ScheduledDay, error) {
	query := `
		SELECT id, date, start_time, end_time, is_working, notes
		FROM scheduled_days WHERE date BETWEEN $1 AND $2 ORDER BY date`
	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list días programados: %w", err)
	}
	defer rows.Close()
	var list []*entity.ScheduledDay
	for rows.Next() {
		day, err := scanScheduledDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan día programado: %w", err)
		}
		list = append(list, day)
	}
	return list, rows.Err()
}

// Upsert crea o reemplaza la configuración de una fecha (única por fecha).
func (r *ScheduledDayRepo) Upsert(day *entity.ScheduledDay) error {
	if day.ID == "" {
		day.ID = uuid.New().String()
	}
	query := `
		INSERT INTO scheduled_days (id, date, start_time, end_time, is_working, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date) DO UPDATE
		SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
		    is_working = EXCLUDED.is_working, notes = EXCLUDED.notes`
	_, err := r.q.Exec(context.Background(), query,
		day.ID, day.Date, todArg(day.StartTime), todArg(day.EndTime), day.IsWorking, day.Notes,
	)
	if err != nil {
		return fmt.Errorf("upsert día programado: %w", err)
	}
	return nil
}

// Delete elimina la configuración explícita de una fecha.
func (r *ScheduledDayRepo) Delete(date time.Time) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM scheduled_days WHERE date = $1`, date)
	if err != nil {
		return fmt.Errorf("delete día programado: %w", err)
	}
	return nil
}

func scanScheduledDay(row pgx.Row) (*entity.ScheduledDay, error) {
	var day entity.ScheduledDay
	var start, end *string
	if err := row.Scan(&day.ID, &day.Date, &start, &end, &day.IsWorking, &day.Notes); err != nil {
		return nil, err
	}
	var err error
	if day.StartTime, err = todScan(start); err != nil {
		return nil, err
	}
	if day.EndTime, err = todScan(end); err != nil {
		return nil, err
	}
	return &day, nil
}
