package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/decoracionesmori/gestion-api/internal/application/dto"
	"github.com/decoracionesmori/gestion-api/internal/application/scheduling"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
)

// ScheduleHandler maneja la configuración del calendario laboral (personal).
type ScheduleHandler struct {
	admin *scheduling.ScheduleAdmin
}

// NewScheduleHandler construye el handler de calendario.
func NewScheduleHandler(admin *scheduling.ScheduleAdmin) *ScheduleHandler {
	return &ScheduleHandler{admin: admin}
}

// UpsertWorkDayRule godoc
// @Summary      Configurar un día de la plantilla semanal
// @Tags         schedule
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WorkDayRuleRequest  true  "day_of_week (0=lunes..6=domingo), horario"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/schedule/workdays [put]
func (h *ScheduleHandler) UpsertWorkDayRule(c *fiber.Ctx) error {
	var in dto.WorkDayRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	start, end, err := parseHours(in.StartTime, in.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "horas deben ser HH:MM"})
	}
	rule := &entity.WorkDayRule{
		DayOfWeek:    in.DayOfWeek,
		StartTime:    start,
		EndTime:      end,
		IsWorkingDay: in.IsWorkingDay,
	}
	if err := h.admin.UpsertWorkDayRule(c.Context(), rule); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "plantilla actualizada"})
}

// ListWorkDayRules godoc
// @Summary      Listar la plantilla semanal
// @Tags         schedule
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WorkDayRuleRequest
// @Router       /api/schedule/workdays [get]
func (h *ScheduleHandler) ListWorkDayRules(c *fiber.Ctx) error {
	rules, err := h.admin.ListWorkDayRules(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.WorkDayRuleRequest, 0, len(rules))
	for _, r := range rules {
		item := dto.WorkDayRuleRequest{DayOfWeek: r.DayOfWeek, IsWorkingDay: r.IsWorkingDay}
		if r.StartTime != nil {
			item.StartTime = r.StartTime.String()
		}
		if r.EndTime != nil {
			item.EndTime = r.EndTime.String()
		}
		out = append(out, item)
	}
	return c.JSON(out)
}

// UpsertScheduledDay godoc
// @Summary      Configurar una fecha puntual del calendario
// @Description  La configuración explícita de la fecha prevalece sobre la
//
//	plantilla semanal (feriados, jornadas especiales).
//
// @Tags         schedule
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScheduledDayRequest  true  "fecha y horario"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/schedule/days [put]
func (h *ScheduleHandler) UpsertScheduledDay(c *fiber.Ctx) error {
	var in dto.ScheduledDayRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
	}
	start, end, err := parseHours(in.StartTime, in.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "horas deben ser HH:MM"})
	}
	day := &entity.ScheduledDay{
		Date:      date,
		StartTime: start,
		EndTime:   end,
		IsWorking: in.IsWorking,
		Notes:     in.Notes,
	}
	if err := h.admin.UpsertScheduledDay(c.Context(), day); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "fecha configurada"})
}

// DeleteScheduledDay godoc
// @Summary      Eliminar la configuración de una fecha
// @Tags         schedule
// @Security     Bearer
// @Produce      json
// @Param        date  path  string  true  "fecha YYYY-MM-DD"
// @Success      200   {object}  map[string]string
// @Router       /api/schedule/days/{date} [delete]
func (h *ScheduleHandler) DeleteScheduledDay(c *fiber.Ctx) error {
	date, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
	}
	if err := h.admin.DeleteScheduledDay(c.Context(), date); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "fecha eliminada"})
}

// ResolveDay godoc
// @Summary      Resolver el horario de una fecha
// @Description  Consulta pública para el formulario de reserva: indica si la
//
//	fecha es laborable y con qué horario.
//
// @Tags         schedule
// @Produce      json
// @Param        date  path  string  true  "fecha YYYY-MM-DD"
// @Success      200   {object}  dto.DayScheduleResponse
// @Router       /api/schedule/resolve/{date} [get]
func (h *ScheduleHandler) ResolveDay(c *fiber.Ctx) error {
	date, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
	}
	day, err := h.admin.ResolveDay(c.Context(), date)
	if err != nil {
		return respondError(c, err)
	}
	res := dto.DayScheduleResponse{
		Date:       date.Format("2006-01-02"),
		Configured: day.Configured,
		IsWorking:  day.IsWorking,
	}
	if day.StartTime != nil {
		res.StartTime = day.StartTime.String()
	}
	if day.EndTime != nil {
		res.EndTime = day.EndTime.String()
	}
	return c.JSON(res)
}

func parseHours(start, end string) (*entity.TimeOfDay, *entity.TimeOfDay, error) {
	var s, e *entity.TimeOfDay
	if start != "" {
		parsed, err := entity.ParseTimeOfDay(start)
		if err != nil {
			return nil, nil, err
		}
		s = &parsed
	}
	if end != "" {
		parsed, err := entity.ParseTimeOfDay(end)
		if err != nil {
			return nil, nil, err
		}
		e = &parsed
	}
	return s, e, nil
}
