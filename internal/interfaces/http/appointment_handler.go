package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/decoracionesmori/gestion-api/internal/application/auth"
	"github.com/decoracionesmori/gestion-api/internal/application/clients"
	"github.com/decoracionesmori/gestion-api/internal/application/dto"
	"github.com/decoracionesmori/gestion-api/internal/application/scheduling"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
)

// AppointmentHandler maneja las peticiones HTTP de citas.
type AppointmentHandler struct {
	schedUC  *scheduling.SchedulingService
	clientUC *clients.ClientUseCase
	authUC   *auth.AuthUseCase
}

// NewAppointmentHandler construye el handler de citas.
func NewAppointmentHandler(schedUC *scheduling.SchedulingService, clientUC *clients.ClientUseCase, authUC *auth.AuthUseCase) *AppointmentHandler {
	return &AppointmentHandler{schedUC: schedUC, clientUC: clientUC, authUC: authUC}
}

// Book godoc
// @Summary      Solicitar una cita
// @Description  Crea o reutiliza el registro de cliente por DNI y reserva la cita
//
//	en estado pending, validando calendario, cupo diario y horario.
//
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BookingRequest  true  "service_id, date, time?, datos de contacto"
// @Success      201   {object}  dto.AppointmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/appointments [post]
func (h *AppointmentHandler) Book(c *fiber.Ctx) error {
	var in dto.BookingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
	}
	var t *entity.TimeOfDay
	if in.Time != "" {
		parsed, err := entity.ParseTimeOfDay(in.Time)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "time debe ser HH:MM"})
		}
		t = &parsed
	}

	client, err := h.clientUC.GetOrCreateByDNI(c.Context(), dto.ClientRequest{
		DNI:         in.DNI,
		Name:        in.Name,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
	})
	if err != nil {
		return respondError(c, err)
	}

	appt, err := h.schedUC.Book(c.Context(), scheduling.BookingInput{
		ClientID:  client.ID,
		ServiceID: in.ServiceID,
		StaffID:   in.StaffID,
		Date:      date,
		Time:      t,
		Notes:     in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAppointmentResponse(appt))
}

// GetByID godoc
// @Summary      Obtener una cita
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la cita"
// @Success      200  {object}  dto.AppointmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/appointments/{id} [get]
func (h *AppointmentHandler) GetByID(c *fiber.Ctx) error {
	appt, err := h.schedUC.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAppointmentResponse(appt))
}

// Reschedule godoc
// @Summary      Reprogramar una cita
// @Tags         appointments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la cita"
// @Param        body  body  dto.RescheduleRequest  true  "nueva fecha/hora"
// @Success      200   {object}  dto.AppointmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/appointments/{id} [put]
func (h *AppointmentHandler) Reschedule(c *fiber.Ctx) error {
	var in dto.RescheduleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
	}
	var t *entity.TimeOfDay
	if in.Time != "" {
		parsed, err := entity.ParseTimeOfDay(in.Time)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "time debe ser HH:MM"})
		}
		t = &parsed
	}
	appt, err := h.schedUC.Reschedule(c.Context(), c.Params("id"), date, t)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAppointmentResponse(appt))
}

// Cancel godoc
// @Summary      Cancelar una cita
// @Description  Solo el cliente dueño o el personal pueden cancelar; solo citas
//
//	pending o confirmed admiten cancelación.
//
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la cita"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c *fiber.Ctx) error {
	actor, err := h.resolveActor(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.schedUC.Cancel(c.Context(), c.Params("id"), actor); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "cita cancelada"})
}

// List godoc
// @Summary      Listar citas (personal)
// @Description  Ejecuta primero la pasada de vencimiento sobre la ventana
//
//	configurada y luego devuelve el listado paginado.
//
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.AppointmentResponse
// @Router       /api/appointments [get]
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	// Barrido oportunista: el listado administrativo nunca muestra pendientes vencidas.
	if _, err := h.schedUC.SweepExpired(c.Context()); err != nil {
		return respondError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.schedUC.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAppointmentResponses(list))
}

// ListMine godoc
// @Summary      Listar mis citas
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AppointmentResponse
// @Router       /api/appointments/mine [get]
func (h *AppointmentHandler) ListMine(c *fiber.Ctx) error {
	actor, err := h.resolveActor(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.schedUC.ListByClient(c.Context(), actor.ClientID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAppointmentResponses(list))
}

// Sweep godoc
// @Summary      Ejecutar la pasada de vencimiento (personal)
// @Description  Cancela las citas pending cuyo plazo de confirmación ya venció.
//
//	Idempotente: una segunda pasada no cancela nada más.
//
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SweepResponse
// @Router       /api/appointments/sweep [post]
func (h *AppointmentHandler) Sweep(c *fiber.Ctx) error {
	cancelled, err := h.schedUC.SweepExpired(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SweepResponse{Cancelled: cancelled})
}

// resolveActor arma el actor de la operación desde el token: usuario, rol y, para
// clientes, su registro de cliente.
func (h *AppointmentHandler) resolveActor(c *fiber.Ctx) (scheduling.Actor, error) {
	user, err := h.authUC.GetByID(GetUserID(c))
	if err != nil {
		return scheduling.Actor{}, err
	}
	return scheduling.Actor{
		UserID:   user.ID,
		ClientID: user.ClientID,
		IsStaff:  user.IsStaff(),
	}, nil
}

func toAppointmentResponse(a *entity.Appointment) dto.AppointmentResponse {
	res := dto.AppointmentResponse{
		ID:        a.ID,
		ClientID:  a.ClientID,
		ServiceID: a.ServiceID,
		StaffID:   a.StaffID,
		Date:      a.Date.Format("2006-01-02"),
		Status:    a.Status,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.Time != nil {
		res.Time = a.Time.String()
	}
	return res
}

func toAppointmentResponses(list []*entity.Appointment) []dto.AppointmentResponse {
	out := make([]dto.AppointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAppointmentResponse(a))
	}
	return out
}
