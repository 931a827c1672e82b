package scheduling_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decoracionesmori/gestion-api/internal/application/notify"
	"github.com/decoracionesmori/gestion-api/internal/application/scheduling"
	"github.com/decoracionesmori/gestion-api/internal/domain"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
	"github.com/decoracionesmori/gestion-api/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeApptRepo struct {
	appts map[string]*entity.Appointment
	ops   []string // traza de llamadas dentro de la tx de reserva
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{appts: map[string]*entity.Appointment{}}
}

func (r *fakeApptRepo) Create(a *entity.Appointment) error {
	r.ops = append(r.ops, "create")
	r.appts[a.ID] = a
	return nil
}

func (r *fakeApptRepo) GetByID(id string) (*entity.Appointment, error) {
	return r.appts[id], nil
}

func (r *fakeApptRepo) Update(a *entity.Appointment) error {
	r.appts[a.ID] = a
	return nil
}

func (r *fakeApptRepo) LockDate(date time.Time) error {
	r.ops = append(r.ops, "lock")
	return nil
}

func (r *fakeApptRepo) CountActiveOnDate(date time.Time, excludingID string) (int, error) {
	r.ops = append(r.ops, "count")
	count := 0
	for _, a := range r.appts {
		if a.ID != excludingID && a.Date.Equal(date) && a.CountsAgainstQuota() {
			count++
		}
	}
	return count, nil
}

func (r *fakeApptRepo) ListPendingInRange(from, to time.Time) ([]*entity.Appointment, error) {
	var out []*entity.Appointment
	for _, a := range r.appts {
		if a.Status == entity.AppointmentPending && !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApptRepo) ListByDate(date time.Time) ([]*entity.Appointment, error) {
	var out []*entity.Appointment
	for _, a := range r.appts {
		if a.Date.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApptRepo) ListByClient(clientID string) ([]*entity.Appointment, error) {
	var out []*entity.Appointment
	for _, a := range r.appts {
		if a.ClientID == clientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApptRepo) List(limit, offset int) ([]*entity.Appointment, error) {
	var out []*entity.Appointment
	for _, a := range r.appts {
		out = append(out, a)
	}
	return out, nil
}

type fakeWorkDayRepo struct {
	rules map[int]*entity.WorkDayRule
}

func (r *fakeWorkDayRepo) GetByDayOfWeek(dow int) (*entity.WorkDayRule, error) {
	return r.rules[dow], nil
}

func (r *fakeWorkDayRepo) List() ([]*entity.WorkDayRule, error) {
	var out []*entity.WorkDayRule
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	return out, nil
}

func (r *fakeWorkDayRepo) Upsert(rule *entity.WorkDayRule) error {
	r.rules[rule.DayOfWeek] = rule
	return nil
}

type fakeScheduledDayRepo struct {
	days map[string]*entity.ScheduledDay // clave: fecha "2006-01-02"
}

func (r *fakeScheduledDayRepo) GetByDate(date time.Time) (*entity.ScheduledDay, error) {
	return r.days[date.Format("2006-01-02")], nil
}

func (r *fakeScheduledDayRepo) ListRange(from, to time.Time) ([]*entity.ScheduledDay, error) {
	var out []*entity.ScheduledDay
	for _, d := range r.days {
		if !d.Date.Before(from) && !d.Date.After(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeScheduledDayRepo) Upsert(d *entity.ScheduledDay) error {
	r.days[d.Date.Format("2006-01-02")] = d
	return nil
}

func (r *fakeScheduledDayRepo) Delete(date time.Time) error {
	delete(r.days, date.Format("2006-01-02"))
	return nil
}

type fakeServiceRepo struct {
	services map[string]*entity.Service
}

func (r *fakeServiceRepo) Create(s *entity.Service) error {
	r.services[s.ID] = s
	return nil
}

func (r *fakeServiceRepo) GetByID(id string) (*entity.Service, error) {
	return r.services[id], nil
}

func (r *fakeServiceRepo) List() ([]*entity.Service, error) {
	var out []*entity.Service
	for _, s := range r.services {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeServiceRepo) ListComponents(serviceID string) ([]*entity.ServiceComponent, error) {
	return nil, nil
}

func (r *fakeServiceRepo) AddComponent(c *entity.ServiceComponent) error { return nil }

// fakeTxRunner ejecuta fn directamente contra el repositorio en memoria;
// la atomicidad no se ejercita aquí.
type fakeTxRunner struct {
	apptRepo repository.AppointmentRepository
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(repository.AppointmentRepository) error) error {
	return fn(r.apptRepo)
}

type recordingNotifier struct {
	events []notify.Event
}

func (n *recordingNotifier) Send(ctx context.Context, event notify.Event, payload notify.Payload) error {
	n.events = append(n.events, event)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado del servicio bajo prueba
// ──────────────────────────────────────────────────────────────────────────────

func testSchedulingConfig() config.SchedulingConfig {
	return config.SchedulingConfig{
		DailyQuota:       3,
		MinLeadDays:      1,
		SweepBackDays:    730,
		SweepForwardDays: 5,
		ExpiryHours:      24,
	}
}

type schedFixture struct {
	svc       *scheduling.SchedulingService
	apptRepo  *fakeApptRepo
	workDays  *fakeWorkDayRepo
	schedDays *fakeScheduledDayRepo
	notifier  *recordingNotifier
	now       time.Time
}

// newSchedFixture arma el servicio con reloj fijo (lunes 10/03/2025 10:00) y
// plantilla semanal lunes-sábado 09:00-18:00.
func newSchedFixture(t *testing.T) *schedFixture {
	t.Helper()

	workDays := &fakeWorkDayRepo{rules: map[int]*entity.WorkDayRule{}}
	start := entity.TimeOfDay{Hour: 9}
	end := entity.TimeOfDay{Hour: 18}
	for dow := 0; dow <= 5; dow++ {
		workDays.rules[dow] = &entity.WorkDayRule{
			DayOfWeek: dow, StartTime: &start, EndTime: &end, IsWorkingDay: true,
		}
	}
	workDays.rules[6] = &entity.WorkDayRule{DayOfWeek: 6, IsWorkingDay: false}

	schedDays := &fakeScheduledDayRepo{days: map[string]*entity.ScheduledDay{}}
	apptRepo := newFakeApptRepo()
	svcRepo := &fakeServiceRepo{services: map[string]*entity.Service{
		"svc-1": {ID: "svc-1", Name: "Decoración de evento", Active: true},
	}}
	notifier := &recordingNotifier{}

	calendar := scheduling.NewCalendarResolver(schedDays, workDays)
	svc := scheduling.NewSchedulingService(
		testSchedulingConfig(), calendar, &fakeTxRunner{apptRepo: apptRepo},
		apptRepo, svcRepo, notifier, zerolog.Nop(),
	)
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC) // lunes
	svc.Now = func() time.Time { return now }

	return &schedFixture{
		svc: svc, apptRepo: apptRepo, workDays: workDays,
		schedDays: schedDays, notifier: notifier, now: now,
	}
}

func tod(h, m int) *entity.TimeOfDay {
	return &entity.TimeOfDay{Hour: h, Minute: m}
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución de calendario
// ──────────────────────────────────────────────────────────────────────────────

// La configuración explícita de una fecha tiene prioridad sobre la plantilla semanal.
func TestCalendarResolver_FechaExplicitaGanaALaPlantilla(t *testing.T) {
	f := newSchedFixture(t)

	wed := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC) // miércoles, laborable por plantilla
	require.NoError(t, f.schedDays.Upsert(&entity.ScheduledDay{
		ID: "sd-1", Date: wed, IsWorking: false, Notes: "feriado",
	}))

	calendar := scheduling.NewCalendarResolver(f.schedDays, f.workDays)
	day, err := calendar.Resolve(wed)
	require.NoError(t, err)
	assert.True(t, day.Configured)
	assert.False(t, day.IsWorking, "la excepción de la fecha debe anular la plantilla")
}

func TestCalendarResolver_SinConfiguracion(t *testing.T) {
	empty := scheduling.NewCalendarResolver(
		&fakeScheduledDayRepo{days: map[string]*entity.ScheduledDay{}},
		&fakeWorkDayRepo{rules: map[int]*entity.WorkDayRule{}},
	)
	day, err := empty.Resolve(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, day.Configured)
}

func TestDayOfWeek_LunesEsCero(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, scheduling.DayOfWeek(monday))
	assert.Equal(t, 6, scheduling.DayOfWeek(monday.AddDate(0, 0, -1)), "domingo debe ser 6")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserva
// ──────────────────────────────────────────────────────────────────────────────

func TestBook_DiaLaborableDentroDeHorario(t *testing.T) {
	f := newSchedFixture(t)

	appt, err := f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID:  "cli-1",
		ServiceID: "svc-1",
		Date:      time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Time:      tod(15, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentPending, appt.Status)
	assert.Equal(t, []notify.Event{notify.EventReceivedBooking}, f.notifier.events)
}

// El lock de la fecha debe tomarse antes de contar el cupo y de insertar,
// también cuando la fecha aún no tiene ninguna cita registrada.
func TestBook_BloqueaFechaAntesDeContar(t *testing.T) {
	f := newSchedFixture(t)

	_, err := f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID:  "cli-1",
		ServiceID: "svc-1",
		Date:      time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Time:      tod(15, 0),
	})
	require.NoError(t, err)

	require.NotEmpty(t, f.apptRepo.ops)
	assert.Equal(t, "lock", f.apptRepo.ops[0], "el lock abre la sección crítica")

	var locked bool
	for _, op := range f.apptRepo.ops {
		switch op {
		case "lock":
			locked = true
		case "count", "create":
			assert.True(t, locked, "operación %q antes del lock de la fecha", op)
		}
	}
}

func TestBook_CupoDiarioLleno(t *testing.T) {
	f := newSchedFixture(t)
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Book(context.Background(), scheduling.BookingInput{
			ClientID: "cli-1", ServiceID: "svc-1", Date: date, Time: tod(10+i, 0),
		})
		require.NoError(t, err)
	}

	// La cuarta solicitud de la misma fecha debe rechazarse.
	_, err := f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID: "cli-2", ServiceID: "svc-1", Date: date, Time: tod(16, 0),
	})
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

// Una cita cancelada libera su cupo.
func TestBook_CanceladaNoOcupaCupo(t *testing.T) {
	f := newSchedFixture(t)
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	var first *entity.Appointment
	for i := 0; i < 3; i++ {
		appt, err := f.svc.Book(context.Background(), scheduling.BookingInput{
			ClientID: "cli-1", ServiceID: "svc-1", Date: date, Time: tod(10+i, 0),
		})
		require.NoError(t, err)
		if first == nil {
			first = appt
		}
	}

	require.NoError(t, f.svc.Cancel(context.Background(), first.ID, scheduling.Actor{IsStaff: true}))

	_, err := f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID: "cli-2", ServiceID: "svc-1", Date: date, Time: tod(16, 0),
	})
	assert.NoError(t, err, "la cancelación debe liberar el cupo")
}

func TestBook_SinAnticipacionMinima(t *testing.T) {
	f := newSchedFixture(t)

	// Mismo día que el reloj fijo: rechazo por anticipación.
	_, err := f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID: "cli-1", ServiceID: "svc-1",
		Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, domain.ErrPastOrTooSoon)

	// Mañana ya cumple la anticipación de 1 día.
	_, err = f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID: "cli-1", ServiceID: "svc-1",
		Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Time: tod(10, 0),
	})
	assert.NoError(t, err)
}

func TestBook_DiaNoLaborablePorExcepcion(t *testing.T) {
	f := newSchedFixture(t)
	wed := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.schedDays.Upsert(&entity.ScheduledDay{ID: "sd-1", Date: wed, IsWorking: false}))

	_, err := f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID: "cli-1", ServiceID: "svc-1", Date: wed, Time: tod(10, 0),
	})
	assert.ErrorIs(t, err, domain.ErrNonWorkingDay)
}

func TestBook_FueraDeHorario(t *testing.T) {
	f := newSchedFixture(t)

	_, err := f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID: "cli-1", ServiceID: "svc-1",
		Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), Time: tod(19, 0),
	})
	assert.ErrorIs(t, err, domain.ErrOutsideHours)
}

func TestBook_SinHoraEsValida(t *testing.T) {
	f := newSchedFixture(t)

	appt, err := f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID: "cli-1", ServiceID: "svc-1",
		Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Nil(t, appt.Time)
}

func TestBook_ServicioInexistente(t *testing.T) {
	f := newSchedFixture(t)

	_, err := f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID: "cli-1", ServiceID: "no-existe",
		Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reprogramación
// ──────────────────────────────────────────────────────────────────────────────

// Al reprogramar dentro de la misma fecha, la propia cita no cuenta contra el cupo.
func TestReschedule_ExcluyeLaPropiaCitaDelCupo(t *testing.T) {
	f := newSchedFixture(t)
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	var first *entity.Appointment
	for i := 0; i < 3; i++ {
		appt, err := f.svc.Book(context.Background(), scheduling.BookingInput{
			ClientID: "cli-1", ServiceID: "svc-1", Date: date, Time: tod(10+i, 0),
		})
		require.NoError(t, err)
		if first == nil {
			first = appt
		}
	}

	// Fecha llena, pero mover la hora dentro del mismo día debe funcionar.
	updated, err := f.svc.Reschedule(context.Background(), first.ID, date, tod(17, 0))
	require.NoError(t, err)
	assert.Equal(t, "17:00", updated.Time.String())
}

func TestReschedule_HaciaFechaLlena(t *testing.T) {
	f := newSchedFixture(t)
	full := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	other := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Book(context.Background(), scheduling.BookingInput{
			ClientID: "cli-1", ServiceID: "svc-1", Date: full, Time: tod(10+i, 0),
		})
		require.NoError(t, err)
	}
	appt, err := f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID: "cli-2", ServiceID: "svc-1", Date: other, Time: tod(10, 0),
	})
	require.NoError(t, err)

	_, err = f.svc.Reschedule(context.Background(), appt.ID, full, tod(16, 0))
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestReschedule_CitaTerminal(t *testing.T) {
	f := newSchedFixture(t)
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	appt, err := f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID: "cli-1", ServiceID: "svc-1", Date: date, Time: tod(10, 0),
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(context.Background(), appt.ID, scheduling.Actor{IsStaff: true}))

	_, err = f.svc.Reschedule(context.Background(), appt.ID, date.AddDate(0, 0, 1), tod(10, 0))
	assert.ErrorIs(t, err, domain.ErrNotCancellable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_SoloDuenoOPersonal(t *testing.T) {
	f := newSchedFixture(t)
	appt, err := f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID: "cli-1", ServiceID: "svc-1",
		Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), Time: tod(10, 0),
	})
	require.NoError(t, err)

	err = f.svc.Cancel(context.Background(), appt.ID, scheduling.Actor{ClientID: "cli-otro"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.svc.Cancel(context.Background(), appt.ID, scheduling.Actor{ClientID: "cli-1"})
	assert.NoError(t, err, "el dueño debe poder cancelar su cita")
}

func TestCancel_CitaYaCancelada(t *testing.T) {
	f := newSchedFixture(t)
	appt, err := f.svc.Book(context.Background(), scheduling.BookingInput{
		ClientID: "cli-1", ServiceID: "svc-1",
		Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), Time: tod(10, 0),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(context.Background(), appt.ID, scheduling.Actor{IsStaff: true}))
	err = f.svc.Cancel(context.Background(), appt.ID, scheduling.Actor{IsStaff: true})
	assert.ErrorIs(t, err, domain.ErrNotCancellable)
}
