package scheduling_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decoracionesmori/gestion-api/internal/application/scheduling"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
)

// seedPending inserta directamente una cita pending en el repositorio en memoria.
func seedPending(f *schedFixture, id string, date time.Time, t *entity.TimeOfDay) *entity.Appointment {
	appt := &entity.Appointment{
		ID:        id,
		ClientID:  "cli-1",
		ServiceID: "svc-1",
		Date:      scheduling.DateOnly(date),
		Time:      t,
		Status:    entity.AppointmentPending,
		CreatedAt: f.now.AddDate(0, 0, -10),
	}
	f.apptRepo.appts[id] = appt
	return appt
}

// Cita para mañana sin hora: el plazo es 23:59 de mañana menos 24h, es decir hoy
// 23:59. Un barrido antes de ese instante no la toca; uno después la cancela.
func TestSweep_PlazoDeCitaSinHora(t *testing.T) {
	f := newSchedFixture(t)
	tomorrow := f.now.AddDate(0, 0, 1)
	appt := seedPending(f, "ap-1", tomorrow, nil)

	// 10:00 de hoy: aún dentro del plazo.
	cancelled, err := f.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cancelled)
	assert.Equal(t, entity.AppointmentPending, appt.Status)

	// 23:59:30 de hoy: el plazo (23:59:00) ya pasó.
	f.svc.Now = func() time.Time {
		return time.Date(2025, 3, 10, 23, 59, 30, 0, time.UTC)
	}
	cancelled, err = f.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, entity.AppointmentCancelled, appt.Status)
	assert.Contains(t, appt.Notes, "[AUTO] Cancelada", "debe quedar nota de auditoría")
	assert.Contains(t, appt.Notes, "Deadline era:")
}

// Cita con hora explícita: el plazo es fecha+hora menos 24h.
func TestSweep_PlazoDeCitaConHora(t *testing.T) {
	f := newSchedFixture(t)
	tomorrow := f.now.AddDate(0, 0, 1)
	appt := seedPending(f, "ap-1", tomorrow, tod(15, 0)) // plazo: hoy 15:00

	f.svc.Now = func() time.Time { return time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC) }
	cancelled, err := f.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cancelled, "a las 14:00 el plazo de las 15:00 no ha vencido")

	f.svc.Now = func() time.Time { return time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC) }
	cancelled, err = f.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, entity.AppointmentCancelled, appt.Status)
}

// Un segundo barrido sobre los mismos datos no cancela nada más.
func TestSweep_Idempotente(t *testing.T) {
	f := newSchedFixture(t)
	seedPending(f, "ap-1", f.now.AddDate(0, 0, 1), tod(9, 0)) // plazo hoy 09:00, ya vencido

	cancelled, err := f.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	cancelled, err = f.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cancelled, "el barrido solo considera citas pending")
}

// Las citas confirmadas no vencen: ya pagaron su adelanto.
func TestSweep_NoTocaConfirmadas(t *testing.T) {
	f := newSchedFixture(t)
	appt := seedPending(f, "ap-1", f.now.AddDate(0, 0, 1), tod(9, 0))
	appt.Status = entity.AppointmentConfirmed

	cancelled, err := f.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cancelled)
	assert.Equal(t, entity.AppointmentConfirmed, appt.Status)
}

// Citas fuera de la ventana del barrido quedan intactas aunque estén vencidas.
func TestSweep_RespetaLaVentana(t *testing.T) {
	f := newSchedFixture(t)
	farFuture := seedPending(f, "ap-futuro", f.now.AddDate(0, 0, 30), tod(9, 0))
	veryOld := seedPending(f, "ap-antiguo", f.now.AddDate(-3, 0, 0), tod(9, 0))

	cancelled, err := f.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cancelled)
	assert.Equal(t, entity.AppointmentPending, farFuture.Status)
	assert.Equal(t, entity.AppointmentPending, veryOld.Status)
}

// Varias vencidas en una pasada: todas caen y el contador las suma.
func TestSweep_CancelaVariasEnUnaPasada(t *testing.T) {
	f := newSchedFixture(t)
	seedPending(f, "ap-1", f.now.AddDate(0, 0, 1), tod(9, 0))
	seedPending(f, "ap-2", f.now.AddDate(0, 0, 1), tod(9, 30))
	alive := seedPending(f, "ap-3", f.now.AddDate(0, 0, 2), nil)

	cancelled, err := f.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, cancelled)
	assert.Equal(t, entity.AppointmentPending, alive.Status)
}
