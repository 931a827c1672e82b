package notification

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/decoracionesmori/gestion-api/internal/application/notify"
)

var _ notify.Notifier = (*LogSender)(nil)

// LogSender implementa el puerto de notificaciones escribiendo al log estructurado.
// Reemplazable por un adaptador de email/SMS real sin tocar los casos de uso.
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender construye el adaptador.
func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send registra el evento y su payload.
func (s *LogSender) Send(ctx context.Context, event notify.Event, payload notify.Payload) error {
	ev := s.log.Info().Str("event", string(event))
	for k, v := range payload {
		ev = ev.Str(k, v)
	}
	ev.Msg("notificación")
	return nil
}
