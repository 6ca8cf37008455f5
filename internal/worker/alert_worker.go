package worker

// alert_worker.go
// Delivers alert notifications by email. The alert row was already committed
// by the business transaction; this worker only handles delivery, so a broken
// mail sink degrades to undelivered notifications, never to a lost posting.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rumbo/internal/infra"
	"rumbo/internal/model"
	"rumbo/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const alertMaxAttempts = 3

// AlertJobPayload is the job envelope sent to QueueAlertas.
type AlertJobPayload struct {
	AlertID string `json:"alert_id"`
}

// AlertWorker re-reads the alert by ID and mails it to the operations inbox.
// Re-reading means an enqueue whose business transaction rolled back is
// silently dropped (the row does not exist).
type AlertWorker struct {
	alertRepo repository.AlertRepository
	mailer    *infra.Mailer
	cb        *infra.CircuitBreaker
	inbox     string
}

func NewAlertWorker(alertRepo repository.AlertRepository, mailer *infra.Mailer, cb *infra.CircuitBreaker, inbox string) *AlertWorker {
	return &AlertWorker{alertRepo: alertRepo, mailer: mailer, cb: cb, inbox: inbox}
}

// Process delivers one alert, retrying with linear backoff before giving up
// to the DLQ.
func (w *AlertWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload AlertJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return
	}

	id, err := uuid.Parse(payload.AlertID)
	if err != nil {
		log.Error().Str("alert_id", payload.AlertID).Msg("alert_worker: invalid alert_id")
		return
	}

	alert, err := w.alertRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Business transaction rolled back after enqueue — nothing to deliver.
		log.Debug().Str("alert_id", payload.AlertID).Msg("alert_worker: alert not found, dropping")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("alert_id", payload.AlertID).Msg("alert_worker: fetch failed")
		SendToDLQ(ctx, rdb, QueueAlertas, "alerta", raw, "fetch: "+err.Error(), 1)
		return
	}

	subject := fmt.Sprintf("[%s] %s", alert.Severity, alert.Title)
	body := buildAlertBody(alert)

	for attempt := 1; attempt <= alertMaxAttempts; attempt++ {
		err = w.cb.Execute(func() error {
			return w.mailer.SendAlerta(w.inbox, subject, body)
		})
		if err == nil {
			log.Info().Str("alert_id", payload.AlertID).Str("type", alert.Type).Msg("alert_worker: delivered")
			return
		}
		log.Warn().Err(err).Int("attempt", attempt).Str("alert_id", payload.AlertID).Msg("alert_worker: delivery failed")
		if errors.Is(err, infra.ErrCircuitOpen) {
			break // mail sink is down, retrying now is pointless
		}
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	SendToDLQ(ctx, rdb, QueueAlertas, "alerta", raw, "delivery: "+err.Error(), alertMaxAttempts)
}

func buildAlertBody(a *model.Alert) string {
	body := a.Message
	if a.ReferenceID != nil {
		body += fmt.Sprintf("\n\nReferencia: %s", *a.ReferenceID)
	}
	if a.TargetRole != nil {
		body += fmt.Sprintf("\nDirigida a: %s", *a.TargetRole)
	}
	body += fmt.Sprintf("\nGenerada: %s", a.CreatedAt.Format(time.RFC3339))
	return body
}
