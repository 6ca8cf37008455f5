package service

import (
	"context"
	"errors"
	"time"

	"rumbo/internal/finerr"
	"rumbo/internal/model"
	"rumbo/internal/repository"
	"rumbo/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AlertInput is the plain structured input for raising an alert.
type AlertInput struct {
	Type        string
	Severity    model.AlertSeverity
	Title       string
	Message     string
	ReferenceID *string
	BranchID    *uuid.UUID
	TargetRole  *model.Role
}

// AlertService raises deduplicated alerts and manages their read/resolved
// lifecycle. The row insert joins the caller's transaction; email delivery is
// a queued side effect so a broken mail sink can never roll back a posting.
type AlertService interface {
	// Raise inserts the alert unless an unresolved alert of the same
	// (type, reference) exists within the dedup window. Suppression is not an
	// error: repeated scheduled checks are expected to hit it.
	Raise(ctx context.Context, tx *gorm.DB, in AlertInput) error
	List(ctx context.Context, filter repository.AlertFilter) ([]model.Alert, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Resolve(ctx context.Context, id uuid.UUID) error
}

type alertService struct {
	repo       repository.AlertRepository
	dispatcher *worker.Dispatcher
	now        nowFunc
}

func NewAlertService(repo repository.AlertRepository, dispatcher *worker.Dispatcher) AlertService {
	return &alertService{repo: repo, dispatcher: dispatcher, now: time.Now}
}

func (s *alertService) Raise(ctx context.Context, tx *gorm.DB, in AlertInput) error {
	if in.Type == "" || in.Title == "" {
		return finerr.Validation("alerta sin tipo o título")
	}

	if in.ReferenceID != nil && *in.ReferenceID != "" {
		since := s.now().Add(-AlertDedupWindow)
		existing, err := s.repo.FindOpenDuplicate(ctx, tx, in.Type, *in.ReferenceID, since)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && existing != nil {
			log.Debug().
				Str("type", in.Type).
				Str("reference_id", *in.ReferenceID).
				Msg("alert suppressed: open duplicate within window")
			return nil
		}
	}

	alert := &model.Alert{
		Type:        in.Type,
		Severity:    in.Severity,
		Title:       in.Title,
		Message:     in.Message,
		ReferenceID: in.ReferenceID,
		BranchID:    in.BranchID,
		TargetRole:  in.TargetRole,
	}
	if err := s.repo.Create(ctx, tx, alert); err != nil {
		return err
	}

	// Best effort: the delivery worker re-reads the alert by ID, so an enqueue
	// for a transaction that later rolls back is simply dropped by the worker.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueAlert(ctx, worker.AlertJobPayload{AlertID: alert.ID.String()}); err != nil {
			log.Error().Err(err).Str("alert_id", alert.ID.String()).Msg("failed to enqueue alert delivery")
		}
	}
	return nil
}

func (s *alertService) List(ctx context.Context, filter repository.AlertFilter) ([]model.Alert, int64, error) {
	return s.repo.List(ctx, filter)
}

func (s *alertService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *alertService) Resolve(ctx context.Context, id uuid.UUID) error {
	return s.repo.Resolve(ctx, id, s.now())
}
