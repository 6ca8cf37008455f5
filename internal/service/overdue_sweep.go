package service

// overdue_sweep.go
// Background goroutine that periodically scans for receivables past their due
// date and raises cxc_vencida alerts. The alert engine's dedup window keeps a
// repeated sweep from storming the inbox for the same receivable.

import (
	"context"
	"fmt"
	"time"

	"rumbo/internal/model"
	"rumbo/internal/repository"

	"github.com/rs/zerolog/log"
)

const overdueTickInterval = time.Hour

// StartOverdueSweep launches the sweep goroutine. It respects the context for
// graceful shutdown.
func StartOverdueSweep(ctx context.Context, recRepo repository.ReceivableRepository, alerts AlertService) {
	go func() {
		ticker := time.NewTicker(overdueTickInterval)
		defer ticker.Stop()

		log.Info().Msg("overdue_sweep: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("overdue_sweep: shutting down")
				return
			case <-ticker.C:
				sweepOverdue(ctx, recRepo, alerts)
			}
		}
	}()
}

func sweepOverdue(ctx context.Context, recRepo repository.ReceivableRepository, alerts AlertService) {
	overdue, err := recRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("overdue_sweep: query failed")
		return
	}

	role := model.RoleGerente
	for i := range overdue {
		r := &overdue[i]
		ref := r.Folio
		in := AlertInput{
			Type:     model.AlertCXCVencida,
			Severity: model.SeverityMedia,
			Title:    fmt.Sprintf("CXC vencida: %s", r.Folio),
			Message: fmt.Sprintf("La cuenta por cobrar %s de %s venció el %s con %s pendiente.",
				r.Folio, r.Counterparty, r.DueDate.Format("2006-01-02"), r.Pending.StringFixed(2)),
			ReferenceID: &ref,
			BranchID:    &r.BranchID,
			TargetRole:  &role,
		}
		if err := alerts.Raise(ctx, recRepo.DB(), in); err != nil {
			log.Error().Err(err).Str("folio", r.Folio).Msg("overdue_sweep: raise failed")
		}
	}

	if len(overdue) > 0 {
		log.Info().Int("count", len(overdue)).Msg("overdue_sweep: overdue receivables checked")
	}
}
