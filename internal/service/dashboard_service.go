package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rumbo/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BranchSummary is the per-branch treasury rollup served to the dashboard.
type BranchSummary struct {
	BranchID           string          `json:"branch_id"`
	BranchCode         string          `json:"branch_code"`
	OpenReceivables    decimal.Decimal `json:"open_receivables"`
	OpenPayables       decimal.Decimal `json:"open_payables"`
	OverdueReceivables int             `json:"overdue_receivables"`
	OpenAlerts         int64           `json:"open_alerts"`
	TodayInflow        decimal.Decimal `json:"today_inflow"`
	TodayOutflow       decimal.Decimal `json:"today_outflow"`
	LastClosureAt      *time.Time      `json:"last_closure_at,omitempty"`
	LastVariance       decimal.Decimal `json:"last_variance"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

type DashboardService interface {
	BranchSummary(ctx context.Context, branchID uuid.UUID) (*BranchSummary, error)
}

const dashboardCacheTTL = 60 * time.Second

type dashboardService struct {
	branches    repository.BranchRepository
	receivables repository.ReceivableRepository
	payables    repository.PayableRepository
	alerts      repository.AlertRepository
	drawers     repository.CashDrawerRepository
	rdb         *redis.Client
	now         nowFunc
}

func NewDashboardService(
	branches repository.BranchRepository,
	receivables repository.ReceivableRepository,
	payables repository.PayableRepository,
	alerts repository.AlertRepository,
	drawers repository.CashDrawerRepository,
	rdb *redis.Client,
) DashboardService {
	return &dashboardService{
		branches:    branches,
		receivables: receivables,
		payables:    payables,
		alerts:      alerts,
		drawers:     drawers,
		rdb:         rdb,
		now:         time.Now,
	}
}

// BranchSummary aggregates open balances for one branch. Results are cached in
// Redis for 60 seconds; a cache failure degrades to a direct read, never to an
// error.
func (s *dashboardService) BranchSummary(ctx context.Context, branchID uuid.UUID) (*BranchSummary, error) {
	cacheKey := fmt.Sprintf("dashboard:branch:%s", branchID)

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached BranchSummary
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	branch, err := s.branches.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}

	openCXC, err := s.receivables.SumPendingByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	openCXP, err := s.payables.SumPendingByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	openAlerts, err := s.alerts.CountOpenByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	overdue := 0
	if list, err := s.receivables.ListOverdue(ctx, now); err == nil {
		for _, rec := range list {
			if rec.BranchID == branchID {
				overdue++
			}
		}
	}

	inflow := decimal.Zero
	if received, err := s.receivables.PaymentsByBranchDate(ctx, branchID, now); err == nil {
		for _, p := range received {
			inflow = inflow.Add(p.Amount)
		}
	}
	outflow := decimal.Zero
	if made, err := s.payables.PaymentsByBranchDate(ctx, branchID, now); err == nil {
		for _, p := range made {
			outflow = outflow.Add(p.Amount)
		}
	}

	summary := &BranchSummary{
		BranchID:           branchID.String(),
		BranchCode:         branch.Code,
		OpenReceivables:    openCXC,
		OpenPayables:       openCXP,
		OverdueReceivables: overdue,
		OpenAlerts:         openAlerts,
		TodayInflow:        inflow,
		TodayOutflow:       outflow,
		LastVariance:       decimal.Zero,
		GeneratedAt:        now,
	}

	if closure, err := s.drawers.LastClosure(ctx, branchID, "principal"); err == nil && closure != nil {
		summary.LastClosureAt = &closure.CreatedAt
		summary.LastVariance = closure.Variance
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, raw, dashboardCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Str("branch_id", branchID.String()).Msg("dashboard cache write failed")
			}
		}
	}
	return summary, nil
}
