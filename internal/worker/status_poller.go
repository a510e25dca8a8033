package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/febryan/qrispay/internal/adapter/midtrans"
	"github.com/febryan/qrispay/internal/domain/model"
	"github.com/febryan/qrispay/internal/metrics"
)

// PaymentFacade exposes the subset of application functionality required by the poller.
type PaymentFacade interface {
	OrdersForReconciliation(ctx context.Context, limit int) ([]model.Order, error)
	ReconcileOrder(ctx context.Context, order model.Order) error
}

// StatusPoller reconciles non-terminal orders with the payment provider
// concurrently. An order is never reconciled by two workers at once.
type StatusPoller struct {
	facade       PaymentFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	metrics      *metrics.Metrics
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex

	inFlightMu sync.Mutex
	inFlight   map[int64]struct{}
}

// NewStatusPoller constructs the reconciliation worker pool.
func NewStatusPoller(facade PaymentFacade, pollInterval time.Duration, batchSize, workers int, m *metrics.Metrics, logger *slog.Logger) *StatusPoller {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &StatusPoller{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		metrics:      m,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
		inFlight:     make(map[int64]struct{}),
	}
}

// Start launches background reconciliation.
func (p *StatusPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *StatusPoller) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *StatusPoller) fetchAndDispatch(ctx context.Context) {
	orders, err := p.facade.OrdersForReconciliation(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch orders for reconciliation failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		if !p.acquire(order.ID) {
			continue
		}
		select {
		case <-ctx.Done():
			p.release(order.ID)
			return
		case p.jobs <- order:
		}
	}
}

func (p *StatusPoller) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleOrder(ctx, order)
			p.release(order.ID)
		}
	}
}

func (p *StatusPoller) handleOrder(ctx context.Context, order model.Order) {
	err := p.facade.ReconcileOrder(ctx, order)
	if err == nil {
		p.observe("success")
		return
	}

	var rateLimited midtrans.TooManyRequestsError
	switch {
	case errors.As(err, &rateLimited):
		p.observe("rate_limited")
		p.logger.Warn("provider rate limited", slog.Duration("retry_after", rateLimited.RetryAfter))
		select {
		case <-ctx.Done():
		case <-time.After(rateLimited.RetryAfter):
		}
	case errors.Is(err, midtrans.ErrTransactionNotFound):
		// Charged but not yet visible on the provider side; next tick retries.
		p.observe("not_found")
	default:
		p.observe("error")
		if p.metrics != nil {
			p.metrics.ProviderErrors.Inc()
		}
		p.logger.Error("reconcile order failed",
			slog.String("order_id", order.OrderID),
			slog.String("error", err.Error()),
		)
	}
}

func (p *StatusPoller) observe(result string) {
	if p.metrics != nil {
		p.metrics.Reconciliations.WithLabelValues(result).Inc()
	}
}

func (p *StatusPoller) acquire(orderID int64) bool {
	p.inFlightMu.Lock()
	defer p.inFlightMu.Unlock()
	if _, busy := p.inFlight[orderID]; busy {
		return false
	}
	p.inFlight[orderID] = struct{}{}
	return true
}

func (p *StatusPoller) release(orderID int64) {
	p.inFlightMu.Lock()
	defer p.inFlightMu.Unlock()
	delete(p.inFlight, orderID)
}
