package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lunchroom/internal/core/application/usecases/commands"
	"lunchroom/internal/core/domain/model/order"
	"lunchroom/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// pendingCutoff is how long an order may sit in PENDING before reconciliation
// asks the gateway about it. Webhooks normally arrive within seconds; anything
// older than this either lost its webhook or lost its customer mid-payment.
const pendingCutoff = 15 * time.Minute

// PaymentReconciliationJob is the backstop for lost payment webhooks. Every
// run it lists orders stuck in PENDING, asks the gateway for the intent's
// actual state, and applies the outcome through the same command the webhook
// endpoint uses, so both paths share one set of transition rules.
type PaymentReconciliationJob struct {
	uowFactory commands.OrderUoWFactory
	gateway    ports.PaymentGateway
	handler    commands.RecordPaymentEventCommandHandler
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewPaymentReconciliationJob creates a job that reconciles pending payments
// every five minutes.
func NewPaymentReconciliationJob(
	uowFactory commands.OrderUoWFactory,
	gateway ports.PaymentGateway,
	handler commands.RecordPaymentEventCommandHandler,
	logger *slog.Logger,
) *PaymentReconciliationJob {
	return &PaymentReconciliationJob{
		uowFactory: uowFactory,
		gateway:    gateway,
		handler:    handler,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "payment_reconciliation_job"),
	}
}

// Start begins the reconciliation job, running every five minutes.
func (j *PaymentReconciliationJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", func() {
		j.Reconcile(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Payment reconciliation job started (running every five minutes)")
	return nil
}

// Stop stops the reconciliation job.
func (j *PaymentReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Payment reconciliation job stopped")
}

// Reconcile runs one reconciliation pass. Exported so startup can run an
// immediate pass before the first scheduled tick.
func (j *PaymentReconciliationJob) Reconcile(ctx context.Context) {
	repo := j.uowFactory.Create().OrderRepository()
	stale, err := repo.FindPendingCreatedBefore(ctx, time.Now().Add(-pendingCutoff))
	if err != nil {
		j.logger.ErrorContext(ctx, "Listing pending orders failed", "error", err)
		return
	}

	for _, aggregate := range stale {
		if err = j.reconcileOrder(ctx, aggregate); err != nil {
			j.logger.ErrorContext(ctx, "Reconciling order failed",
				"order_number", aggregate.Number(),
				"payment_ref", aggregate.PaymentRef(),
				"error", err,
			)
		}
	}
}

func (j *PaymentReconciliationJob) reconcileOrder(ctx context.Context, aggregate *order.Order) error {
	state, err := j.gateway.RetrieveIntentState(ctx, aggregate.PaymentRef())
	if err != nil {
		return err
	}

	var outcome order.PaymentStatus
	switch state {
	case ports.IntentSucceeded:
		outcome = order.PaymentCompleted
	case ports.IntentCanceled:
		outcome = order.PaymentFailed
	default:
		// Still in flight at the gateway; leave it for the next pass.
		return nil
	}

	cmd, err := commands.NewRecordPaymentEventCommand(aggregate.PaymentRef(), outcome)
	if err != nil {
		return err
	}

	err = j.handler.Handle(ctx, cmd)
	if errors.Is(err, commands.ErrUnknownPaymentReference) {
		// The order vanished between listing and applying; nothing to do.
		return nil
	}
	if err != nil {
		return err
	}

	j.logger.InfoContext(ctx, "Reconciled pending payment",
		"order_number", aggregate.Number(),
		"payment_ref", aggregate.PaymentRef(),
		"outcome", outcome.String(),
	)
	return nil
}
