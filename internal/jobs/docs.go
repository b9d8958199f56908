// Package jobs provides scheduled background tasks for the lunch ordering
// system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations the request path cannot guarantee.
//
// # Available Jobs
//
// 1. PaymentReconciliationJob - Runs every five minutes to resolve orders
// whose payment webhook never arrived, by polling the gateway directly.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(uowFactory, gateway, recordPaymentEventHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Reconciliation treats per-order failures as isolated: one order failing to
// reconcile is logged and the pass continues with the rest. Orders whose
// intent is still in flight at the gateway are left for the next pass.
package jobs
