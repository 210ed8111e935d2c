// Package jobs provides scheduled background tasks for the storefront.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// FulfillmentProgressJob - moves every paid, undelivered order one step
// (Confirmed → InPreparation → InTransit → Delivered) per tick. It is enabled
// with FULFILLMENT_MODE=cron and replaces manual staff advances in demos.
//
// # Usage
//
//	job := jobs.NewFulfillmentProgressJob(listOrdersHandler, advanceOrderHandler, "*/30 * * * * *", logger)
//	jobManager := jobs.NewJobManager(job)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six field cron format with a leading seconds field.
// Overlapping ticks are skipped.
//
// # Error Handling
//
// Orders that vanish between listing and advancing are ignored. Every other
// failure is logged and retried on the next tick.
package jobs
