// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds field enabled) and
// managed through JobManager:
//
//	jobManager := jobs.NewJobManager(countHandler, metrics, identity, schedule, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// ActiveOrdersJob counts the orders in effect and publishes the number to the
// active-orders gauge. It runs once a minute unless another schedule is given.
package jobs
