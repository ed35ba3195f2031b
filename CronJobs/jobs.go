package CronJobs

import (
	"fmt"
	"log"
	"time"

	"Glacier/Models"

	"github.com/robfig/cron/v3"
)

// MaintenanceRunner owns the scheduled back-office housekeeping: flagging
// unpaid invoices past their due date as overdue and purging expired
// sessions.
type MaintenanceRunner struct {
	cronScheduler  *cron.Cron
	runImmediately bool
	jobID          cron.EntryID
}

// NewMaintenanceRunner creates a new maintenance runner
func NewMaintenanceRunner(runImmediately bool) *MaintenanceRunner {
	return &MaintenanceRunner{
		cronScheduler:  cron.New(cron.WithSeconds()),
		runImmediately: runImmediately,
	}
}

// Start schedules the daily maintenance run
func (m *MaintenanceRunner) Start() error {
	var err error
	m.jobID, err = m.cronScheduler.AddFunc("0 0 1 * * *", func() {
		log.Println("Running scheduled daily maintenance")
		m.runMaintenance()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	m.cronScheduler.Start()
	log.Println("Maintenance scheduler started - will run daily at 1:00 AM")

	if m.runImmediately {
		log.Println("Running initial maintenance pass")
		m.runMaintenance()
	}

	return nil
}

// Stop terminates the maintenance runner
func (m *MaintenanceRunner) Stop() {
	if m.cronScheduler != nil {
		m.cronScheduler.Stop()
		log.Println("Maintenance scheduler stopped")
	}
}

func (m *MaintenanceRunner) runMaintenance() {
	MarkOverdueInvoices(time.Now())
	PurgeExpiredSessions(time.Now())
}

// MarkOverdueInvoices flags pending invoices whose due date has passed.
// Draft and paid invoices are left alone.
func MarkOverdueInvoices(now time.Time) {
	result := Models.DB.Model(&Models.Invoice{}).
		Where("status = ? AND due_date < ?", Models.InvoiceStatusPending, now).
		Update("status", Models.InvoiceStatusOverdue)
	if result.Error != nil {
		log.Printf("Error marking overdue invoices: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Marked %d invoices as overdue", result.RowsAffected)
	}
}

// PurgeExpiredSessions removes session rows past their expiry.
func PurgeExpiredSessions(now time.Time) {
	result := Models.DB.Where("expires_at < ?", now).Delete(&Models.Session{})
	if result.Error != nil {
		log.Printf("Error purging expired sessions: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Purged %d expired sessions", result.RowsAffected)
	}
}
