package CronJobs

import (
	"fmt"
	"log"
	"strings"
	"time"

	"Fixit/Models"
	"Fixit/Notifications"
	"Fixit/Repairs"

	"github.com/robfig/cron/v3"
)

// PendingReminder nudges the operator once a day about repair requests that
// have sat uncompleted for too long.
type PendingReminder struct {
	cronScheduler *cron.Cron
	service       *Repairs.Service
	dispatcher    *Notifications.Dispatcher
	afterDays     int
	jobID         cron.EntryID
}

func NewPendingReminder(service *Repairs.Service, dispatcher *Notifications.Dispatcher, afterDays int) *PendingReminder {
	return &PendingReminder{
		cronScheduler: cron.New(),
		service:       service,
		dispatcher:    dispatcher,
		afterDays:     afterDays,
	}
}

// Start schedules the daily reminder at 09:00.
func (p *PendingReminder) Start() error {
	var err error
	p.jobID, err = p.cronScheduler.AddFunc("0 9 * * *", func() {
		log.Println("Running scheduled pending-repair reminder")
		p.runReminder()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	p.cronScheduler.Start()
	log.Println("Pending-repair reminder scheduled - will run daily at 9:00 AM")
	return nil
}

// Stop terminates the scheduler.
func (p *PendingReminder) Stop() {
	if p.cronScheduler != nil {
		p.cronScheduler.Stop()
		log.Println("Pending-repair reminder stopped")
	}
}

func (p *PendingReminder) runReminder() {
	repairs, err := p.service.List()
	if err != nil {
		log.Printf("Reminder skipped, could not load ledger: %v", err)
		return
	}

	stale := StalePending(repairs, p.afterDays, time.Now())
	if len(stale) == 0 {
		return
	}
	p.dispatcher.Broadcast(ComposeReminderMessage(stale, p.afterDays))
}

// StalePending returns the requests that are not completed and were
// submitted more than afterDays before now.
func StalePending(repairs []Models.RepairRequest, afterDays int, now time.Time) []Models.RepairRequest {
	cutoff := now.AddDate(0, 0, -afterDays)

	var stale []Models.RepairRequest
	for _, repair := range repairs {
		if repair.Completed() {
			continue
		}
		submitted, err := time.Parse(time.RFC3339, repair.SubmittedAt)
		if err != nil {
			// Unparseable timestamps count as stale rather than vanishing.
			stale = append(stale, repair)
			continue
		}
		if submitted.Before(cutoff) {
			stale = append(stale, repair)
		}
	}
	return stale
}

// ComposeReminderMessage builds the daily summary text.
func ComposeReminderMessage(stale []Models.RepairRequest, afterDays int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⏰ %d repair request(s) pending for over %d day(s):\n", len(stale), afterDays))
	for _, repair := range stale {
		b.WriteString(fmt.Sprintf("- %s / %s (%s), submitted %s\n",
			repair.Name, repair.Device, repair.Issue, repair.SubmittedAt))
	}
	return b.String()
}
