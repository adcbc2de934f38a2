package scheduler

import (
	"context"
	"fmt"
	"time"

	"chatspace/internal/database"
	"chatspace/internal/models"
	"chatspace/internal/realtime"
	"chatspace/pkg/logger"
)

// Dispatcher converts due, unsent events into group reminder messages.
// Run is idempotent: it may fire on overlapping schedules (hourly sweep
// plus a daily fixed-time run) and each event still produces at most one
// reminder, because processing starts with a conditional claim on the
// event row.
type Dispatcher struct {
	db     database.Database
	router *realtime.Router
}

func NewDispatcher(db database.Database, router *realtime.Router) *Dispatcher {
	return &Dispatcher{db: db, router: router}
}

// Run processes every event due today. Events are independent units of
// work: one failure is logged and the rest of the batch continues.
func (d *Dispatcher) Run(ctx context.Context) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	events, err := d.db.FindDueEvents(ctx, from, to)
	if err != nil {
		logger.Error("Error finding due events: %v", err)
		return
	}

	for _, event := range events {
		if err := d.process(ctx, event); err != nil {
			logger.Error("Error sending reminder for event %s: %v", event.ID, err)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, event *models.Event) error {
	// Claim before sending: a concurrent run claiming the same event
	// loses here and skips it.
	claimed, err := d.db.ClaimEventReminder(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("failed to claim event: %w", err)
	}
	if !claimed {
		return nil
	}

	msg, err := d.db.CreateMessage(ctx, &models.Message{
		SenderID: event.CreatedBy,
		GroupID:  event.GroupID,
		Kind:     models.MessageKindGroup,
		Text:     reminderBody(event),
	})
	if err != nil {
		return fmt.Errorf("failed to save reminder message: %w", err)
	}

	// Membership is resolved now, not at event-creation time, so the
	// reminder reaches the group as it currently stands.
	group, err := d.db.GetGroupByID(ctx, event.GroupID)
	if err != nil {
		return fmt.Errorf("failed to resolve group: %w", err)
	}
	memberIDs := group.MemberIDs()

	// Reminders go to every member, the creator included.
	d.router.RouteGroup(msg, memberIDs, "")
	d.router.NotifyEvent(memberIDs, models.EventNotification{
		Title:     "Event Reminder",
		Message:   fmt.Sprintf("%q is scheduled for today!", event.Title),
		GroupName: group.Name,
		EventID:   event.ID,
	})

	logger.Info("Reminder sent for event: %s", event.Title)
	return nil
}

func reminderBody(event *models.Event) string {
	body := fmt.Sprintf("🔔 Event Reminder: %q", event.Title)
	if event.Description != "" {
		body += "\n📝 " + event.Description
	}
	return body + "\n📅 Today"
}
