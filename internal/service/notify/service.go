package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/campus/internal/academics"
	"github.com/mamadbah2/campus/internal/domain/models"
	"github.com/mamadbah2/campus/internal/service/reporting"
	client "github.com/mamadbah2/campus/pkg/clients/whatsapp"
)

// Notifier delivers text notifications to administrators.
type Notifier interface {
	Send(ctx context.Context, msg models.OutboundMessage) error
	AnnounceReport(ctx context.Context, result reporting.AnnualReportResult) error
}

// WhatsAppNotifier sends notifications through the WhatsApp Cloud API.
type WhatsAppNotifier struct {
	client      client.Client
	adminNumber string
	logger      *zap.Logger
}

// NewWhatsAppNotifier wires a notifier addressed to adminNumber by default.
func NewWhatsAppNotifier(c client.Client, adminNumber string, logger *zap.Logger) *WhatsAppNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppNotifier{client: c, adminNumber: adminNumber, logger: logger}
}

// Send delivers one message. An empty recipient means the admin number.
func (n *WhatsAppNotifier) Send(ctx context.Context, msg models.OutboundMessage) error {
	to := msg.To
	if to == "" {
		to = n.adminNumber
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ids, err := n.client.SendText(ctxWithTimeout, to, msg.Body)
	if err != nil {
		return fmt.Errorf("notify %s: %w", to, err)
	}
	n.logger.Debug("notification sent", zap.String("to", to), zap.Strings("message_ids", ids))
	return nil
}

// AnnounceReport sends the text summary of result to the admin number.
func (n *WhatsAppNotifier) AnnounceReport(ctx context.Context, result reporting.AnnualReportResult) error {
	return n.Send(ctx, models.OutboundMessage{Body: FormatSummary(result)})
}

// FormatSummary renders the headline figures of a report as plain text.
func FormatSummary(result reporting.AnnualReportResult) string {
	r := result.AnnualReport
	var b strings.Builder

	fmt.Fprintf(&b, "Annual report %d\n", r.Year)
	fmt.Fprintf(&b, "Students: %d | Teachers: %d | Departments: %d\n", r.TotalStudents, r.TotalTeachers, r.TotalDepartments)
	fmt.Fprintf(&b, "Leaves: %d (approved %d, rejected %d, pending %d)\n",
		r.TotalLeaveRequests, r.ApprovedLeaves, r.RejectedLeaves, r.PendingLeaves)
	fmt.Fprintf(&b, "Attendance: %d days, presence %.2f%%\n", r.AttendanceDays, r.PresenceRatio)
	fmt.Fprintf(&b, "Gender: male %d, female %d, other %d\n", r.Gender.Male, r.Gender.Female, r.Gender.Other)

	if busiest, ok := busiestMonth(r.Monthly); ok {
		fmt.Fprintf(&b, "Busiest leave month: %s (%d)\n", busiest.Month, busiest.Leaves)
	}
	for _, d := range r.Departments {
		fmt.Fprintf(&b, "- %s: %d students, %d teachers\n", d.Department, d.Students, d.Teachers)
	}
	if len(result.Degraded) > 0 {
		fmt.Fprintf(&b, "Unavailable: %s\n", strings.Join(result.Degraded, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func busiestMonth(months []academics.MonthlyVolume) (academics.MonthlyVolume, bool) {
	var best academics.MonthlyVolume
	for _, m := range months {
		if m.Leaves > best.Leaves {
			best = m
		}
	}
	return best, best.Leaves > 0
}
