package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/campus/internal/academics"
	"github.com/mamadbah2/campus/internal/domain/models"
	"github.com/mamadbah2/campus/internal/service/reporting"
)

type recordingClient struct {
	to, body string
}

func (c *recordingClient) SendText(_ context.Context, to, body string) ([]string, error) {
	c.to, c.body = to, body
	return []string{"id-1"}, nil
}

func sampleResult() reporting.AnnualReportResult {
	report := academics.BuildAnnualReport(2025, academics.ReportInputs{
		People: []models.PersonRecord{
			{Role: models.RoleStudent, Department: "CSE", Gender: "f"},
			{Role: models.RoleTeacher, Department: "CSE"},
		},
		Leaves: []models.LeaveRecord{
			{Status: models.LeaveApproved, CreatedAt: "2025-04-01"},
			{Status: models.LeavePending, CreatedAt: "2025-04-02"},
		},
	}, academics.DefaultReportOptions())
	return reporting.AnnualReportResult{AnnualReport: report, Degraded: []string{"attendance"}}
}

func TestFormatSummary(t *testing.T) {
	text := FormatSummary(sampleResult())

	for _, want := range []string{
		"Annual report 2025",
		"Students: 1 | Teachers: 1 | Departments: 1",
		"approved 1, rejected 0, pending 1",
		"Busiest leave month: " + time.April.String() + " (2)",
		"- CSE: 1 students, 1 teachers",
		"Unavailable: attendance",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected summary to contain %q, got:\n%s", want, text)
		}
	}
}

func TestAnnounceReportUsesAdminNumber(t *testing.T) {
	c := &recordingClient{}
	n := NewWhatsAppNotifier(c, "919800000000", nil)

	if err := n.AnnounceReport(context.Background(), sampleResult()); err != nil {
		t.Fatalf("announce: %v", err)
	}
	if c.to != "919800000000" || !strings.HasPrefix(c.body, "Annual report 2025") {
		t.Fatalf("unexpected delivery to=%s body=%q", c.to, c.body)
	}

	if err := n.Send(context.Background(), models.OutboundMessage{To: "911234", Body: "hi"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if c.to != "911234" {
		t.Fatalf("expected explicit recipient, got %s", c.to)
	}
}
