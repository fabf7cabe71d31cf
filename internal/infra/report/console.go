package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"user-activity-analyzer/internal/domain/model"
)

// ConsoleReporter renders a Summary as human-readable text. The core
// supplies raw counts only; percentages and formatting live here.
type ConsoleReporter struct {
	out io.Writer
}

func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

func (r *ConsoleReporter) Report(s model.Summary) error {
	var b strings.Builder
	b.WriteString("User Activity Summary\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Total Users: %d\n", s.Total)
	fmt.Fprintf(&b, "Active Users: %d (%s%%)\n", s.ActiveCount, percentage(s.ActiveCount, s.Total))
	fmt.Fprintf(&b, "Dormant Users: %d (%s%%)\n", s.DormantCount, percentage(s.DormantCount, s.Total))
	fmt.Fprintf(&b, "Inactive Users: %d (%s%%)\n", s.InactiveCount, percentage(s.InactiveCount, s.Total))
	if s.OldestLastSeen != nil {
		fmt.Fprintf(&b, "Oldest Last Seen: %s\n", s.OldestLastSeen.Format(time.RFC3339))
	} else {
		b.WriteString("Oldest Last Seen: N/A\n")
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}

func percentage(count, total int) string {
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(count)/float64(total)*100)
}
