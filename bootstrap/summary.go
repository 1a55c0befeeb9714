package bootstrap

import (
	"fmt"
	"io"
	"time"

	"github.com/kbukum/locator/di"
)

// Summary renders the startup report: the service header and the
// container's registrations as a tree.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	validated       bool
}

// NewSummary creates a new bootstrap summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// SetValidated records whether startup validated every registration.
func (s *Summary) SetValidated(v bool) {
	s.validated = v
}

// Render writes the summary to w.
func (s *Summary) Render(w io.Writer, regs []di.RegistrationInfo, cols []di.CollectionInfo) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "🚀 %s v%s started in %.2fs\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds())

	fmt.Fprintf(w, "📦 Registrations (%d)\n", len(regs))
	if len(regs) == 0 {
		fmt.Fprintf(w, "   └── No services registered\n")
	}
	materialized := 0
	for i, r := range regs {
		prefix := "├──"
		if i == len(regs)-1 {
			prefix = "└──"
		}
		name := r.Service
		if r.Key != "" {
			name = fmt.Sprintf("%s[key=%s]", r.Service, r.Key)
		}
		fmt.Fprintf(w, "   %s %s %s (%s, %s)\n", prefix, lifestyleIcon(r.Lifestyle, r.Materialized), name, r.Lifestyle, r.Kind)
		if r.Materialized {
			materialized++
		}
	}

	if len(cols) > 0 {
		fmt.Fprintf(w, "\n📚 Collections (%d)\n", len(cols))
		for i, c := range cols {
			prefix := "├──"
			if i == len(cols)-1 {
				prefix = "└──"
			}
			fmt.Fprintf(w, "   %s %s [%d]\n", prefix, c.Service, c.Count)
		}
	}

	fmt.Fprintf(w, "\n")
	if s.validated {
		fmt.Fprintf(w, "✅ All registrations validated (%d/%d)\n", len(regs), len(regs))
	} else {
		fmt.Fprintf(w, "⚡ Locked without validation (%d singletons materialized)\n", materialized)
	}
	fmt.Fprintf(w, "\n")
}

func lifestyleIcon(lifestyle string, materialized bool) string {
	switch {
	case lifestyle == di.Singleton.String() && materialized:
		return "✅"
	case lifestyle == di.Singleton.String():
		return "⚡"
	default:
		return "🔁"
	}
}
