package insight

import (
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/yourname/wellnesstracker/internal"
)

// Suppressor drops drafts that repeat an insight the user already received
// within Window. A zero Window disables suppression, so every fired rule is
// inserted on every run.
type Suppressor struct {
	Window time.Duration
}

func (s Suppressor) Enabled() bool {
	return s.Window > 0
}

// Since is the earliest creation time an existing insight can have and still
// suppress a new draft.
func (s Suppressor) Since(now time.Time) time.Time {
	return now.Add(-s.Window)
}

// Filter returns the drafts not matched by any recent insight. Drafts match on
// rule name, or on type plus metrics for records written without one.
func (s Suppressor) Filter(drafts, recent []internal.HealthInsight, now time.Time) []internal.HealthInsight {
	if !s.Enabled() || len(recent) == 0 {
		return drafts
	}
	cutoff := s.Since(now)
	recent = lo.Filter(recent, func(in internal.HealthInsight, _ int) bool {
		return !in.Date.Before(cutoff)
	})
	return lo.Reject(drafts, func(d internal.HealthInsight, _ int) bool {
		return lo.ContainsBy(recent, func(in internal.HealthInsight) bool {
			return in.UserID == d.UserID && sameInsight(in, d)
		})
	})
}

func sameInsight(a, b internal.HealthInsight) bool {
	if a.Rule != "" && b.Rule != "" {
		return a.Rule == b.Rule
	}
	return a.InsightType == b.InsightType && slices.Equal(a.Metrics, b.Metrics)
}
