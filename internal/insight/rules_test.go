package insight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/wellnesstracker/internal"
)

const customRules = `
rules:
  - name: short_sleep
    signal: avg_sleep_hours
    comparator: below
    threshold: 7
    min_samples: 3
    type: pattern
    severity: high
    metric: sleep
    title: Short Sleep
    description: 'Average {{printf "%.1f" .Value}}h over {{.Samples}} nights'
    actions: [Sleep more]
  - name: great_mood
    signal: avg_mood
    comparator: above
    threshold: 4
    min_samples: 3
    type: achievement
    metric: mood
    title: Great Mood
    description: Keep it up
`

func TestLoadRules_DefaultWhenNoPath(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Len(t, rules, 4)
}

func TestLoadRules_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customRules), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, internal.SeverityLow, rules[1].Severity, "severity defaults to low")

	e, err := NewEngine(rules)
	require.NoError(t, err)

	var logs []internal.HealthLog
	for i := 0; i < 3; i++ {
		logs = append(logs, internal.HealthLog{Sleep: internal.Sleep{Hours: hours(6.5)}, Mood: "great"})
	}
	got, err := e.Generate("u1", logs, now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Average 6.5h over 3 nights", got[0].Description)
	assert.Equal(t, internal.InsightAchievement, got[1].InsightType)
}

func TestParseRules_Errors(t *testing.T) {
	_, err := ParseRules([]byte("rules: []"))
	assert.Error(t, err)

	_, err = ParseRules([]byte("rules:\n  - name: x\n    signal: avg_mood\n    comparator: sideways\n"))
	assert.Error(t, err)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRules_RoundTripsDefaults(t *testing.T) {
	data, err := MarshalRules(DefaultRules())
	require.NoError(t, err)
	rules, err := ParseRules(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultRules()[2].Title, rules[2].Title)
	assert.Equal(t, DefaultRules()[3].MinSamples, rules[3].MinSamples)
}
