package insight

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"text/template"

	"github.com/yourname/wellnesstracker/internal"
	"gopkg.in/yaml.v3"
)

// Signal identifies a value computed from a window of logs.
type Signal string

const (
	SignalAvgSleepHours   Signal = "avg_sleep_hours"
	SignalAvgWaterGlasses Signal = "avg_water_glasses"
	SignalAvgMood         Signal = "avg_mood"
	SignalExerciseRate    Signal = "exercise_rate"
)

type Comparator string

const (
	Below Comparator = "below"
	Above Comparator = "above"
)

func (c Comparator) holds(value, threshold float64) bool {
	switch c {
	case Below:
		return value < threshold
	case Above:
		return value > threshold
	}
	return false
}

// Rule is one row of the insight table. Description is a text/template rendered
// with .Value (the signal), .Samples, .Count and .Total.
type Rule struct {
	Name        string               `yaml:"name"`
	Signal      Signal               `yaml:"signal"`
	Comparator  Comparator           `yaml:"comparator"`
	Threshold   float64              `yaml:"threshold"`
	MinSamples  int                  `yaml:"min_samples"`
	Type        internal.InsightType `yaml:"type"`
	Severity    internal.Severity    `yaml:"severity"`
	Metric      internal.Metric      `yaml:"metric"`
	Title       string               `yaml:"title"`
	Description string               `yaml:"description"`
	Actions     []string             `yaml:"actions"`

	tmpl *template.Template
}

// DefaultRules is the built-in rule table.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "low_sleep",
			Signal:      SignalAvgSleepHours,
			Comparator:  Below,
			Threshold:   6,
			MinSamples:  3,
			Type:        internal.InsightPattern,
			Severity:    internal.SeverityMedium,
			Metric:      internal.MetricSleep,
			Title:       "Low Sleep Detected",
			Description: `You've been averaging {{printf "%.1f" .Value}} hours of sleep, which is below the recommended 7-9 hours.`,
			Actions: []string{
				"Try to go to bed 30 minutes earlier",
				"Limit screen time before bed",
				"Create a relaxing bedtime routine",
			},
		},
		{
			Name:        "low_hydration",
			Signal:      SignalAvgWaterGlasses,
			Comparator:  Below,
			Threshold:   5,
			MinSamples:  3,
			Type:        internal.InsightSuggestion,
			Severity:    internal.SeverityLow,
			Metric:      internal.MetricWater,
			Title:       "Increase Water Intake",
			Description: `You've been drinking an average of {{printf "%.1f" .Value}} glasses of water daily. Consider increasing to at least 8 glasses.`,
			Actions: []string{
				"Keep a water bottle nearby",
				"Set reminders to drink water throughout the day",
				"Drink a glass of water before each meal",
			},
		},
		{
			Name:        "low_mood",
			Signal:      SignalAvgMood,
			Comparator:  Below,
			Threshold:   2.5,
			MinSamples:  3,
			Type:        internal.InsightAlert,
			Severity:    internal.SeverityHigh,
			Metric:      internal.MetricMood,
			Title:       "Mood Alert",
			Description: "Your mood has been consistently low recently. This may be affecting your overall well-being.",
			Actions: []string{
				"Try to engage in activities you enjoy",
				"Consider speaking with a mental health professional",
				"Practice mindfulness or meditation",
				"Get some sunlight and fresh air daily",
			},
		},
		{
			Name:        "sedentary",
			Signal:      SignalExerciseRate,
			Comparator:  Below,
			Threshold:   0.3,
			MinSamples:  5,
			Type:        internal.InsightSuggestion,
			Severity:    internal.SeverityMedium,
			Metric:      internal.MetricExercise,
			Title:       "Increase Physical Activity",
			Description: "You've only exercised on {{.Count}} of the last {{.Total}} days. Regular physical activity can boost your mood and energy.",
			Actions: []string{
				"Try a short daily walk",
				"Consider body-weight exercises that don't require equipment",
				"Find a physical activity you enjoy",
				"Start with just 10-15 minutes of movement daily",
			},
		},
	}
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a YAML rule table. An empty path yields DefaultRules.
func LoadRules(path string) ([]Rule, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("insight: read rules: %w", err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("insight: parse rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, errors.New("insight: rule file contains no rules")
	}
	for i := range f.Rules {
		if err := f.Rules[i].validate(); err != nil {
			return nil, err
		}
	}
	return f.Rules, nil
}

// MarshalRules renders a rule table in the same YAML shape LoadRules accepts.
func MarshalRules(rules []Rule) ([]byte, error) {
	return yaml.Marshal(ruleFile{Rules: rules})
}

func (r *Rule) validate() error {
	if r.Name == "" {
		return errors.New("insight: rule without name")
	}
	switch r.Signal {
	case SignalAvgSleepHours, SignalAvgWaterGlasses, SignalAvgMood, SignalExerciseRate:
	default:
		return fmt.Errorf("insight: rule %s: unknown signal %q", r.Name, r.Signal)
	}
	if r.Comparator != Below && r.Comparator != Above {
		return fmt.Errorf("insight: rule %s: unknown comparator %q", r.Name, r.Comparator)
	}
	switch r.Type {
	case internal.InsightPattern, internal.InsightSuggestion, internal.InsightAlert, internal.InsightAchievement:
	default:
		return fmt.Errorf("insight: rule %s: unknown type %q", r.Name, r.Type)
	}
	if r.Severity == "" {
		r.Severity = internal.SeverityLow
	}
	if r.Metric == "" {
		return fmt.Errorf("insight: rule %s: metric required", r.Name)
	}
	if r.Title == "" || r.Description == "" {
		return fmt.Errorf("insight: rule %s: title and description required", r.Name)
	}
	_, err := r.template()
	return err
}

func (r *Rule) template() (*template.Template, error) {
	if r.tmpl != nil {
		return r.tmpl, nil
	}
	t, err := template.New(r.Name).Option("missingkey=error").Parse(r.Description)
	if err != nil {
		return nil, fmt.Errorf("insight: rule %s: description: %w", r.Name, err)
	}
	r.tmpl = t
	return t, nil
}

func (r *Rule) describe(m measurement) (string, error) {
	t, err := r.template()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("insight: rule %s: render: %w", r.Name, err)
	}
	return buf.String(), nil
}
