package cleaner

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Stats captures what a DOM stage did to its input.
type Stats struct {
	InputBytes  int `json:"input_bytes"`
	OutputBytes int `json:"output_bytes"`

	// ElementsRemoved counts removed elements by tag name.
	ElementsRemoved map[string]int `json:"elements_removed"`

	// RuleMatches counts removals by the rule that triggered them
	// ("tag:nav", "class:sidebar", "id:footer").
	RuleMatches map[string]int `json:"rule_matches"`

	AltAttributesAdded int `json:"alt_attributes_added"`
	LinksRewritten     int `json:"links_rewritten"`

	Duration time.Duration `json:"duration_ms"`
}

// NewStats creates a Stats value with initialized maps.
func NewStats() *Stats {
	return &Stats{
		ElementsRemoved: make(map[string]int),
		RuleMatches:     make(map[string]int),
	}
}

// RecordRemoval records that an element was removed by rule.
func (s *Stats) RecordRemoval(tag, rule string) {
	s.ElementsRemoved[strings.ToLower(tag)]++
	s.RuleMatches[rule]++
}

// TotalElementsRemoved returns the sum of all removed elements.
func (s *Stats) TotalElementsRemoved() int {
	total := 0
	for _, count := range s.ElementsRemoved {
		total += count
	}
	return total
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// Merge adds the counters of other into s.
func (s *Stats) Merge(other *Stats) {
	if other == nil {
		return
	}
	for tag, n := range other.ElementsRemoved {
		s.ElementsRemoved[tag] += n
	}
	for rule, n := range other.RuleMatches {
		s.RuleMatches[rule] += n
	}
	s.AltAttributesAdded += other.AltAttributesAdded
	s.LinksRewritten += other.LinksRewritten
	s.Duration += other.Duration
}

// String returns a human-readable summary.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %d -> %d bytes (%.1f%% reduction)\n",
		s.InputBytes, s.OutputBytes, s.ReductionPercent()))
	sb.WriteString(fmt.Sprintf("Elements removed: %d\n", s.TotalElementsRemoved()))

	if len(s.RuleMatches) > 0 {
		rules := make([]string, 0, len(s.RuleMatches))
		for rule := range s.RuleMatches {
			rules = append(rules, rule)
		}
		sort.Strings(rules)
		parts := make([]string, len(rules))
		for i, rule := range rules {
			parts[i] = fmt.Sprintf("%s=%d", rule, s.RuleMatches[rule])
		}
		sb.WriteString("Removed by rule: " + strings.Join(parts, ", ") + "\n")
	}
	if s.AltAttributesAdded > 0 {
		sb.WriteString(fmt.Sprintf("Alt attributes added: %d\n", s.AltAttributesAdded))
	}
	if s.LinksRewritten > 0 {
		sb.WriteString(fmt.Sprintf("Links rewritten: %d\n", s.LinksRewritten))
	}
	sb.WriteString(fmt.Sprintf("Duration: %v\n", s.Duration.Round(time.Microsecond)))

	return sb.String()
}

// Warning represents a non-fatal issue encountered during cleaning.
type Warning struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Stage, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
}

// Result is the output of a DOM stage. On parse or render failure Content holds
// the original input and a warning explains why.
type Result struct {
	Content  string    `json:"content"`
	Stats    *Stats    `json:"stats"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// AddWarning appends a warning to the result.
func (r *Result) AddWarning(stage, message, context string) {
	r.Warnings = append(r.Warnings, Warning{Stage: stage, Message: message, Context: context})
}

// HasWarnings reports whether any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
