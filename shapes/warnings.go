package shapes

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Warning type constants
const (
	WarningEmptyShape    = "empty_shape"
	WarningMultipleCodes = "multiple_codes"
)

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects recoverable data issues found during a pass
type WarningAggregator struct {
	logger   *zap.Logger
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new warning aggregator; a nil logger discards output
func NewWarningAggregator(logger *zap.Logger) *WarningAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WarningAggregator{
		logger:   logger,
		warnings: make(map[string]*warningInfo),
	}
}

// Add records a warning occurrence with an example ID
func (w *WarningAggregator) Add(warningType, exampleID string) {
	if w.warnings[warningType] == nil {
		w.warnings[warningType] = &warningInfo{
			examples: make([]string, 0, 3),
		}
	}

	info := w.warnings[warningType]
	info.count++

	// Store up to 3 examples
	if len(info.examples) < 3 {
		info.examples = append(info.examples, exampleID)
	}
}

// Count returns the number of occurrences of a warning type
func (w *WarningAggregator) Count(warningType string) int {
	if info := w.warnings[warningType]; info != nil {
		return info.count
	}
	return 0
}

// LogAll outputs one consolidated line per warning type
func (w *WarningAggregator) LogAll(kind Kind) {
	types := make([]string, 0, len(w.warnings))
	for t := range w.warnings {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		w.logger.Warn(formatWarningMessage(t, kind, w.warnings[t]),
			zap.String("warning", t),
			zap.Int("count", w.warnings[t].count),
		)
	}
}

func formatWarningMessage(warningType string, kind Kind, info *warningInfo) string {
	var description, action string
	switch warningType {
	case WarningEmptyShape:
		description = "osm objects with no geometry"
		action = "Leaving geometry_id unset"
	case WarningMultipleCodes:
		description = "objects with several " + kind.CodeType() + " codes"
		action = "Using the first code"
	default:
		description = "unknown issue"
		action = "Continuing"
	}
	return fmt.Sprintf("%ss have %s (%d occurrences). %s. Examples: %s",
		kind, description, info.count, action, strings.Join(info.examples, ", "))
}

// Report logs one occurrence right away and records it for the summary
func (w *WarningAggregator) Report(warningType, exampleID, message string, fields ...zap.Field) {
	w.logger.Warn(message, append(fields, zap.String("warning", warningType))...)
	w.Add(warningType, exampleID)
}
