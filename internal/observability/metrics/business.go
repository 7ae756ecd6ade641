package metrics

import (
	"time"

	"contentflow/internal/domain/entity"
)

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// RecordContentGeneration records one ProcessContent call.
func RecordContentGeneration(success bool, duration time.Duration) {
	ContentGenerationsTotal.WithLabelValues(resultLabel(success)).Inc()
	ContentGenerationDuration.Observe(duration.Seconds())
}

// WorkflowOutcomeLabel maps an outcome to "success", "skipped" or "failure".
func WorkflowOutcomeLabel(outcome entity.WorkflowOutcome) string {
	switch {
	case outcome.Success:
		return "success"
	case outcome.Skipped:
		return "skipped"
	default:
		return "failure"
	}
}

// RecordWorkflowOutcome records the outcome of one webhook call.
func RecordWorkflowOutcome(outcome entity.WorkflowOutcome) {
	WorkflowDispatchTotal.WithLabelValues(WorkflowOutcomeLabel(outcome)).Inc()
}

// RecordPostPublish records one repository commit attempt.
// Result should be "success", "collision" or "failure".
func RecordPostPublish(result string) {
	PostPublishTotal.WithLabelValues(result).Inc()
}

// RecordContentImport records a URL import and, on success, the text size.
func RecordContentImport(success bool, characters int) {
	ContentImportTotal.WithLabelValues(resultLabel(success)).Inc()
	if success {
		ContentImportSize.Observe(float64(characters))
	}
}
