package deletion

import (
	"fmt"
	"strings"
	"time"
)

// Outcome classifies a single step. A warning means the step ran but its
// result is ambiguous, such as a reset that matched no row, and does not fail
// the section. Partial means the time budget ran out before the step finished.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeWarning   Outcome = "warning"
	OutcomePartial   Outcome = "partial"
	OutcomeFailed    Outcome = "failed"
)

// Succeeded reports whether the outcome counts towards section success.
func (o Outcome) Succeeded() bool {
	return o == OutcomeSucceeded || o == OutcomeWarning
}

// BucketStats carries the counters of one bucket empty.
type BucketStats struct {
	ObjectsFound   int   `json:"objectsFound"`
	ObjectsRemoved int   `json:"objectsRemoved"`
	BytesRemoved   int64 `json:"bytesRemoved"`
	ListPages      int   `json:"listPages"`
	RemoveCalls    int   `json:"removeCalls"`
	DeadlineHit    bool  `json:"deadlineHit"`
}

// StepResult is the outcome of one storage action.
type StepResult struct {
	Target       string       `json:"target"`
	Type         StepType     `json:"type"`
	Success      bool         `json:"success"`
	Outcome      Outcome      `json:"outcome"`
	Message      string       `json:"message"`
	RowsAffected *int64       `json:"rowsAffected,omitempty"`
	Bucket       *BucketStats `json:"bucket,omitempty"`
	Details      []string     `json:"details,omitempty"`
}

// NewStepResult fills Success from the outcome.
func NewStepResult(step Step, outcome Outcome, message string) StepResult {
	return StepResult{
		Target:  step.Target(),
		Type:    step.Type(),
		Success: outcome.Succeeded(),
		Outcome: outcome,
		Message: message,
	}
}

// SectionResult groups the step results of one requested section.
type SectionResult struct {
	SectionKey   string       `json:"sectionKey"`
	RequestedKey string       `json:"requestedKey,omitempty"`
	Label        string       `json:"label"`
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	Details      []string     `json:"details"`
	Steps        []StepResult `json:"steps"`
}

// NewSectionResult derives success, message and details from the steps.
func NewSectionResult(resolved Resolved, steps []StepResult) SectionResult {
	sr := SectionResult{
		SectionKey: resolved.Plan.Key,
		Label:      resolved.Plan.Label,
		Success:    true,
		Details:    make([]string, 0, len(steps)),
		Steps:      steps,
	}
	if resolved.RequestedKey != resolved.Plan.Key {
		sr.RequestedKey = resolved.RequestedKey
	}
	for _, step := range steps {
		if !step.Success {
			sr.Success = false
		}
		sr.Details = append(sr.Details, step.detail())
	}
	if sr.Success {
		sr.Message = fmt.Sprintf("Data for %s processed.", sr.Label)
	} else {
		sr.Message = fmt.Sprintf("Data for %s processed with errors.", sr.Label)
	}
	return sr
}

func (s StepResult) detail() string {
	switch s.Outcome {
	case OutcomeSucceeded:
		return "OK: " + s.Message
	case OutcomeWarning:
		return "WARNING: " + s.Message
	case OutcomePartial:
		return "PARTIAL: " + s.Message
	default:
		return "ERROR: " + s.Message
	}
}

// ItemError names the target that failed and why.
type ItemError struct {
	Item    string `json:"item"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Report is the aggregate result of one deletion request.
type Report struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	RequestedKeys []string        `json:"requestedKeys"`
	ActorID       string          `json:"actorId"`
	StartedAt     time.Time       `json:"startedAt"`
	FinishedAt    time.Time       `json:"finishedAt"`
	Results       []SectionResult `json:"results"`
	Successes     []string        `json:"successes"`
	Warnings      []string        `json:"warnings"`
	Errors        []ItemError     `json:"errors"`
}

const (
	MessageAllSucceeded = "All selected data groups have been processed successfully."
	MessageSomeFailed   = "Data deletion/reset process completed. Some operations encountered errors."
)

// NewReport starts an empty report.
func NewReport(keys []string, actorID string, startedAt time.Time) *Report {
	return &Report{
		Success:       true,
		RequestedKeys: append([]string(nil), keys...),
		ActorID:       actorID,
		StartedAt:     startedAt,
		Results:       []SectionResult{},
		Successes:     []string{},
		Warnings:      []string{},
		Errors:        []ItemError{},
	}
}

// AddSection appends a section and folds its steps into the flat lists.
func (r *Report) AddSection(sr SectionResult) {
	r.Results = append(r.Results, sr)
	if !sr.Success {
		r.Success = false
	}
	for _, step := range sr.Steps {
		line := fmt.Sprintf("%s (for section %s).", strings.TrimSuffix(step.Message, "."), sr.SectionKey)
		switch step.Outcome {
		case OutcomeSucceeded:
			r.Successes = append(r.Successes, line)
		case OutcomeWarning:
			r.Warnings = append(r.Warnings, line)
		default:
			r.Errors = append(r.Errors, ItemError{
				Item:    step.Target,
				Type:    errorType(step),
				Message: step.Message,
			})
		}
	}
}

func errorType(step StepResult) string {
	switch {
	case step.Outcome == OutcomePartial:
		return string(step.Type) + "_partial"
	case step.Type == StepSpecialHandling:
		return "special_handling_error"
	default:
		return string(step.Type)
	}
}

// Finish stamps the end time and the summary message.
func (r *Report) Finish(at time.Time) {
	r.FinishedAt = at
	if r.Success && len(r.Errors) == 0 {
		r.Message = MessageAllSucceeded
		return
	}
	r.Success = false
	r.Message = MessageSomeFailed
}

// Labels returns the labels of the processed sections in request order.
func (r *Report) Labels() []string {
	labels := make([]string, 0, len(r.Results))
	for _, sr := range r.Results {
		labels = append(labels, sr.Label)
	}
	return labels
}

// Partial reports whether any bucket empty stopped on the time budget.
func (r *Report) Partial() bool {
	for _, sr := range r.Results {
		for _, step := range sr.Steps {
			if step.Outcome == OutcomePartial {
				return true
			}
		}
	}
	return false
}
