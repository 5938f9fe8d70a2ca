// Package deletion defines the section plans behind the admin danger zone and
// the reports produced when they are executed.
package deletion

import (
	"fmt"
	"time"
)

// StepType names the kind of storage action a step performs.
type StepType string

const (
	StepTableClear      StepType = "table_clear"
	StepTableReset      StepType = "table_reset"
	StepBucketEmpty     StepType = "bucket_empty"
	StepSpecialHandling StepType = "special_handling"
)

// Step is one storage action inside a plan. The set of implementations is
// closed: ClearTable, ResetRow, EmptyBucket, DeleteOwnedRows, ResetSharedField.
type Step interface {
	Type() StepType
	Target() string
	isStep()
}

// SpecialStep is a Step that does not fit the generic table/bucket model.
type SpecialStep interface {
	Step
	Handling() SpecialHandling
}

// SpecialHandling tags a special step for reports and audit details.
type SpecialHandling string

const (
	SpecialDeleteUserQuickNotes    SpecialHandling = "delete_user_quick_notes"
	SpecialResetMaintenanceMessage SpecialHandling = "reset_site_maintenance_message"
)

// ClearTable deletes every row of a table.
type ClearTable struct {
	Table string `json:"table"`
}

func (ClearTable) Type() StepType   { return StepTableClear }
func (s ClearTable) Target() string { return s.Table }
func (ClearTable) isStep()          {}

// ResetRow updates the singleton row of a configuration table back to defaults.
// The row is never deleted.
type ResetRow struct {
	Table  string  `json:"table"`
	ID     string  `json:"id"`
	Fields []Field `json:"fields"`
}

func (ResetRow) Type() StepType { return StepTableReset }
func (s ResetRow) Target() string {
	return fmt.Sprintf("%s (ID: %s)", s.Table, s.ID)
}
func (ResetRow) isStep() {}

// EmptyBucket removes every object from an object storage bucket.
type EmptyBucket struct {
	Bucket string `json:"bucket"`
}

func (EmptyBucket) Type() StepType   { return StepBucketEmpty }
func (s EmptyBucket) Target() string { return s.Bucket }
func (EmptyBucket) isStep()          {}

// DeleteOwnedRows deletes only the rows of a shared table owned by the caller.
type DeleteOwnedRows struct {
	Name        SpecialHandling `json:"name"`
	Table       string          `json:"table"`
	OwnerColumn string          `json:"ownerColumn"`
}

func (DeleteOwnedRows) Type() StepType              { return StepSpecialHandling }
func (s DeleteOwnedRows) Target() string            { return s.Table }
func (s DeleteOwnedRows) Handling() SpecialHandling { return s.Name }
func (DeleteOwnedRows) isStep()                     {}

// ResetSharedField resets some columns of a row shared with other settings.
type ResetSharedField struct {
	Name   SpecialHandling `json:"name"`
	Table  string          `json:"table"`
	ID     string          `json:"id"`
	Fields []Field         `json:"fields"`
}

func (ResetSharedField) Type() StepType { return StepSpecialHandling }
func (s ResetSharedField) Target() string {
	return fmt.Sprintf("%s (ID: %s)", s.Table, s.ID)
}
func (s ResetSharedField) Handling() SpecialHandling { return s.Name }
func (ResetSharedField) isStep()                     {}

type nowMarker struct{}

// Now is a field value replaced by the execution timestamp.
var Now any = nowMarker{}

// Field is a column and the default value it is reset to.
type Field struct {
	Column string `json:"column"`
	Value  any    `json:"value"`
}

// Resolve returns the value to write, materialising Now.
func (f Field) Resolve(now time.Time) any {
	if _, ok := f.Value.(nowMarker); ok {
		return now.UTC().Format(time.RFC3339Nano)
	}
	return f.Value
}

// Plan is the declarative set of actions behind one section key.
type Plan struct {
	Key            string      `json:"key"`
	Label          string      `json:"label"`
	Description    string      `json:"description,omitempty"`
	TablesToClear  []string    `json:"tablesToClear,omitempty"`
	TablesToReset  []ResetRow  `json:"tablesToReset,omitempty"`
	BucketsToEmpty []string    `json:"bucketsToEmpty,omitempty"`
	Special        SpecialStep `json:"-"`
}

// Steps returns the plan's actions in execution order:
// clears, resets, bucket empties, then special handling.
func (p Plan) Steps() []Step {
	steps := make([]Step, 0, len(p.TablesToClear)+len(p.TablesToReset)+len(p.BucketsToEmpty)+1)
	for _, table := range p.TablesToClear {
		steps = append(steps, ClearTable{Table: table})
	}
	for _, reset := range p.TablesToReset {
		steps = append(steps, reset)
	}
	for _, bucket := range p.BucketsToEmpty {
		steps = append(steps, EmptyBucket{Bucket: bucket})
	}
	if p.Special != nil {
		steps = append(steps, p.Special)
	}
	return steps
}

// SpecialHandlingName returns the special tag, or "" when there is none.
func (p Plan) SpecialHandlingName() SpecialHandling {
	if p.Special == nil {
		return ""
	}
	return p.Special.Handling()
}

func (p Plan) clone() Plan {
	out := p
	out.TablesToClear = append([]string(nil), p.TablesToClear...)
	out.BucketsToEmpty = append([]string(nil), p.BucketsToEmpty...)
	out.TablesToReset = make([]ResetRow, len(p.TablesToReset))
	for i, r := range p.TablesToReset {
		r.Fields = append([]Field(nil), r.Fields...)
		out.TablesToReset[i] = r
	}
	switch s := p.Special.(type) {
	case ResetSharedField:
		s.Fields = append([]Field(nil), s.Fields...)
		out.Special = s
	}
	return out
}
