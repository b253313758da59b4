// Package bulk dispatches one admin action across a selection of records.
// Execution is sequential on purpose: the persistence layer has no multi-row
// write primitive, and a plain loop keeps partial-failure bookkeeping
// deterministic.
package bulk

import (
	"context"
	"fmt"

	"github.com/elevateacademy/portal-api/utils/errs"
)

// Action names the per-item operation applied by a bulk run.
type Action string

const (
	ActionPublish   Action = "publish"
	ActionUnpublish Action = "unpublish"
	ActionArchive   Action = "archive"
	ActionFeature   Action = "feature"
	ActionUnfeature Action = "unfeature"
	ActionDelete    Action = "delete"
	ActionDuplicate Action = "duplicate"
	ActionExport    Action = "export"

	// Moderation queue extensions
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// destructive actions must be confirmed by the caller before any mutation.
var destructive = map[Action]bool{
	ActionDelete: true,
}

// IsValid reports whether a is a known action name.
func (a Action) IsValid() bool {
	switch a {
	case ActionPublish, ActionUnpublish, ActionArchive, ActionFeature,
		ActionUnfeature, ActionDelete, ActionDuplicate, ActionExport,
		ActionApprove, ActionReject:
		return true
	}
	return false
}

// IsDestructive reports whether a requires prior confirmation.
func (a Action) IsDestructive() bool {
	return destructive[a]
}

// Target applies one action to one record. Entity services provide adapters
// mapping each action they support onto exactly one service call.
type Target interface {
	Apply(ctx context.Context, action Action, id uint) error
}

// Failure records one item that could not be processed.
type Failure struct {
	ID     uint   `json:"id"`
	Reason string `json:"reason"`
}

// Summary is the outcome of a bulk run. After any run, regardless of partial
// failure, callers must reload the underlying collection wholesale and clear
// the selection.
type Summary struct {
	Action       Action    `json:"action"`
	SuccessCount int       `json:"success_count"`
	Failures     []Failure `json:"failures"`
}

// Run applies action to every selected id in order. One item's failure never
// aborts the loop; every id is attempted and failures are collected with
// their normalized reasons. Destructive actions refuse to run without
// confirmed=true and perform zero mutations in that case.
func Run(ctx context.Context, action Action, ids []uint, target Target, confirmed bool) (*Summary, error) {
	if !action.IsValid() {
		return nil, fmt.Errorf("%w: unknown bulk action %q", errs.ErrValidation, action)
	}
	if action.IsDestructive() && !confirmed {
		return nil, errs.ErrConfirmationRequired
	}

	summary := &Summary{
		Action:   action,
		Failures: []Failure{},
	}

	for _, id := range ids {
		if err := target.Apply(ctx, action, id); err != nil {
			summary.Failures = append(summary.Failures, Failure{
				ID:     id,
				Reason: errs.Normalize(err).Error(),
			})
			continue
		}
		summary.SuccessCount++
	}

	return summary, nil
}
