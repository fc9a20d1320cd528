// Package orchestrator runs the check battery (C7): it owns the frame for
// the duration of one QC run, drives every check in the fixed QcField
// order required by Spike and Dependency, and recomputes the total flag
// for rows whose quality_flag_long changed.
package orchestrator

import (
	"fmt"

	"oceanqc/checks"
	"oceanqc/domain/core"
	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
	"oceanqc/internal"
)

// Orchestrator drives one QC run over a frame against a registry.
type Orchestrator struct {
	registry qcconfig.Registry
	battery  []checks.Check
	logger   *internal.Logger
}

// New builds an Orchestrator bound to registry, with the default QcField
// ordered battery and the package logger.
func New(registry qcconfig.Registry) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		battery:  checks.Battery(),
		logger:   internal.DefaultLogger,
	}
}

// Result reports what a run touched, useful for callers that want to
// report on run outcomes without re-walking the frame.
type Result struct {
	RowsProcessed int
	RowsChanged   int
	Errors        []error
}

// RunAutomaticQc executes §4.7: expand every row's quality_flag_long once,
// run each check in declaration order over every configured parameter, and
// recompute total for rows whose serialized flag string changed. A
// malformed quality_flag_long on any row is a fatal, run-aborting error;
// every other per-check shortfall collapses into flag 0 for that row and
// is recorded in the row's info column, never propagated.
func (o *Orchestrator) RunAutomaticQc(frame *qcframe.Frame) (Result, error) {
	snapshot := make(map[core.RowID]string, frame.Len())
	for _, row := range frame.Rows() {
		if err := o.expand(row); err != nil {
			return Result{}, err
		}
		snapshot[row.RowID] = row.QualityFlagLong
	}

	for _, check := range o.battery {
		if check == nil {
			continue
		}
		category := check.Category()
		for _, parameter := range o.registry.Parameters(category) {
			entry, ok := o.registry.Get(category, parameter)
			if !ok {
				o.logger.Debug("no configuration for %s/%s, skipping", category, parameter)
				continue
			}
			o.runCheckSafely(check, frame, parameter, entry)
		}
	}

	result := Result{RowsProcessed: frame.Len()}
	for _, row := range frame.Rows() {
		rendered := row.Flags.String()
		if rendered == snapshot[row.RowID] {
			continue
		}
		row.QualityFlagLong = rendered
		result.RowsChanged++
	}
	return result, nil
}

// expand seeds row.Flags from its quality_flag_long, defaulting an absent
// string to the canonical zero value. A string present but malformed is
// fatal, matching the spec's data corruption class.
func (o *Orchestrator) expand(row *qcframe.Row) error {
	if row.QualityFlagLong == "" {
		row.QualityFlagLong = qcflag.DefaultString
	}
	flags, err := qcflag.FromString(row.QualityFlagLong)
	if err != nil {
		return fmt.Errorf("row %s: %w", row.RowID, err)
	}
	row.Flags = flags
	return nil
}

// runCheckSafely isolates a panic or unexpected failure from one check on
// one parameter to that parameter alone, matching the "any check failure
// for a specific parameter is local" failure semantics.
func (o *Orchestrator) runCheckSafely(check checks.Check, frame *qcframe.Frame, parameter string, entry qcconfig.Entry) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("check %v panicked for parameter %s: %v", check.Field(), parameter, r)
			for _, row := range frame.ByParameter(parameter) {
				_ = row.Flags.SetField(check.Field(), qcflag.NoQcPerformed)
				row.Info[check.Field()] = fmt.Sprintf("check failed: %v", r)
			}
		}
	}()
	check.Run(frame, parameter, entry)
}
