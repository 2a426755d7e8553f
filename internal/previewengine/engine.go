// Package previewengine turns a structured design document into a static,
// deterministic HTML preview. The pipeline is fixed: ingest, normalize,
// partition, render, emit. Each stage consumes only the previous stage's
// output.
package previewengine

import (
	"os"

	"go.uber.org/zap"

	"github.com/launchrail/preview-engine/internal/labels"
	"github.com/launchrail/preview-engine/internal/report"
)

// Run executes the full pipeline for one input document. It returns a
// non-nil error of exactly one taxonomy class (InputError, SchemaError,
// OutputError); on failure no output file is created or modified.
func Run(cfg Config) (Result, error) {
	if cfg.OutputPath == "" {
		cfg.OutputPath = report.DefaultOutputPath(cfg.InputPath)
	}

	var runLog *report.RunLogger
	if cfg.RunLogPath != "" {
		rl, err := report.NewRunLogger(cfg.RunLogPath)
		if err != nil {
			return Result{}, &OutputError{Path: cfg.RunLogPath, Err: err}
		}
		runLog = rl
		defer runLog.Close()
	}

	payload, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return Result{}, &InputError{Path: cfg.InputPath, Err: err}
	}
	runID := stableRunID(cfg.InputPath, payload)
	runLog.Info("run.start",
		zap.String("run_id", runID),
		zap.String("input", cfg.InputPath),
		zap.String("output", cfg.OutputPath),
	)

	model, err := Normalize(payload, cfg.InputPath)
	if err != nil {
		runLog.Warn("run.normalize.failed", zap.String("run_id", runID), zap.String("error", err.Error()))
		return Result{}, err
	}
	runLog.Info("run.normalize.ok",
		zap.String("run_id", runID),
		zap.String("shape", model.SourceShape),
		zap.String("status", string(model.Status)),
		zap.Int("events", len(model.Events)),
	)

	visible, hidden := Partition(model.EventsList())
	runLog.Info("run.partition.ok",
		zap.String("run_id", runID),
		zap.Int("visible", len(visible)),
		zap.Int("hidden", len(hidden)),
	)

	lab := labels.Default()
	if cfg.LabelsPath != "" {
		lab, err = labels.Load(cfg.LabelsPath)
		if err != nil {
			return Result{}, &InputError{Path: cfg.LabelsPath, Err: err}
		}
		runLog.Info("run.labels.ok",
			zap.String("run_id", runID),
			zap.String("path", cfg.LabelsPath),
			zap.String("pack", lab.MarshalLog()),
		)
	}

	tree, err := Render(model, visible, hidden, lab)
	if err != nil {
		return Result{}, &SchemaError{Field: "(document)", Want: "a serializable canonical model", Got: err.Error()}
	}
	if !cfg.IncludeDataBlock {
		tree.DataBlock = nil
	}
	runLog.Info("run.render.ok", zap.String("run_id", runID), zap.Int("event_cards", len(tree.EventCards)))

	doc := Emit(tree)
	if err := report.WriteAtomic(cfg.OutputPath, doc); err != nil {
		runLog.Warn("run.emit.failed", zap.String("run_id", runID), zap.String("error", err.Error()))
		return Result{}, &OutputError{Path: cfg.OutputPath, Err: err}
	}
	runLog.Info("run.emit.ok",
		zap.String("run_id", runID),
		zap.String("path", cfg.OutputPath),
		zap.Int("bytes", len(doc)),
	)

	artifacts := []string{cfg.OutputPath}
	if cfg.OutJSONPath != "" {
		if err := report.WriteJSON(cfg.OutJSONPath, model); err != nil {
			return Result{}, &OutputError{Path: cfg.OutJSONPath, Err: err}
		}
		artifacts = append(artifacts, cfg.OutJSONPath)
	}
	if cfg.ChecksumsPath != "" {
		if err := report.WriteChecksums(cfg.ChecksumsPath, artifacts); err != nil {
			return Result{}, &OutputError{Path: cfg.ChecksumsPath, Err: err}
		}
		artifacts = append(artifacts, cfg.ChecksumsPath)
	}

	runLog.Info("run.complete",
		zap.String("run_id", runID),
		zap.String("status", string(model.Status)),
		zap.Strings("artifacts", artifacts),
	)
	return Result{
		RunID:         runID,
		OutputPath:    cfg.OutputPath,
		Status:        model.Status,
		VisibleEvents: len(visible),
		HiddenEvents:  len(hidden),
		Artifacts:     artifacts,
	}, nil
}
