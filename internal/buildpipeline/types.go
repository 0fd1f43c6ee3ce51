// Package buildpipeline orchestrates a full compilation: module
// discovery (C6), the per-module bind/collect/unify/emit pipeline
// (C3-C5, C7), and writing the resulting Go source tree plus a build
// receipt. Grounded on _examples/original_source/src/compiler.rs's
// Compiler::compile/process_module for the control flow, and on
// _examples/vovakirdan-surge/internal/buildpipeline's Stage/Status/
// Event/ProgressSink vocabulary for the ambient progress-reporting
// shape (scoped down to the stages Fyg's pipeline actually has —
// Surge's parse/diagnose/lower/build/link/run stages, VM/LLVM backend
// selection, and blocking-expression checks don't apply to a
// source-to-source compiler whose lexer/parser are out of scope).
package buildpipeline

import "time"

// Stage names one phase of the per-module pipeline.
type Stage string

const (
	StageDiscover  Stage = "discover"
	StageBind      Stage = "bind"
	StageConstrain Stage = "constrain"
	StageUnify     Stage = "unify"
	StageEmit      Stage = "emit"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one module (or the overall build when
// Module is empty).
type Event struct {
	Module  string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events; internal/buildui implements
// one to drive its module-list view.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel, for callers (buildui)
// that want to consume progress on their own goroutine.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emitEvent(sink ProgressSink, module string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Module: module, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
