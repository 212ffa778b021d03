package agent

import "fmt"

// The error taxonomy is closed (§7): every failure mode the Resolver and
// Executor can surface is one of the types below. Callers use errors.As
// against the concrete type, the way the teacher's stores let callers
// check sql.ErrNoRows.

// UnsatisfiableError means no production mode exists in the Knowledge Base
// for the item.
type UnsatisfiableError struct {
	Item Item
}

func (e *UnsatisfiableError) Error() string {
	return fmt.Sprintf("unsatisfiable: no production mode for %s", e.Item)
}

// ResourceExhaustedError means find_block yielded no candidates within
// range.
type ResourceExhaustedError struct {
	Block Item
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("resource exhausted: no reachable %s", e.Block)
}

// ToolMissingError is detected pre-Task; normally prevented by the
// Resolver via EnsureTool.
type ToolMissingError struct {
	Required ToolRequirement
}

func (e *ToolMissingError) Error() string {
	return fmt.Sprintf("tool missing: need %s tier %s or better", e.Required.ToolKind, e.Required.MinTier)
}

// NavErrorReason enumerates navigation failure reasons passed through from
// the world facade.
type NavErrorReason string

const (
	NavUnreachable NavErrorReason = "unreachable"
	NavTimeout     NavErrorReason = "timeout"
)

// NavError is a passthrough from the facade's path_to.
type NavError struct {
	Reason NavErrorReason
}

func (e *NavError) Error() string {
	return fmt.Sprintf("navigation error: %s", e.Reason)
}

// PlacementFailedReason enumerates why a block placement was rejected
// after retries.
type PlacementFailedReason string

const (
	PlacementNoReference   PlacementFailedReason = "no_reference"
	PlacementEquipFailed   PlacementFailedReason = "equip_failed"
	PlacementVerifyMismatch PlacementFailedReason = "verify_mismatch"
)

// PlacementFailedError is raised after max retries placing a block.
type PlacementFailedError struct {
	Pos    WorldPos
	Reason PlacementFailedReason
}

func (e *PlacementFailedError) Error() string {
	return fmt.Sprintf("placement failed at %s: %s", e.Pos, e.Reason)
}

// CycleError is raised when the Resolver detects unresolvable recursion.
type CycleError struct {
	Item Item
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected resolving %s", e.Item)
}

// BusyError means a command was rejected while another is active.
type BusyError struct{}

func (e *BusyError) Error() string { return "busy: another plan is already executing" }

// AbortedError is returned when an external abort request interrupts a
// running Plan at a Task boundary (§5).
type AbortedError struct {
	TasksCompleted int
	TasksRemaining int
}

func (e *AbortedError) Error() string {
	return fmt.Sprintf("aborted: %d tasks completed, %d remaining", e.TasksCompleted, e.TasksRemaining)
}

// TimeoutOperation names the operation that timed out.
type TimeoutOperation string

const (
	TimeoutSmelt  TimeoutOperation = "smelt"
	TimeoutAttack TimeoutOperation = "attack"
	TimeoutBuild  TimeoutOperation = "build_prompt"
)

// TimeoutError is raised by Smelt/Attack/Build-prompt waits exceeding
// their caps.
type TimeoutError struct {
	Operation TimeoutOperation
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for %s", e.Operation)
}

// FacadeError is an opaque pass-through from the world facade.
type FacadeError struct {
	Message string
}

func (e *FacadeError) Error() string {
	return fmt.Sprintf("facade error: %s", e.Message)
}
