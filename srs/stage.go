package srs

import "fmt"

// Stage is one step of the generation pipeline. Stages run strictly in
// declaration order and never go back.
type Stage int

const (
	StageSampleSecret Stage = iota
	StageMonomialG1
	StageLagrange
	StageLagrangeG1
	StagePowersG2
	StageSerialize
	StageDone
)

// String returns the stage name used in logs and metric names.
func (s Stage) String() string {
	switch s {
	case StageSampleSecret:
		return "sample_secret"
	case StageMonomialG1:
		return "monomial_g1"
	case StageLagrange:
		return "lagrange"
	case StageLagrangeG1:
		return "lagrange_g1"
	case StagePowersG2:
		return "powers_g2"
	case StageSerialize:
		return "serialize"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// StageError records the stage at which a run aborted.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("srs: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
