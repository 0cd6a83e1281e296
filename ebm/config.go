// Package ebm is the external-interface package: the Go-shaped
// realization of spec.md §6's six-operation ABI (create_engine,
// attach_dataset, apply_training_update, apply_validation_update,
// score_interaction, destroy_engine), implemented as methods on Engine
// instead of a literal C ABI, per spec.md §9's "two-phase create +
// attach_dataset API" design note.
package ebm

import (
	"github.com/ebmcore/ebmcore/boosting"
	"github.com/ebmcore/ebmcore/dataset"
	"github.com/ebmcore/ebmcore/interaction"
	"github.com/ebmcore/ebmcore/objective"
	"github.com/ebmcore/ebmcore/pkg/errors"
	"github.com/ebmcore/ebmcore/pkg/log"
)

// Role re-exports dataset.Role so callers can write ebm.RoleTraining /
// ebm.RoleValidation without importing the dataset package directly.
type Role = dataset.Role

const (
	RoleTraining   = dataset.Training
	RoleValidation = dataset.Validation
)

// Config is the create_engine argument set of spec.md §6, expanded with
// the ambient boosting/interaction parameters an outer collaborator
// must supply (spec.md §9's Open Questions), mirroring the teacher's
// json-tagged TrainingParams config struct.
type Config struct {
	Objective   objective.Kind     `json:"objective"`
	NumClasses  int                `json:"num_classes,omitempty"`
	NumFeatures int                `json:"num_features"`
	MaxDims     int                `json:"max_dims"`
	Seed        int64              `json:"seed"`
	Boosting    boosting.Params    `json:"boosting"`
	Interaction interaction.Params `json:"interaction"`
	// LogLevel controls the engine's lifecycle logger. Defaults to Info.
	LogLevel log.Level `json:"log_level"`
	// LoggerProvider supplies the engine's lifecycle logger. Defaults to
	// a log.ZerologLoggerProvider at LogLevel if nil; a caller can inject
	// log.NewTestLoggerProvider(...) here to capture and assert on an
	// engine's log output.
	LoggerProvider log.LoggerProvider `json:"-"`
}

func (c Config) validate() error {
	if c.NumFeatures < 0 {
		return errors.NewInvalidArgumentError("ebm.CreateEngine", "num_features must be nonnegative")
	}
	if c.MaxDims < 0 {
		return errors.NewInvalidArgumentError("ebm.CreateEngine", "max_dims must be nonnegative")
	}
	if c.Objective == objective.Multiclass && c.NumClasses < objective.MinMulticlassClasses {
		return errors.NewInvalidArgumentError("ebm.CreateEngine", "multiclass requires num_classes >= 3")
	}
	return nil
}
