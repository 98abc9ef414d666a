// Package dispatch exposes the public "schedule" operation, choosing
// between the greedy and mixed-integer engines and falling back to greedy
// whenever the MIP path fails.
package dispatch

import (
	"errors"

	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/railnet/trainsched/internal/greedy"
	"github.com/railnet/trainsched/internal/milp"
	"github.com/railnet/trainsched/internal/model"
)

var logger log.Logger

// InitializeLogger binds this package's logger to a parent.
func InitializeLogger(parent log.Logger) {
	logger = parent.New("module", "dispatch")
}

func init() {
	logger = log.New("module", "dispatch")
}

// Mode selects which engine schedule serves a call with.
type Mode string

const (
	Greedy Mode = "greedy"
	MIP    Mode = "mip"
)

// Result carries the schedule alongside which engine actually produced it,
// since "mip" transparently degrades to greedy on solver failure.
type Result struct {
	Items    []model.ScheduleItem
	ModeUsed Mode
}

// Schedule validates trains against network, then dispatches to the
// requested engine. It never returns an error for structurally valid
// input; mode "mip" falls back to greedy on any solver failure, including
// timeout. timeLimitSeconds is ignored for mode "greedy".
func Schedule(trains []model.TrainRequest, network model.Network, mode Mode, timeLimitSeconds int) (Result, error) {
	if err := model.Validate(network, trains); err != nil {
		logger.Warn("schedule rejected: invalid input", "err", err)
		return Result{}, err
	}

	if mode == Greedy {
		return Result{Items: greedy.Schedule(trains, network), ModeUsed: Greedy}, nil
	}

	items, err := milp.Schedule(trains, network, timeLimitSeconds)
	if err != nil {
		if errors.Is(err, model.ErrSolverFailed) {
			logger.Warn("mip solve failed, falling back to greedy", "err", err)
			return Result{Items: greedy.Schedule(trains, network), ModeUsed: Greedy}, nil
		}
		return Result{}, err
	}
	return Result{Items: items, ModeUsed: MIP}, nil
}
