package service

import (
	"context"
	"fmt"

	"franchise-league/internal/constants"
	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
	"franchise-league/internal/repository"
	"franchise-league/internal/season"

	"golang.org/x/sync/errgroup"
)

// SimulationResult is the outcome of a full-season run. Cancelled runs keep
// every date that finished before the cancel.
type SimulationResult struct {
	League    repository.Record
	Cancelled bool
	Dates     int
}

// Simulation is a season run in progress. Checkpoints is closed when the
// worker stops; Wait must be called after draining it.
type Simulation struct {
	Checkpoints <-chan season.Checkpoint
	wait        func() (SimulationResult, error)
}

func (s *Simulation) Wait() (SimulationResult, error) {
	return s.wait()
}

// SimulateSeason loads the league and plays out the remaining dates on a
// worker goroutine, bounded by SIMULATION_TIMEOUT. The last completed state
// is written back even if ctx is cancelled mid-run.
func (s *LeagueService) SimulateSeason(ctx context.Context, id string) (*Simulation, error) {
	loadCtx, cancelLoad := context.WithTimeout(ctx, constants.DatabaseTimeout)
	rec, err := s.repo.Get(loadCtx, id)
	cancelLoad()
	if err != nil {
		return nil, err
	}
	if rec.State.Phase == domain.PhaseAuction || rec.State.Phase == domain.PhasePreseason {
		return nil, apperrors.Validation("Season has not started")
	}

	s.logger.Info().
		Str("league_id", id).
		Str("phase", string(rec.State.Phase)).
		Int("season", rec.State.Meta.Season).
		Dur("timeout", s.cfg.SimulationTimeout).
		Msg("simulating remaining season")

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.SimulationTimeout)
	g, gCtx := errgroup.WithContext(runCtx)
	checkpoints := make(chan season.Checkpoint, constants.CheckpointBuffer)

	var run season.Run
	g.Go(func() error {
		defer close(checkpoints)
		var err error
		run, err = s.engine.SimulateRemaining(gCtx, rec.State, func(cp season.Checkpoint) {
			select {
			case checkpoints <- cp:
			case <-gCtx.Done():
			}
		})
		return err
	})

	wait := func() (SimulationResult, error) {
		defer cancel()
		if err := g.Wait(); err != nil {
			s.logger.Error().Err(err).Str("league_id", id).Msg("season simulation failed")
			return SimulationResult{}, fmt.Errorf("failed to simulate season: %w", err)
		}

		result := SimulationResult{League: rec, Cancelled: run.Cancelled, Dates: run.Dates}
		if run.Dates == 0 {
			return result, nil
		}

		saveCtx, cancelSave := context.WithTimeout(context.WithoutCancel(ctx), constants.DatabaseTimeout)
		defer cancelSave()
		saved, err := s.repo.Save(saveCtx, id, rec.Version, run.State)
		if err != nil {
			return SimulationResult{}, err
		}
		result.League = saved

		s.logger.Info().
			Str("league_id", id).
			Str("phase", string(saved.State.Phase)).
			Int("season", saved.State.Meta.Season).
			Int("dates", run.Dates).
			Bool("cancelled", run.Cancelled).
			Msg("season simulation finished")
		return result, nil
	}

	return &Simulation{Checkpoints: checkpoints, wait: wait}, nil
}

// RunSeason simulates to completion without streaming.
func (s *LeagueService) RunSeason(ctx context.Context, id string) (SimulationResult, error) {
	sim, err := s.SimulateSeason(ctx, id)
	if err != nil {
		return SimulationResult{}, err
	}
	for range sim.Checkpoints {
	}
	return sim.Wait()
}
