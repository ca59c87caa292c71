package engine

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fairtick/fairtick/pkg/codec"
	"github.com/fairtick/fairtick/pkg/events"
	"github.com/fairtick/fairtick/pkg/history"
	"github.com/fairtick/fairtick/pkg/log"
	"github.com/fairtick/fairtick/pkg/metrics"
	"github.com/fairtick/fairtick/pkg/sched"
	"github.com/fairtick/fairtick/pkg/types"
)

// Transport is the framed connection the engine reads batches from and
// writes decisions to.
type Transport interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

// Options configures optional engine collaborators.
type Options struct {
	Metadata bool           // include meta in wire decisions
	Broker   *events.Broker // decision fan-out, may be nil
	History  *history.Store // decision audit log, may be nil
	RunID    string         // generated when empty
}

// Engine owns the batch loop.
type Engine struct {
	sched  *sched.Scheduler
	conn   Transport
	opts   Options
	runID  string
	logger zerolog.Logger
}

// New creates an engine around a scheduler and a connected transport.
func New(s *sched.Scheduler, conn Transport, opts Options) *Engine {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Engine{
		sched:  s,
		conn:   conn,
		opts:   opts,
		runID:  runID,
		logger: log.Component("engine"),
	}
}

// RunID identifies this process lifetime in logs and the history store.
func (e *Engine) RunID() string { return e.runID }

// Run processes batches until the producer closes the connection or the
// context is cancelled. Transport failures are fatal; event failures are
// logged and skipped.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info().
		Str("run_id", e.runID).
		Int("cpus", e.sched.CPUCount()).
		Int("quantum", e.sched.Quantum()).
		Msg("engine started")
	metrics.UpdateComponent("engine", true, "")

	for {
		if ctx.Err() != nil {
			e.logger.Info().Msg("shutdown requested")
			return nil
		}

		msg, err := e.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				e.logger.Info().Msg("shutdown requested")
				return nil
			}
			if errors.Is(err, io.EOF) {
				e.logger.Info().Msg("connection closed by peer")
				return nil
			}
			metrics.UpdateComponent("transport", false, err.Error())
			return err
		}

		batch, err := codec.DecodeBatch(msg)
		if err != nil {
			e.logger.Warn().Err(err).Msg("discarding undecodable batch")
			continue
		}

		start := time.Now()
		e.applyEvents(batch)
		decision := e.sched.Tick(batch.VTime)
		e.observe(decision, time.Since(start))

		if e.opts.History != nil {
			if err := e.opts.History.Append(decision); err != nil {
				e.logger.Error().Err(err).Int("vtime", decision.VTime).Msg("history append failed")
			}
		}
		if e.opts.Broker != nil {
			e.opts.Broker.Publish(decision)
		}

		wire := *decision
		if !e.opts.Metadata {
			wire.Meta = nil
		}
		data, err := codec.EncodeDecision(&wire, e.sched.CPUCount())
		if err != nil {
			return err
		}
		if err := e.conn.WriteMessage(data); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			metrics.UpdateComponent("transport", false, err.Error())
			return err
		}
	}
}

func (e *Engine) applyEvents(batch *types.Batch) {
	for i := range batch.Events {
		ev := &batch.Events[i]
		metrics.EventsTotal.WithLabelValues(string(ev.Action)).Inc()
		if err := e.sched.Apply(ev); err != nil {
			metrics.EventFailuresTotal.WithLabelValues(failureReason(err)).Inc()
			log.EventRejected(e.logger, batch.VTime, i, string(ev.Action), err)
		}
	}
}

func (e *Engine) observe(d *types.Decision, elapsed time.Duration) {
	metrics.TicksTotal.Inc()
	metrics.TickDuration.Observe(elapsed.Seconds())

	idle := 0
	for _, slot := range d.Schedule {
		if slot == types.IdleSlot {
			idle++
		}
	}
	metrics.IdleCPUs.Set(float64(idle))

	if d.Meta != nil {
		metrics.PreemptionsTotal.Add(float64(d.Meta.Preemptions))
		metrics.MigrationsTotal.Add(float64(d.Meta.Migrations))
		metrics.RunnableTasks.Set(float64(len(d.Meta.RunnableTasks)))
		metrics.BlockedTasks.Set(float64(len(d.Meta.BlockedTasks)))
	}

	tickLogger := log.ForTick(e.logger, d.VTime)
	tickLogger.Debug().
		Strs("schedule", d.Schedule).
		Msg("decision emitted")
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, sched.ErrUnknownAction):
		return "unknown_action"
	case errors.Is(err, sched.ErrMissingField):
		return "missing_field"
	case errors.Is(err, sched.ErrTaskNotFound):
		return "task_not_found"
	case errors.Is(err, sched.ErrTaskExists):
		return "task_exists"
	case errors.Is(err, sched.ErrCgroupNotFound):
		return "cgroup_not_found"
	case errors.Is(err, sched.ErrCgroupExists):
		return "cgroup_exists"
	default:
		return "error"
	}
}
