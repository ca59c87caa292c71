/*
Package log is fairtick's thin zerolog bootstrap.

The process has exactly one logging concern: structured lines on stderr that
never interleave with the decision stream. Setup builds the root logger once
(level, console-or-JSON, destination), Component derives per-subsystem child
loggers, and EventRejected is the one domain-specific helper — it gives
every rejected event the same replayable shape (tick, batch position,
action, error) wherever it is logged from.

	log.Setup("debug", false, nil)
	logger := log.Component("engine")
	logger.Info().Int("cpus", 4).Msg("engine started")

Before Setup runs the root logger is a no-op, so packages may log during
early construction without guarding against an unconfigured logger. Levels
are carried per logger rather than through zerolog's global level, so tests
can run a silent root while exercising code that logs.
*/
package log
