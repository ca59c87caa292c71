/*
Package engine drives the scheduler against the event producer.

The loop is strictly sequential: read one batch, apply its events in order,
run one tick, emit one decision. A decision is produced for every received
batch, even when every event in it fails. I/O happens only between ticks;
the scheduler is never touched concurrently.

# Architecture

	 producer ──► transport ──► codec ──► sched.Apply ──► sched.Tick
	    ▲            (read)    (decode)   (per event)        │
	    │                                                    ▼
	    └──────── transport ◄── codec ◄───────────── decision record
	               (write)    (encode)                  │
	                                        ┌───────────┼───────────┐
	                                        ▼           ▼           ▼
	                                     metrics     broker      history
	                                    (counters)  (fan-out)  (audit log)

The side taps never gate the reply: metrics updates are synchronous and
cheap, broker publishing is non-blocking, and a history append failure is
logged but the decision still goes out on the wire.

# Core Components

Engine: owns the loop. Built from a scheduler, a connected Transport, and
Options for the optional collaborators.

Transport: the minimal connection contract (ReadMessage, WriteMessage,
Close). Production code passes a *transport.Conn; tests pass a scripted
fake.

Options: Metadata switches the meta block on wire decisions, Broker and
History attach the optional taps, RunID pins the run identifier (generated
when empty).

# Usage Examples

## Full wiring

	conn, err := transport.Dial("event.socket")
	if err != nil {
		return err
	}
	defer conn.Close()

	eng := engine.New(sched.New(4, 1), conn, engine.Options{
		Metadata: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-sigCh
		cancel()
		conn.Close() // unblock the pending read
	}()

	return eng.Run(ctx)

## Observing decisions without touching the loop

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	go func() {
		for d := range sub {
			fmt.Printf("tick %d: %v\n", d.VTime, d.Schedule)
		}
	}()

	eng := engine.New(scheduler, conn, engine.Options{Broker: broker})

# Failure Semantics

Three tiers, matching the error taxonomy of the system:

  - Fatal: transport write errors and encode errors end Run with the error.
    The caller tears the process down.
  - Batch-level: an undecodable message is logged and skipped whole; no
    decision is produced for it because it carries no usable vtime.
  - Event-level: dispatcher rejections are counted, logged through
    log.EventRejected, and skipped. The tick still runs and the decision is
    still emitted.

Cancellation is checked between ticks. The caller cancels the context and
closes the transport; a read error observed after cancellation is treated
as a clean shutdown, not a failure.

# Performance Characteristics

The engine adds one decode, one encode, and a handful of counter updates
per tick on top of the scheduler's own work. There is no buffering or
pipelining: batch N+1 is not read until decision N is written, which is the
protocol's one-outstanding-tick contract, not an optimization target.

# Troubleshooting

## Run returns immediately with nil

The producer closed the socket (clean EOF) or the context was already
cancelled. Both are normal shutdown paths; check the producer first.

## "event rejected" warnings in the log

The producer sent an unknown action, omitted a required field, or
referenced a missing task or cgroup. The reason label on the
fairtick_event_failures_total metric breaks these down; the log line
carries the tick and batch index to find the offending event.

## Decisions missing the meta block

Metadata is off by default. Set Options.Metadata (or the --metadata flag)
— the scheduler always computes it, the engine strips it from the wire
form only.

# See Also

  - pkg/sched - the dispatcher and tick algorithm the engine drives
  - pkg/transport - framing over the producer's unix socket
  - pkg/codec - batch and decision wire encoding
  - pkg/events - decision fan-out to in-process observers
  - pkg/history - durable decision audit log
*/
package engine
