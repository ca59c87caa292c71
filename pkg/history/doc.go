/*
Package history persists emitted decisions to a local BoltDB file for
post-run inspection.

The log is write-only from the scheduler's point of view: nothing in it is
ever read back into scheduler state, so a restart always begins empty. Each
run writes a session record (run id, CPU count, quantum, start time) and one
decision record per tick, keyed by run id and zero-padded vtime so bucket
order within a run equals tick order.
*/
package history
