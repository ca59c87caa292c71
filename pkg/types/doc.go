/*
Package types defines the core data structures used throughout fairtick.

This package contains the domain model of the scheduler: tasks, control
groups, the niceness-to-weight table, incoming event batches, and outgoing
scheduling decisions. These types are used by all other packages for state
management, wire encoding, and the tick algorithm itself.

# Core Types

  - Task: one schedulable unit with vruntime, weight, life-cycle state,
    affinity, cgroup membership, and burst countdown
  - Cgroup: a named bundle of resource constraints (shares, quota/period,
    CPU mask) with per-period accounting
  - Event / Batch: one decoded scheduler event, and the ordered set of
    events tagged with a virtual time
  - Decision / Meta: the per-tick output record, one schedule slot per CPU

All wire-facing types carry JSON tags matching the external protocol. Tasks
and cgroups are mutated in place by the scheduler and are never shared
across goroutines.
*/
package types
