/*
Package metrics exposes Prometheus collectors and health endpoints for the
scheduler.

Collectors are package-level and registered in init; the engine updates them
after every tick. Serve starts an optional HTTP listener with /metrics,
/healthz, and /readyz — disabled by default since the scheduler normally
runs headless against a test harness.
*/
package metrics
