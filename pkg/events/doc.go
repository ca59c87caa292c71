/*
Package events fans scheduling decisions out to in-process observers.

The engine publishes every emitted decision to a Broker; subscribers (such
as ad-hoc log tailers) receive them on buffered channels. The history store
is not a subscriber: the engine appends to it directly.
Publishing never blocks the tick loop — a subscriber that falls behind
misses decisions rather than stalling the scheduler.
*/
package events
