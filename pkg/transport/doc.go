/*
Package transport carries event batches and decisions over a local stream
socket.

The producer frames each inbound message as a single JSON object with
arbitrary whitespace between messages. Messages are delimited by brace
counting — string- and escape-aware — rather than by line, because producers
are allowed to pretty-print. Outbound decisions are written as one JSON
object followed by a newline.

A Conn wraps one unix-domain stream connection and is used by a single
reader/writer goroutine; the engine treats each ReadMessage as a synchronous
call between ticks.
*/
package transport
