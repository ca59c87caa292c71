/*
Package codec translates between wire bytes and domain records.

Inbound messages are event batches: a vtime plus an ordered event list, each
event tagged with an action string. Decoding is deliberately loose — unknown
action tags and missing fields survive decoding and are rejected by the
dispatcher per event, so one malformed event never discards its batch.

Outbound messages are decision records, encoded compactly with metadata
included only when present on the record.
*/
package codec
