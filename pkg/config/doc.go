/*
Package config holds the startup configuration surface.

Defaults come first, an optional YAML file overlays them, and command-line
flags override both. Nothing is clamped here: Validate rejects an
out-of-range CPU count or quantum and an empty socket path at startup.
*/
package config
