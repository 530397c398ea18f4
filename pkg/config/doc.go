// Package config loads settings for thinware servers from the environment.
//
// Variables are read with a prefix, for example with prefix "THINWARE":
//
//	THINWARE_ADDR=:9000
//	THINWARE_ANCHOR=/srv/handlers
//	THINWARE_CHAIN=true
//	THINWARE_LOG_LEVEL=debug
//	THINWARE_RECORD_DSN=file:invocations.db
//	THINWARE_METRICS=true
//	THINWARE_TRACE_EXPORTER=stdout
package config
