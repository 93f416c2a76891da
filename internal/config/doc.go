// Package config holds Sentinel's rule tables.
//
// A Config is constructed once (Default, or loaded from CUE rule files) and
// is read-only thereafter. There is no package-level singleton: every
// Sentinel instance owns its own Config value, so multiple instances in one
// process never interfere. Callers that need different rules at runtime
// build a new Config and construct a new Sentinel around it.
package config
