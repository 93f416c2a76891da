// Package world provides the snapshot model Sentinel validates against.
//
// This package contains type definitions and pure lookup helpers only.
// All other internal packages import world; world imports nothing internal.
// This keeps the snapshot model the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - Snapshots are immutable inputs. Nothing in this package (or any
//     validator consuming it) mutates a snapshot after construction.
//   - All JSON/YAML tags use snake_case.
//   - Turn counters are logical (int64), never wall-clock timestamps.
package world
