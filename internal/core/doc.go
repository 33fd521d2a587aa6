// Package core provides the business logic for the preprocessing pipeline.
//
// This package ties the pieces together independent of any UI or transport
// layer: it can be driven by web handlers, CLI tools, or tests without
// modification.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Service: the single entry point for uploads, transform dispatch, and
//     read-only views (table pages, summaries, CSV export).
//   - Transform registry: operations are registered at init time in the
//     transform package; the Service resolves exactly one registry entry per
//     user action.
//   - Session store: each session owns one serialized table snapshot. A
//     transform runs against a freshly decoded copy and the snapshot is
//     replaced wholesale on success, or left byte-for-byte untouched on
//     failure.
//
// # Dispatch Flow
//
// Every user-triggered action follows the same path:
//
//  1. The caller builds a typed parameter bundle via [ActionRequest.Params].
//  2. [Service.Dispatch] resolves the registry entry and validates the
//     parameters before any data is read.
//  3. The current snapshot is decoded, the operation applied, and the result
//     committed on success; on failure the error propagates with no state
//     change.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - VAL001: missing or invalid parameter (caught before execution)
//   - TYP001: operation applied to an incompatible column type
//   - COL001: referenced column not found
//   - PAR001: malformed upload
//   - SES001: session not found or expired
//
// Nothing is fatal: every failure aborts only the current action and leaves
// the stored table unchanged.
package core
