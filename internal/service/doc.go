// Package service contains the application service layer. It orchestrates
// repository calls, maps persistence records to output models, computes
// pagination metadata and performs best-effort audit logging. It holds no
// state of its own; every operation is a bounded sequence of repository call,
// mapping, and optional audit/log side effects.
package service
