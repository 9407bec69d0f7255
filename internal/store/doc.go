// Package store defines the persistence interfaces and shared persistence
// types used by the service layer. Concrete implementations live under
// internal/platform (e.g. internal/platform/postgres).
package store
