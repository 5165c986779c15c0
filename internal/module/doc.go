// Package module provides the module descriptor: a case-insensitive
// property bag with per-target overrides, serialized once per target into
// the module.json file the engine reads at startup.
//
// Descriptors do no I/O. Callers write the bytes from Serialize to
// FilePath themselves (see internal/generate).
package module
