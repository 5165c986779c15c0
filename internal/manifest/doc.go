// Package manifest loads module declarations from CUE files.
//
// A manifest directory holds one CUE package whose top-level `module`
// struct declares every module by name:
//
//	package rex
//
//	module: rex_engine: {
//		properties: {
//			DataPath:     "data/rex_engine"
//			Dependencies: ["rex_std"]
//		}
//		overrides: "win64-debug-msvc": {
//			EnableMemoryTracking: true
//		}
//	}
//
// Property values must be strings, integers, booleans or lists of those.
// Floats are rejected so serialized descriptors stay byte-stable.
package manifest
