// Package prop provides the property value model for module descriptors.
//
// This package has no internal imports; module, manifest and the CLI all
// build on it.
//
// Key design constraints:
//   - Value is sealed: String, Int, Bool, List
//   - NO float types - numbers are int64
//   - Property names are folded with NormalizeKey before storage or lookup
//   - MarshalIndent output is byte-stable for identical input
package prop
