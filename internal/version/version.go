// Package version holds the rexgen release version.
package version

// Tool is the rexgen version recorded with every generation run.
const Tool = "0.1.0"
