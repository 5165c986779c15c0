// Package harness runs generation scenarios end to end.
//
// A scenario names a CUE manifest, the targets to generate and how many
// times to run the generator against the same output tree. The harness
// runs each scenario in a fresh temporary directory with a fresh journal
// and fixed run IDs, then evaluates assertions against the written files.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	manifest: manifests/engine     # relative to the scenario file
//	targets:
//	  - win64-debug-msvc
//	runs: 2
//	assertions:
//	  - type: property_equals
//	    module: rex_engine
//	    target: win64-debug-msvc
//	    property: EnableMemoryTracking
//	    value: true
//	  - type: written_count
//	    run: 2
//	    count: 0
//
// # Assertion Types
//
//   - property_equals: the module's file for target holds property with value
//   - property_absent: the module's file for target lacks property
//   - written_count: run N wrote exactly count files
//   - file_count: the output tree holds exactly count files
//
// # Golden Files
//
// RunWithGolden snapshots every written file, in path order, together with
// the per-run written and unchanged counts. Regenerate with:
//
//	go test ./internal/harness -update
package harness
