// Package target defines the build configuration identity used to key
// per-configuration module overrides.
package target

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Platform is the operating system a target builds for.
type Platform string

// Config is the optimization mode of a target.
type Config string

// Compiler is the toolchain a target builds with.
type Compiler string

const (
	Win64 Platform = "win64"
	Linux Platform = "linux"
)

const (
	Debug    Config = "debug"
	DebugOpt Config = "debug_opt"
	Release  Config = "release"
)

const (
	MSVC  Compiler = "msvc"
	Clang Compiler = "clang"
)

// Valid values, in declaration order.
var (
	Platforms = []Platform{Win64, Linux}
	Configs   = []Config{Debug, DebugOpt, Release}
	Compilers = []Compiler{MSVC, Clang}
)

// separator joins the parts of a target's string form.
// Config names contain '_', so '-' is used.
const separator = "-"

// Target identifies one build variant. It is comparable and used as a map key.
type Target struct {
	Platform Platform
	Config   Config
	Compiler Compiler
}

// ParseError reports which part of a target string is invalid.
type ParseError struct {
	Input string
	Part  string // "format", "platform", "config" or "compiler"
	Value string
}

func (e *ParseError) Error() string {
	if e.Part == "format" {
		return fmt.Sprintf("invalid target %q: want platform%sconfig%scompiler", e.Input, separator, separator)
	}
	return fmt.Sprintf("invalid target %q: unknown %s %q", e.Input, e.Part, e.Value)
}

// Parse reads a target from its String form, e.g. "win64-debug_opt-msvc".
// Parsing is case-insensitive.
func Parse(s string) (Target, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), separator)
	if len(parts) != 3 {
		return Target{}, &ParseError{Input: s, Part: "format"}
	}

	t := Target{
		Platform: Platform(parts[0]),
		Config:   Config(parts[1]),
		Compiler: Compiler(parts[2]),
	}
	if !slices.Contains(Platforms, t.Platform) {
		return Target{}, &ParseError{Input: s, Part: "platform", Value: parts[0]}
	}
	if !slices.Contains(Configs, t.Config) {
		return Target{}, &ParseError{Input: s, Part: "config", Value: parts[1]}
	}
	if !slices.Contains(Compilers, t.Compiler) {
		return Target{}, &ParseError{Input: s, Part: "compiler", Value: parts[2]}
	}
	return t, nil
}

// ParseAll parses every string, failing on the first invalid one.
func ParseAll(ss []string) ([]Target, error) {
	out := make([]Target, 0, len(ss))
	for _, s := range ss {
		t, err := Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// String returns "platform-config-compiler".
func (t Target) String() string {
	return string(t.Platform) + separator + string(t.Config) + separator + string(t.Compiler)
}

// Name is the configuration display name used by IDE projects, e.g. "debugmsvc".
func (t Target) Name() string {
	return string(t.Config) + string(t.Compiler)
}

// PerConfigFolder returns a directory fragment unique per configuration.
func (t Target) PerConfigFolder() string {
	return filepath.Join(string(t.Compiler), string(t.Config))
}

// Compare orders targets by platform, config, then compiler,
// each in declaration order.
func Compare(a, b Target) int {
	return cmp.Or(
		cmp.Compare(slices.Index(Platforms, a.Platform), slices.Index(Platforms, b.Platform)),
		cmp.Compare(slices.Index(Configs, a.Config), slices.Index(Configs, b.Config)),
		cmp.Compare(slices.Index(Compilers, a.Compiler), slices.Index(Compilers, b.Compiler)),
		strings.Compare(a.String(), b.String()),
	)
}

// Default returns the targets generated when none are configured:
// win64 with msvc for every config.
func Default() []Target {
	out := make([]Target, 0, len(Configs))
	for _, c := range Configs {
		out = append(out, Target{Platform: Win64, Config: c, Compiler: MSVC})
	}
	return out
}
