package module

import (
	"path/filepath"
	"slices"

	"github.com/roach88/rexgen/internal/prop"
	"github.com/roach88/rexgen/internal/target"
)

// Well-known property keys read by the engine's module loader.
// All keys are stored folded; see prop.NormalizeKey.
const (
	KeyName         = "name"
	KeyDataPath     = "datapath"
	KeyDependencies = "dependencies"
)

// Filename is the fixed name of a serialized descriptor.
// It does not vary with the target so the runtime can always find it.
const Filename = "module.json"

// Descriptor holds the properties of one build module, with optional
// overrides per target.
//
// A target's effective view is the base properties with that target's
// overrides applied key by key. Overrides never remove a base property.
//
// Descriptors are owned by the setup code that created them and are not
// safe for concurrent mutation. Serialize only reads and may run
// concurrently once setup is finished.
type Descriptor struct {
	name       string
	properties prop.Bag
	overrides  map[target.Target]prop.Bag
}

// New creates a descriptor whose "name" property is set to name.
func New(name string) *Descriptor {
	d := &Descriptor{
		name:       name,
		properties: prop.Bag{},
		overrides:  map[target.Target]prop.Bag{},
	}
	d.SetProperty(KeyName, prop.String(name))
	return d
}

// Name returns the module name given to New.
func (d *Descriptor) Name() string {
	return d.name
}

// SetProperty inserts or overwrites a base property. Last write wins.
func (d *Descriptor) SetProperty(name string, value prop.Value) {
	d.properties[prop.NormalizeKey(name)] = value
}

// SetPropertyForConfig inserts or overwrites the override of name for t.
// The override map for t is created on first use.
func (d *Descriptor) SetPropertyForConfig(t target.Target, name string, value prop.Value) {
	bag, ok := d.overrides[t]
	if !ok {
		bag = prop.Bag{}
		d.overrides[t] = bag
	}
	bag[prop.NormalizeKey(name)] = value
}

// Property returns the base value of name.
func (d *Descriptor) Property(name string) (prop.Value, bool) {
	v, ok := d.properties[prop.NormalizeKey(name)]
	return v, ok
}

// Effective returns a copy of the properties as seen by t.
// A target without overrides sees the base properties.
func (d *Descriptor) Effective(t target.Target) prop.Bag {
	view := d.properties.Clone()
	if bag, ok := d.overrides[t]; ok {
		view.Overlay(bag)
	}
	return view
}

// Serialize renders the effective view for t as indented JSON.
// Identical descriptor state yields byte-identical output.
func (d *Descriptor) Serialize(t target.Target) []byte {
	return prop.MarshalIndent(d.Effective(t))
}

// OverrideTargets returns the targets that carry overrides, in target.Compare order.
func (d *Descriptor) OverrideTargets() []target.Target {
	out := make([]target.Target, 0, len(d.overrides))
	for t := range d.overrides {
		out = append(out, t)
	}
	slices.SortFunc(out, target.Compare)
	return out
}

// SetDataPath sets the directory the module loads its data from.
func (d *Descriptor) SetDataPath(path string) {
	d.SetProperty(KeyDataPath, prop.String(filepath.ToSlash(path)))
}

// AddDependency appends a module name to the base "dependencies" list.
// A non-list value under that key is replaced.
func (d *Descriptor) AddDependency(names ...string) {
	var deps prop.List
	if v, ok := d.Property(KeyDependencies); ok {
		if l, ok := v.(prop.List); ok {
			deps = slices.Clone(l)
		}
	}
	for _, n := range names {
		deps = append(deps, prop.String(n))
	}
	d.SetProperty(KeyDependencies, deps)
}

// FilePath returns where the descriptor of module is written for t:
// <outputRoot>/<compiler>/<config>/<module>/module.json.
func FilePath(outputRoot string, t target.Target, module string) string {
	return filepath.Join(outputRoot, t.PerConfigFolder(), module, Filename)
}
