// Package tags holds the TIFF data types, Exif namespaces and the tag
// registry used to name and validate IFD entries.
package tags

import (
	"fmt"
	"sort"
)

// Definition describes a known tag.
type Definition struct {
	ID        uint16
	Name      string
	Namespace Namespace
	Types     []Type // accepted on-disk types, first is preferred for new values
	Count     uint32 // expected number of values, 0 = variable
}

// Type returns the preferred type for new values of the tag.
func (d Definition) Type() Type { return d.Types[0] }

// Accepts reports whether t is a valid on-disk type for the tag.
func (d Definition) Accepts(t Type) bool {
	for _, a := range d.Types {
		if a == t {
			return true
		}
	}
	return false
}

type key struct {
	ns Namespace
	id uint16
}

// Registry is an immutable (namespace, id) -> Definition table. Build it
// once with New and share the pointer; it has no mutating methods.
type Registry struct {
	defs   map[key]Definition
	byName map[string]key
}

// New builds the registry from the static tag tables.
func New() *Registry {
	r := &Registry{
		defs:   make(map[key]Definition, len(imageTags)+len(exifTags)+len(gpsTags)+len(interopTags)),
		byName: make(map[string]key),
	}
	add := func(ns Namespace, table []Definition) {
		for _, d := range table {
			d.Namespace = ns
			k := key{ns, d.ID}
			r.defs[k] = d
			if _, dup := r.byName[d.Name]; !dup {
				r.byName[d.Name] = k
			}
		}
	}
	add(Image, imageTags)
	add(Exif, exifTags)
	add(GPS, gpsTags)
	add(Interop, interopTags)
	return r
}

// Resolve returns the definition of id in ns. IFD1 shares the IFD0 table.
func (r *Registry) Resolve(ns Namespace, id uint16) (Definition, bool) {
	if ns == Thumbnail {
		ns = Image
	}
	d, ok := r.defs[key{ns, id}]
	return d, ok
}

// Lookup finds a tag by name, e.g. "Make" or "GPSLatitude".
func (r *Registry) Lookup(name string) (Definition, bool) {
	k, ok := r.byName[name]
	if !ok {
		return Definition{}, false
	}
	return r.defs[k], true
}

// Name returns the registered name of a tag or a hex placeholder.
func (r *Registry) Name(ns Namespace, id uint16) string {
	if d, ok := r.Resolve(ns, id); ok {
		return d.Name
	}
	return fmt.Sprintf("Tag0x%04X", id)
}

// Definitions returns the definitions of a namespace ordered by id.
func (r *Registry) Definitions(ns Namespace) []Definition {
	if ns == Thumbnail {
		ns = Image
	}
	var out []Definition
	for k, d := range r.defs {
		if k.ns == ns {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
