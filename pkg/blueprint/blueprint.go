// Package blueprint models a server's provisioned state as a versioned
// document: installed packages across a hierarchy of package managers,
// placed files, and extracted source archives.
//
// A Blueprint is produced either by capturing a live system (see
// pkg/capture) or by loading a stored snapshot from a git-compatible
// object store (see pkg/gitstore). Documents are mutated only in memory;
// subtraction returns a new document and leaves its inputs untouched.
package blueprint

import (
	"github.com/jodiecunningham/blueprint/pkg/gitstore"
)

// DefaultManager is the root of the package-manager hierarchy. Every
// other manager is reachable from it: a manager is any package name
// that also appears as a top-level key in the package table.
const DefaultManager = "apt"

// DocumentFilename is the name of the canonical document blob inside a
// snapshot tree. Source archives are stored as siblings under their
// recorded filenames.
const DocumentFilename = "blueprint.json"

// Blueprint is the in-memory snapshot document.
//
// Field order matters for canonical serialization: encoding/json emits
// struct fields in declaration order and the canonical form is
// alphabetical.
type Blueprint struct {
	// Arch is the machine architecture. nil means "not captured", which
	// is distinct from present-but-empty and round-trips as an absent
	// key.
	Arch *string `json:"arch,omitempty"`

	// Files maps absolute pathnames to file entries. Iteration for
	// output is always by sorted pathname.
	Files map[string]FileEntry `json:"files,omitempty"`

	// Packages is a two-level mapping: manager name to package name to
	// the versions recorded for it, in recorded order. Duplicate
	// versions are permitted.
	Packages map[string]map[string][]string `json:"packages,omitempty"`

	// Sources maps extraction directories to archive filenames. The
	// archive bytes live in SourceData and are stored as blobs next to
	// the document.
	Sources map[string]string `json:"sources,omitempty"`

	// Name is the blueprint's identifier and the name of the ref it is
	// stored under.
	Name string `json:"-"`

	// Commit is the id of the stored commit this document was loaded
	// from, or zero for an in-memory-only document.
	Commit gitstore.Hash `json:"-"`

	// SourceData carries source archive bytes between capture/load and
	// save/generate. Keyed by archive filename. Never serialized into
	// the document itself.
	SourceData map[string][]byte `json:"-"`

	managers map[string]string // lazy ownership index, see Managers
}

// New returns an empty blueprint with the given name, ready to be
// populated by a producer.
func New(name string) *Blueprint {
	b := &Blueprint{Name: name}
	b.normalize()
	return b
}

// normalize replaces nil collections with empty ones so loaded and
// freshly constructed documents behave identically. Empty collections
// are omitted again on encode, so this never changes canonical output.
func (b *Blueprint) normalize() {
	if b.Files == nil {
		b.Files = make(map[string]FileEntry)
	}
	if b.Packages == nil {
		b.Packages = make(map[string]map[string][]string)
	}
	if b.Sources == nil {
		b.Sources = make(map[string]string)
	}
	if b.SourceData == nil {
		b.SourceData = make(map[string][]byte)
	}
}

// AddPackage records a version of a package under a manager, creating
// the manager's table on first use. Recording a version twice keeps
// both occurrences.
func (b *Blueprint) AddPackage(manager, pkg, version string) {
	b.normalize()
	table := b.Packages[manager]
	if table == nil {
		table = make(map[string][]string)
		b.Packages[manager] = table
	}
	table[pkg] = append(table[pkg], version)
	b.managers = nil
}

// SetArch records the machine architecture.
func (b *Blueprint) SetArch(arch string) {
	b.Arch = &arch
}

// Managers returns the manager-ownership index: every recognized
// manager name mapped to the name of the manager it was installed by.
// The default manager is present and maps to the empty string. The
// index is computed lazily from a walk and cached until the package
// table changes through AddPackage.
//
// A package equal to its own manager's name is that manager's
// bootstrap record, not a child, and is excluded.
func (b *Blueprint) Managers() map[string]string {
	if b.managers != nil {
		return b.managers
	}
	index := map[string]string{DefaultManager: ""}
	b.Walk(Hooks{
		OnPackage: func(m *Manager, pkg, version string) {
			if pkg == m.Name() {
				return
			}
			if _, ok := b.Packages[pkg]; ok {
				index[pkg] = m.Name()
			}
		},
	})
	b.managers = index
	return index
}

// Clone returns a deep copy of the document. The copy shares nothing
// with the original; mutating one never affects the other.
func (b *Blueprint) Clone() *Blueprint {
	clone := &Blueprint{
		Name:   b.Name,
		Commit: b.Commit,
	}
	if b.Arch != nil {
		arch := *b.Arch
		clone.Arch = &arch
	}
	clone.Files = make(map[string]FileEntry, len(b.Files))
	for path, entry := range b.Files {
		clone.Files[path] = entry
	}
	clone.Packages = make(map[string]map[string][]string, len(b.Packages))
	for manager, table := range b.Packages {
		cloned := make(map[string][]string, len(table))
		for pkg, versions := range table {
			cloned[pkg] = append([]string(nil), versions...)
		}
		clone.Packages[manager] = cloned
	}
	clone.Sources = make(map[string]string, len(b.Sources))
	for dir, filename := range b.Sources {
		clone.Sources[dir] = filename
	}
	clone.SourceData = make(map[string][]byte, len(b.SourceData))
	for filename, data := range b.SourceData {
		clone.SourceData[filename] = append([]byte(nil), data...)
	}
	return clone
}

// Equal reports whether two documents have identical effective content.
// Comparison is by canonical encoding, so empty-vs-absent collections
// and map iteration order never matter. Name and commit identity are
// not part of the content.
func (b *Blueprint) Equal(other *Blueprint) bool {
	mine, err := Encode(b)
	if err != nil {
		return false
	}
	theirs, err := Encode(other)
	if err != nil {
		return false
	}
	return string(mine) == string(theirs)
}
