package blueprint

// Hooks are the optional callbacks invoked during a walk. Any field may
// be nil.
type Hooks struct {
	// Before runs before a manager's packages are enumerated.
	Before func(m *Manager)

	// OnPackage runs once per recorded version of every package, in
	// ascending package-name order and recorded version order.
	OnPackage func(m *Manager, pkg, version string)

	// After runs after a manager's packages are enumerated and before
	// recursion into its child managers.
	After func(m *Manager)
}

// Walk traverses the package-manager hierarchy rooted at the default
// manager in deterministic pre-order, invoking hooks along the way.
//
// Two invocations over the same document always produce the identical
// sequence of (manager, package, version) triples: packages ascend by
// name within a manager, and managers appear in discovery order.
func (b *Blueprint) Walk(hooks Hooks) {
	b.WalkFrom(DefaultManager, hooks)
}

// WalkFrom walks the hierarchy rooted at the named manager.
//
// A package name that is itself a top-level key in the package table is
// a child manager and is recursed into after the current manager's
// After hook. The exception is a package equal to the current manager's
// name, which is the manager's own bootstrap record. Recursion is keyed by
// manager name: a manager referenced from several parents is walked
// exactly once, and the key space is the finite set of names already in
// the table, so the walk always terminates.
func (b *Blueprint) WalkFrom(start string, hooks Hooks) {
	b.walk(start, hooks, make(map[string]bool))
}

func (b *Blueprint) walk(name string, hooks Hooks, visited map[string]bool) {
	if visited[name] {
		return
	}
	visited[name] = true

	m := NewManager(name, b.Packages[name])

	if hooks.Before != nil {
		hooks.Before(m)
	}

	// Enumerate packages and note which of them are themselves managers
	// so they can be visited afterwards. Children are collected even
	// when no OnPackage hook is set.
	var children []string
	for _, pkg := range m.PackageNames() {
		if hooks.OnPackage != nil {
			for _, version := range m.Versions(pkg) {
				hooks.OnPackage(m, pkg, version)
			}
		}
		if pkg != name {
			if _, ok := b.Packages[pkg]; ok {
				children = append(children, pkg)
			}
		}
	}

	if hooks.After != nil {
		hooks.After(m)
	}

	// Recursing after the full enumeration keeps secondary dependencies
	// that are not expressed in the hierarchy (a gem needing a native
	// -dev package) installed before the manager that needs them.
	for _, child := range children {
		b.walk(child, hooks, visited)
	}
}
