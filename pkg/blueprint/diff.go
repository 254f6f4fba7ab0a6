package blueprint

// Subtract computes the minimal blueprint left after removing content
// already present in other: packages installed on the base image do not
// belong in a derived server's blueprint. Neither input is mutated.
func (b *Blueprint) Subtract(other *Blueprint) *Blueprint {
	return b.SubtractRules(other, DefaultBootstrapRules)
}

// SubtractRules is Subtract with an explicit bootstrap-dependency
// table. It takes three passes through other's package tree; the passes
// are order-sensitive and each is applied fully before the next:
//
//  1. remove every version shared with other,
//  2. prune managers the first pass emptied,
//  3. restore the native bootstrap packages that surviving managers
//     imply, which the earlier passes may have stripped.
func (b *Blueprint) SubtractRules(other *Blueprint, rules []BootstrapRule) *Blueprint {
	minimal := b.Clone()
	minimal.Commit = ""

	// Pass 1: for each (manager, package, version) in other, remove one
	// matching occurrence from minimal. Packages that are themselves
	// managers are left alone, as is any manager whose own bootstrap
	// record exists under itself. Removing a version that is already
	// absent is an expected no-op.
	other.Walk(Hooks{
		OnPackage: func(m *Manager, pkg, version string) {
			if _, isManager := minimal.Packages[pkg]; isManager {
				return
			}
			table, ok := minimal.Packages[m.Name()]
			if !ok {
				return
			}
			if _, self := table[m.Name()]; self {
				return
			}
			versions, ok := table[pkg]
			if !ok {
				return
			}
			for i, v := range versions {
				if v == version {
					versions = append(versions[:i:i], versions[i+1:]...)
					break
				}
			}
			if len(versions) == 0 {
				delete(table, pkg)
			} else {
				table[pkg] = versions
			}
		},
	})

	// Pass 2: a manager whose table pass 1 emptied manages nothing, so
	// drop both its table and its entry in the parent manager's list.
	other.Walk(Hooks{
		OnPackage: func(m *Manager, pkg, version string) {
			table, isManager := minimal.Packages[pkg]
			if !isManager || len(table) != 0 {
				return
			}
			delete(minimal.Packages, pkg)
			if parent, ok := minimal.Packages[m.Name()]; ok {
				delete(parent, pkg)
			}
		},
	})

	// Pass 3: every manager the receiver knew about implies bootstrap
	// packages per the rule table. Copy each implied package that the
	// receiver held under the default manager back into the result,
	// re-adding dependencies the earlier passes stripped because the
	// base shared them: the runtime behind the manager is still needed.
	other.Walk(Hooks{
		After: func(m *Manager) {
			if _, ok := b.Packages[m.Name()]; !ok {
				return
			}
			for _, rule := range rules {
				for _, pkg := range rule.Expand(m.Name()) {
					versions, ok := b.Packages[DefaultManager][pkg]
					if !ok {
						continue
					}
					table := minimal.Packages[DefaultManager]
					if table == nil {
						table = make(map[string][]string)
						minimal.Packages[DefaultManager] = table
					}
					table[pkg] = append([]string(nil), versions...)
				}
			}
		},
	})

	minimal.managers = nil
	return minimal
}
