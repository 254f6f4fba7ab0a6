package blueprint

import (
	"fmt"
	"regexp"
	"sort"
)

// Manager is a view over one manager's package table inside a
// blueprint. It does not copy the table; it is a capability handed to
// walk hooks and generators for enumerating packages and rendering
// install invocations.
type Manager struct {
	name     string
	packages map[string][]string
}

// NewManager wraps a manager name and its package table. The table may
// be nil for a manager with no recorded packages.
func NewManager(name string, packages map[string][]string) *Manager {
	return &Manager{name: name, packages: packages}
}

// Name returns the manager's name.
func (m *Manager) Name() string { return m.name }

// Len returns the number of distinct package names the manager holds.
func (m *Manager) Len() int { return len(m.packages) }

// Has reports whether the manager holds the named package.
func (m *Manager) Has(pkg string) bool {
	_, ok := m.packages[pkg]
	return ok
}

// Versions returns the recorded versions for a package, in recorded
// order. The returned slice is the document's own; callers must not
// mutate it.
func (m *Manager) Versions(pkg string) []string {
	return m.packages[pkg]
}

// PackageNames returns the manager's package names in ascending order.
// Stable lexicographic ordering here is a correctness requirement: walk
// output and generator output must be reproducible run to run.
func (m *Manager) PackageNames() []string {
	names := make([]string, 0, len(m.packages))
	for name := range m.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Manager-family name patterns. A manager's name encodes its tooling:
// version-qualified ruby/rubygems managers install through
// version-qualified gem binaries, version-qualified python managers
// through easy_install, and so on.
var (
	rubyFamilyRe   = regexp.MustCompile(`^ruby(?:gems)?(\d+\.\d+(?:\.\d+)?)`)
	pythonFamilyRe = regexp.MustCompile(`^python(\d+(?:\.\d+)?)$`)
)

// invocationRule renders an install invocation for one manager family.
// The first matching rule wins; the table is configuration data, not
// algorithm, and walk/diff correctness never depends on it.
type invocationRule struct {
	match  func(name string) []string
	render func(captures []string, pkg, version string) string
}

var invocationRules = []invocationRule{
	{
		match: exactly(DefaultManager),
		render: func(_ []string, pkg, version string) string {
			return fmt.Sprintf("apt-get -y -q install %s=%s", pkg, version)
		},
	},
	{
		match: pattern(rubyFamilyRe),
		render: func(captures []string, pkg, version string) string {
			return fmt.Sprintf("gem%s install --no-rdoc --no-ri -v%s %s", captures[1], version, pkg)
		},
	},
	{
		match: pattern(pythonFamilyRe),
		render: func(captures []string, pkg, version string) string {
			return fmt.Sprintf("easy_install-%s %s", captures[1], pkg)
		},
	},
	{
		match: exactly("pip"),
		render: func(_ []string, pkg, version string) string {
			return fmt.Sprintf("pip install %s==%s", pkg, version)
		},
	},
}

func exactly(name string) func(string) []string {
	return func(candidate string) []string {
		if candidate == name {
			return []string{candidate}
		}
		return nil
	}
}

func pattern(re *regexp.Regexp) func(string) []string {
	return func(candidate string) []string {
		return re.FindStringSubmatch(candidate)
	}
}

// Invocation renders the command that installs one package at one
// version through this manager's tooling. Managers with no dedicated
// rule fall through to a generic invocation.
func (m *Manager) Invocation(pkg, version string) string {
	for _, rule := range invocationRules {
		if captures := rule.match(m.name); captures != nil {
			return rule.render(captures, pkg, version)
		}
	}
	return fmt.Sprintf("%s install %s %s", m.name, pkg, version)
}
