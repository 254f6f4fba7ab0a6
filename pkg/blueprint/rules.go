package blueprint

import (
	"regexp"
	"strings"
)

// BootstrapRule maps a version-qualified manager name to the native
// packages its runtime implies. A rubygems manager needs a same-version
// ruby interpreter and -dev headers to function, but that dependency is
// not expressed anywhere in the manager hierarchy, so subtraction
// re-derives it from this table rather than from walked data.
//
// The "{}" placeholder in each template is substituted with the version
// captured from the manager name.
type BootstrapRule struct {
	Pattern   *regexp.Regexp
	Templates []string
}

// Expand renders the rule's package names for a manager name, or nil if
// the name does not match.
func (r BootstrapRule) Expand(managerName string) []string {
	captures := r.Pattern.FindStringSubmatch(managerName)
	if captures == nil {
		return nil
	}
	names := make([]string, len(r.Templates))
	for i, tmpl := range r.Templates {
		names[i] = strings.ReplaceAll(tmpl, "{}", captures[1])
	}
	return names
}

// DefaultBootstrapRules is the fixed bootstrap-dependency table: a
// python-version manager implies a same-version interpreter and dev
// package, a ruby-version manager its dev package, and a
// rubygems-version manager a same-version interpreter and dev package.
//
// Callers with distro-conditional needs construct their own table and
// pass it to SubtractRules; there is no process-wide mutable state.
var DefaultBootstrapRules = []BootstrapRule{
	{
		Pattern:   regexp.MustCompile(`^python(\d+(?:\.\d+)?)$`),
		Templates: []string{"python{}", "python{}-dev"},
	},
	{
		Pattern:   regexp.MustCompile(`^ruby(\d+\.\d+(?:\.\d+)?)$`),
		Templates: []string{"ruby{}-dev"},
	},
	{
		Pattern:   regexp.MustCompile(`^rubygems(\d+\.\d+(?:\.\d+)?)$`),
		Templates: []string{"ruby{}", "ruby{}-dev"},
	},
}
