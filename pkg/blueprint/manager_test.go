package blueprint

import (
	"reflect"
	"testing"
)

func TestManagerPackageNamesSorted(t *testing.T) {
	m := NewManager("apt", map[string][]string{
		"zsh":  {"4.3"},
		"curl": {"7.1"},
		"pip":  {"1.0"},
	})
	got := m.PackageNames()
	want := []string{"curl", "pip", "zsh"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PackageNames = %v, want %v", got, want)
	}
}

func TestManagerNilTable(t *testing.T) {
	m := NewManager("apt", nil)
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
	if m.Has("curl") {
		t.Error("Has on nil table should be false")
	}
	if names := m.PackageNames(); len(names) != 0 {
		t.Errorf("PackageNames = %v, want empty", names)
	}
}

func TestManagerInvocation(t *testing.T) {
	tests := []struct {
		manager string
		pkg     string
		version string
		want    string
	}{
		{"apt", "curl", "7.21.0-1", "apt-get -y -q install curl=7.21.0-1"},
		{"pip", "flask", "0.9", "pip install flask==0.9"},
		{"rubygems1.9", "rails", "3.0.3", "gem1.9 install --no-rdoc --no-ri -v3.0.3 rails"},
		{"ruby1.9.2", "rake", "0.8.7", "gem1.9.2 install --no-rdoc --no-ri -v0.8.7 rake"},
		{"python2.6", "requests", "0.6", "easy_install-2.6 requests"},
		{"python3", "requests", "2.25", "easy_install-3 requests"},
		{"npm", "express", "2.5", "npm install express 2.5"},
	}
	for _, tt := range tests {
		m := NewManager(tt.manager, nil)
		if got := m.Invocation(tt.pkg, tt.version); got != tt.want {
			t.Errorf("%s.Invocation(%s, %s) = %q, want %q",
				tt.manager, tt.pkg, tt.version, got, tt.want)
		}
	}
}

func TestManagerFamilyPatterns(t *testing.T) {
	// "rubygems" without a version is not a version-qualified family
	// member and falls through to the generic invocation.
	m := NewManager("rubygems", nil)
	if got := m.Invocation("rails", "3.0"); got != "rubygems install rails 3.0" {
		t.Errorf("unversioned rubygems invocation = %q", got)
	}
}
