// Package distro probes the running OS release. The probe result is a
// plain value constructed once at startup and passed to the components
// with release-conditional behavior, never read from a global.
package distro

import (
	"context"
	"os/exec"
	"regexp"
)

// Release describes the detected OS release. The zero value means the
// release could not be determined, in which case all conditional
// behavior takes the conservative branch.
type Release struct {
	// Codename is the distribution codename, for example "lucid" or
	// "maverick". Empty when unknown.
	Codename string
}

var codenameRe = regexp.MustCompile(`\t(\w+)\s*$`)

// Detect runs lsb_release once and returns the release it reports.
// Any failure, a missing binary included, yields the zero Release.
func Detect(ctx context.Context) Release {
	out, err := exec.CommandContext(ctx, "lsb_release", "-c").Output()
	if err != nil {
		return Release{}
	}
	match := codenameRe.FindSubmatch(out)
	if match == nil {
		return Release{}
	}
	return Release{Codename: string(match[1])}
}

// Known reports whether a codename was detected.
func (r Release) Known() bool { return r.Codename != "" }

// RubygemsUpdate reports whether installing RubyGems through the system
// package manager leaves a version old enough to need the
// rubygems-update gem. True on Lucid and older releases.
func (r Release) RubygemsUpdate() bool {
	return r.Known() && r.Codename[0] < 'm'
}

// RubygemsVirtual reports whether RubyGems ships inside the Ruby 1.9
// distribution itself. True on Maverick and newer releases.
func (r Release) RubygemsVirtual() bool {
	return r.Known() && r.Codename[0] >= 'm'
}

// RubygemsPath returns the directory RubyGems installs gems under for
// this release.
func (r Release) RubygemsPath() string {
	if r.RubygemsUpdate() {
		return "/usr/lib/ruby/gems"
	}
	return "/var/lib/gems"
}
