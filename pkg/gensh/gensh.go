// Package gensh renders a blueprint document as a standalone shell
// script that reproduces the captured state on a fresh system: source
// tarballs are extracted, files are placed with their ownership and
// modes restored, and packages are installed through the manager
// hierarchy in dependency order.
package gensh

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/jodiecunningham/blueprint/pkg/blueprint"
	"github.com/jodiecunningham/blueprint/pkg/distro"
	"github.com/jodiecunningham/blueprint/pkg/errors"
)

const disclaimer = "#\n# Automatically generated by blueprint(7).  Edit at your own risk.\n#\n"

// Script is a generated shell script plus the source archives it
// expects to find next to itself when run.
type Script struct {
	name    string
	lines   []string
	sources map[string][]byte
}

// Name returns the blueprint name the script was generated from.
func (s *Script) Name() string { return s.name }

// Sources returns the archive bytes the script extracts, keyed by the
// filename the script references.
func (s *Script) Sources() map[string][]byte { return s.sources }

// String renders the complete script text.
func (s *Script) String() string {
	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	sb.WriteString(disclaimer)
	for _, line := range s.lines {
		sb.WriteString(line)
	}
	return sb.String()
}

func (s *Script) add(format string, args ...any) {
	s.lines = append(s.lines, fmt.Sprintf(format, args...)+"\n")
}

// raw appends content verbatim, without a trailing newline. Heredoc
// bodies must hit the output byte for byte.
func (s *Script) raw(content string) {
	s.lines = append(s.lines, content)
}

var rubygemsPackageRe = regexp.MustCompile(`^rubygems(\d+\.\d+(?:\.\d+)?)$`)

// Generate renders the document as a shell script. The release decides
// whether version-qualified RubyGems installations need the
// rubygems-update repair sequence.
func Generate(b *blueprint.Blueprint, release distro.Release) (*Script, error) {
	s := &Script{name: b.Name, sources: make(map[string][]byte)}

	if err := addSources(s, b); err != nil {
		return nil, err
	}
	addFiles(s, b)
	addPackages(s, b, release)
	return s, nil
}

func addSources(s *Script, b *blueprint.Blueprint) error {
	dirnames := make([]string, 0, len(b.Sources))
	for dirname := range b.Sources {
		dirnames = append(dirnames, dirname)
	}
	sort.Strings(dirnames)
	for _, dirname := range dirnames {
		filename := b.Sources[dirname]
		data, ok := b.SourceData[filename]
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "source archive %q has no data; load the blueprint from its store first", filename)
		}
		s.sources[filename] = data
		s.add("tar xf %q -C %q", filename, dirname)
	}
	return nil
}

func addFiles(s *Script, b *blueprint.Blueprint) {
	pathnames := make([]string, 0, len(b.Files))
	for pathname := range b.Files {
		pathnames = append(pathnames, pathname)
	}
	sort.Strings(pathnames)

	for _, pathname := range pathnames {
		f := b.Files[pathname]
		s.add("mkdir -p %q", path.Dir(pathname))

		if f.IsSymlink() {
			s.add("ln -s %q %q", f.Content, pathname)
			continue
		}

		command := "cat"
		if f.Encoding == blueprint.EncodingBase64 {
			command = "base64 --decode"
		}

		// The heredoc terminator must not occur in the body.
		eof := "EOF"
		for strings.Contains(f.Content, eof) {
			eof += "EOF"
		}
		s.add("%s >%q <<%s", command, pathname, eof)
		s.raw(f.Content)
		if len(f.Content) > 0 && !strings.HasSuffix(f.Content, "\n") {
			eof = "\n" + eof
		}
		s.add("%s", eof)

		if f.Owner != "root" {
			s.add("chown %s %q", f.Owner, pathname)
		}
		if f.Group != "root" {
			s.add("chgrp %s %q", f.Group, pathname)
		}
		if f.Mode != "000644" {
			s.add("chmod %s %q", f.Mode[len(f.Mode)-4:], pathname)
		}
	}
}

func addPackages(s *Script, b *blueprint.Blueprint, release distro.Release) {
	b.Walk(blueprint.Hooks{
		Before: func(m *blueprint.Manager) {
			if m.Name() == blueprint.DefaultManager {
				s.add("apt-get -q update")
			}
		},
		OnPackage: func(m *blueprint.Manager, pkg, version string) {
			if m.Name() == pkg {
				return
			}
			s.add("%s", m.Invocation(pkg, version))

			// A freshly installed system RubyGems may be too old to
			// fetch gems; repair it right after installing it.
			if m.Name() != blueprint.DefaultManager {
				return
			}
			match := rubygemsPackageRe.FindStringSubmatch(pkg)
			if match == nil || !release.RubygemsUpdate() {
				return
			}
			s.add("/usr/bin/gem%s install --no-rdoc --no-ri rubygems-update", match[1])
			s.add("/usr/bin/ruby%s $(PATH=$PATH:/var/lib/gems/%s/bin which update_rubygems)", match[1], match[1])
		},
	})
}
