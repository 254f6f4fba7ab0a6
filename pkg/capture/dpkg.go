package capture

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/jodiecunningham/blueprint/pkg/blueprint"
	"github.com/jodiecunningham/blueprint/pkg/errors"
)

// DefaultDpkgStatusPath is where dpkg keeps its package database on a
// Debian-family system.
const DefaultDpkgStatusPath = "/var/lib/dpkg/status"

// DpkgStatus returns a producer that reads a dpkg status database and
// records every installed package under the default manager. The
// document's architecture is taken from the first installed package
// with a concrete (non-"all") architecture.
//
// The path is a parameter so captures can run against a copied status
// file as easily as a live one.
func DpkgStatus(path string) Producer {
	return func(ctx context.Context, b *blueprint.Blueprint) error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot read dpkg status database %q", path)
		}
		defer f.Close()
		return parseDpkgStatus(f, b)
	}
}

// dpkgParagraph holds the fields of one status-file stanza that matter
// for a capture.
type dpkgParagraph struct {
	name      string
	version   string
	arch      string
	installed bool
}

func (p dpkgParagraph) record(b *blueprint.Blueprint) {
	if !p.installed || p.name == "" || p.version == "" {
		return
	}
	b.AddPackage(blueprint.DefaultManager, p.name, p.version)
	if b.Arch == nil && p.arch != "" && p.arch != "all" {
		b.SetArch(p.arch)
	}
}

func parseDpkgStatus(f *os.File, b *blueprint.Blueprint) error {
	var p dpkgParagraph
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			p.record(b)
			p = dpkgParagraph{}
			continue
		}
		// Continuation lines and unknown fields are irrelevant here.
		field, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		switch field {
		case "Package":
			p.name = value
		case "Version":
			p.version = value
		case "Architecture":
			p.arch = value
		case "Status":
			p.installed = strings.HasSuffix(value, " installed")
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "reading dpkg status database")
	}
	p.record(b)
	return nil
}
