package gitstore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jodiecunningham/blueprint/pkg/errors"
)

// validateRefName rejects names that would escape the refs directory or
// collide with the filesystem. Blueprint names map one-to-one onto ref
// names, so this is also the blueprint name validation.
func validateRefName(name string) error {
	switch {
	case name == "":
		return errors.New(errors.ErrCodeInvalidName, "ref name must not be empty")
	case strings.ContainsAny(name, "/\\"):
		return errors.New(errors.ErrCodeInvalidName, "ref name %q must not contain path separators", name)
	case name == "." || name == "..":
		return errors.New(errors.ErrCodeInvalidName, "ref name %q is reserved", name)
	case strings.HasPrefix(name, "tmp-"):
		return errors.New(errors.ErrCodeInvalidName, "ref name %q is reserved", name)
	}
	return nil
}

func (s *Store) refPath(name string) string {
	return filepath.Join(s.dir, "refs", "heads", name)
}

// ResolveRef returns the commit a named ref points at.
func (s *Store) ResolveRef(name string) (Hash, error) {
	if err := validateRefName(name); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.refPath(name))
	if os.IsNotExist(err) {
		return "", errors.New(errors.ErrCodeNotFound, "ref %q not found", name)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "resolve ref %q", name)
	}
	h, err := ParseHash(strings.TrimSpace(string(data)))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreCorrupt, err, "ref %q", name)
	}
	return h, nil
}

// UpdateRef atomically points a named ref at a commit, creating the ref
// if needed. The write goes through a uniquely named temp file and a
// rename, so an interrupted update leaves the previous value intact.
func (s *Store) UpdateRef(name string, h Hash) error {
	if err := validateRefName(name); err != nil {
		return err
	}
	if _, err := h.raw(); err != nil {
		return err
	}

	tmp := filepath.Join(s.dir, "refs", "heads", "tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, []byte(string(h)+"\n"), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "update ref %q", name)
	}
	if err := os.Rename(tmp, s.refPath(name)); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "update ref %q", name)
	}
	return nil
}

// DeleteRef removes a named ref. The objects it pointed at remain in the
// store; there is no garbage collection.
func (s *Store) DeleteRef(name string) error {
	if err := validateRefName(name); err != nil {
		return err
	}
	err := os.Remove(s.refPath(name))
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeNotFound, "ref %q not found", name)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete ref %q", name)
	}
	return nil
}

// ListRefs returns the names of all refs in ascending order.
func (s *Store) ListRefs() ([]string, error) {
	dirEntries, err := os.ReadDir(filepath.Join(s.dir, "refs", "heads"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list refs")
	}
	var names []string
	for _, de := range dirEntries {
		if de.IsDir() || strings.HasPrefix(de.Name(), "tmp-") {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)
	return names, nil
}
