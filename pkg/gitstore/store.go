package gitstore

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zlib"

	"github.com/jodiecunningham/blueprint/pkg/errors"
)

// Store is a loose-object store rooted at a local directory. All writes
// are durable once the call returns; objects are immutable and written
// at most once per distinct content.
type Store struct {
	dir string
}

// Open initializes the store layout under dir, creating the objects and
// refs directories if needed. An existing store is opened as-is.
func Open(dir string) (*Store, error) {
	for _, sub := range []string{
		filepath.Join(dir, "objects"),
		filepath.Join(dir, "refs", "heads"),
	} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "initialize store at %s", dir)
		}
	}

	// A HEAD file keeps stock git tooling willing to inspect the store.
	head := filepath.Join(dir, "HEAD")
	if _, err := os.Stat(head); os.IsNotExist(err) {
		if err := os.WriteFile(head, []byte("ref: refs/heads/master\n"), 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "initialize store at %s", dir)
		}
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// objectPath fans objects out into 256 subdirectories by the first two
// hex digits, matching git's loose-object layout.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.dir, "objects", string(h[:2]), string(h[2:]))
}

// writeObject stores a framed, compressed object and returns its id.
// Writing content that is already present is a no-op.
func (s *Store) writeObject(typ ObjectType, payload []byte) (Hash, error) {
	h := hashObject(typ, payload)
	path := s.objectPath(h)
	if _, err := os.Stat(path); err == nil {
		return h, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write object %s", h)
	}

	// Compress into a uniquely named temp file, then rename into place so
	// a concurrent reader never observes a partial object.
	tmp := filepath.Join(s.dir, "objects", "tmp-"+uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write object %s", h)
	}
	zw := zlib.NewWriter(f)
	if _, err := zw.Write(frame(typ, payload)); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", errors.Wrap(errors.ErrCodeInternal, err, "compress object %s", h)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", errors.Wrap(errors.ErrCodeInternal, err, "compress object %s", h)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write object %s", h)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write object %s", h)
	}
	return h, nil
}

// readObject loads and verifies an object, returning its payload.
func (s *Store) readObject(h Hash, want ObjectType) ([]byte, error) {
	if _, err := h.raw(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.objectPath(h))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "object %s not found", h)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read object %s", h)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreCorrupt, err, "object %s", h)
	}
	defer zr.Close()

	framed, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreCorrupt, err, "object %s", h)
	}

	nul := bytes.IndexByte(framed, 0)
	if nul < 0 {
		return nil, errors.New(errors.ErrCodeStoreCorrupt, "object %s missing header", h)
	}
	header := string(framed[:nul])
	payload := framed[nul+1:]

	var typ ObjectType
	sp := bytes.IndexByte([]byte(header), ' ')
	if sp >= 0 {
		typ = ObjectType(header[:sp])
	}
	if typ != want {
		return nil, errors.New(errors.ErrCodeStoreCorrupt, "object %s is a %s, want %s", h, typ, want)
	}
	if hashObject(typ, payload) != h {
		return nil, errors.New(errors.ErrCodeStoreCorrupt, "object %s content does not match its id", h)
	}
	return payload, nil
}

// WriteBlob stores an immutable byte sequence. Identical bytes yield the
// identical id without duplicating storage.
func (s *Store) WriteBlob(data []byte) (Hash, error) {
	return s.writeObject(TypeBlob, data)
}

// ReadBlob returns the bytes of a stored blob.
func (s *Store) ReadBlob(h Hash) ([]byte, error) {
	return s.readObject(h, TypeBlob)
}

// WriteTree stores a tree from the given entries. Entry order does not
// matter; the canonical encoding sorts them, so equal entry sets yield
// equal ids.
func (s *Store) WriteTree(entries []TreeEntry) (Hash, error) {
	payload, err := encodeTree(entries)
	if err != nil {
		return "", err
	}
	return s.writeObject(TypeTree, payload)
}

// ReadTree returns a tree's entries in stored (canonical) order.
func (s *Store) ReadTree(h Hash) ([]TreeEntry, error) {
	payload, err := s.readObject(h, TypeTree)
	if err != nil {
		return nil, err
	}
	return decodeTree(payload)
}

// WriteCommit stores a commit referencing a tree and an optional parent.
func (s *Store) WriteCommit(c Commit) (Hash, error) {
	if c.Tree.IsZero() {
		return "", errors.New(errors.ErrCodeInvalidInput, "commit requires a tree")
	}
	return s.writeObject(TypeCommit, encodeCommit(c))
}

// ReadCommit loads a commit by id.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	payload, err := s.readObject(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	return decodeCommit(payload)
}
