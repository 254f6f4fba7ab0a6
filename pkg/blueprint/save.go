package blueprint

import (
	"time"

	"github.com/jodiecunningham/blueprint/pkg/errors"
	"github.com/jodiecunningham/blueprint/pkg/gitstore"
)

// committer identifies snapshot commits written by this tool.
var committer = gitstore.Signature{
	Name:  "blueprint",
	Email: "blueprint@localhost",
}

// Save persists the document as a new commit on the ref named after the
// blueprint, parent-linked to the previous commit on that ref if one
// exists. The snapshot tree holds the canonical document blob plus one
// blob per source archive at its recorded filename.
//
// All object writes are complete and durable before the ref moves, so
// an interrupted save never leaves the ref pointing at missing objects.
func (b *Blueprint) Save(s *gitstore.Store, message string) (gitstore.Hash, error) {
	if b.Name == "" {
		return "", errors.New(errors.ErrCodeInvalidName, "blueprint has no name")
	}

	payload, err := Encode(b)
	if err != nil {
		return "", err
	}
	docBlob, err := s.WriteBlob(payload)
	if err != nil {
		return "", err
	}

	entries := []gitstore.TreeEntry{
		{Mode: gitstore.ModeFile, Name: DocumentFilename, Hash: docBlob},
	}
	written := map[string]bool{DocumentFilename: true}
	for _, filename := range b.Sources {
		if written[filename] {
			continue
		}
		data, ok := b.SourceData[filename]
		if !ok {
			return "", errors.New(errors.ErrCodeInvalidInput, "source archive %q has no data to store", filename)
		}
		archiveBlob, err := s.WriteBlob(data)
		if err != nil {
			return "", err
		}
		entries = append(entries, gitstore.TreeEntry{
			Mode: gitstore.ModeFile,
			Name: filename,
			Hash: archiveBlob,
		})
		written[filename] = true
	}

	tree, err := s.WriteTree(entries)
	if err != nil {
		return "", err
	}

	var parent gitstore.Hash
	switch prev, err := s.ResolveRef(b.Name); {
	case err == nil:
		parent = prev
	case errors.Is(err, errors.ErrCodeNotFound):
		// First snapshot under this name.
	default:
		return "", err
	}

	sig := committer
	sig.When = time.Now()
	commit, err := s.WriteCommit(gitstore.Commit{
		Tree:      tree,
		Parent:    parent,
		Author:    sig,
		Committer: sig,
		Message:   message,
	})
	if err != nil {
		return "", err
	}
	if err := s.UpdateRef(b.Name, commit); err != nil {
		return "", err
	}
	b.Commit = commit
	return commit, nil
}

// Load resolves a blueprint by name to its latest commit and decodes
// it. A missing ref surfaces as "blueprint does not exist".
func Load(s *gitstore.Store, name string) (*Blueprint, error) {
	commit, err := s.ResolveRef(name)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, errors.New(errors.ErrCodeNotFound, "blueprint %q does not exist", name)
		}
		return nil, err
	}
	return LoadCommit(s, name, commit)
}

// LoadCommit decodes the snapshot stored at an explicit commit,
// including the bytes of any source archives in its tree.
func LoadCommit(s *gitstore.Store, name string, commit gitstore.Hash) (*Blueprint, error) {
	c, err := s.ReadCommit(commit)
	if err != nil {
		return nil, err
	}
	entries, err := s.ReadTree(c.Tree)
	if err != nil {
		return nil, err
	}

	var b *Blueprint
	sourceData := make(map[string][]byte)
	for _, entry := range entries {
		data, err := s.ReadBlob(entry.Hash)
		if err != nil {
			return nil, err
		}
		if entry.Name == DocumentFilename {
			if b, err = Decode(data); err != nil {
				return nil, err
			}
			continue
		}
		sourceData[entry.Name] = data
	}
	if b == nil {
		return nil, errors.New(errors.ErrCodeMalformedDocument, "commit %s has no %s", commit.Short(), DocumentFilename)
	}

	b.Name = name
	b.Commit = commit
	b.SourceData = sourceData
	return b, nil
}

// List returns the names of all stored blueprints in ascending order.
func List(s *gitstore.Store) ([]string, error) {
	return s.ListRefs()
}

// Destroy deletes the named blueprint's ref. Objects reachable from it
// remain in the store; there is no garbage collection.
func Destroy(s *gitstore.Store, name string) error {
	if err := s.DeleteRef(name); err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return errors.New(errors.ErrCodeNotFound, "blueprint %q does not exist", name)
		}
		return err
	}
	return nil
}
