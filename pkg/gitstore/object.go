// Package gitstore implements a git-compatible content-addressable object
// store for blueprint snapshots.
//
// The store keeps immutable blobs, trees, and commits as zlib-compressed
// loose objects under a local directory, addressed by the SHA-1 of their
// canonical encoding, exactly as git lays them out. Mutable refs (one per
// blueprint name) live under refs/heads and point at the latest commit.
//
// Identical content always hashes to the identical object, so writing the
// same blueprint twice stores nothing new. Objects are never modified or
// deleted; only refs move.
package gitstore

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/jodiecunningham/blueprint/pkg/errors"
)

// Hash is a 40-character hex-encoded SHA-1 digest identifying an object.
// The zero value means "no object" (e.g. a commit without a parent).
type Hash string

// IsZero reports whether h identifies no object.
func (h Hash) IsZero() bool { return h == "" }

// Short returns an abbreviated form for display.
func (h Hash) Short() string {
	if len(h) < 8 {
		return string(h)
	}
	return string(h[:8])
}

var hashRe = regexp.MustCompile(`^[0-9a-f]{40}$`)

// ParseHash validates a hex object id.
func ParseHash(s string) (Hash, error) {
	if !hashRe.MatchString(s) {
		return "", errors.New(errors.ErrCodeInvalidHash, "malformed object id %q", s)
	}
	return Hash(s), nil
}

func (h Hash) raw() ([]byte, error) {
	raw, err := hex.DecodeString(string(h))
	if err != nil || len(raw) != sha1.Size {
		return nil, errors.New(errors.ErrCodeInvalidHash, "malformed object id %q", string(h))
	}
	return raw, nil
}

// ObjectType identifies the kind of stored object.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// Tree entry modes, using git's canonical mode strings.
const (
	ModeFile       = "100644"
	ModeExecutable = "100755"
	ModeSymlink    = "120000"
	ModeDir        = "40000"
)

// TreeEntry is one entry in a tree object.
type TreeEntry struct {
	Mode string
	Name string
	Hash Hash
}

// Type returns the object type the entry points at, derived from its mode.
func (e TreeEntry) Type() ObjectType {
	if e.Mode == ModeDir {
		return TypeTree
	}
	return TypeBlob
}

// Signature identifies who created a commit and when.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Commit references a tree and an optional parent commit.
type Commit struct {
	Tree      Hash
	Parent    Hash // zero if this is the first commit on the ref
	Author    Signature
	Committer Signature
	Message   string
}

// hashObject computes the object id of a payload framed with git's
// "<type> <size>\x00" header.
func hashObject(typ ObjectType, payload []byte) Hash {
	sum := sha1.Sum(frame(typ, payload))
	return Hash(hex.EncodeToString(sum[:]))
}

func frame(typ ObjectType, payload []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", typ, len(payload))
	framed := make([]byte, 0, len(header)+len(payload))
	framed = append(framed, header...)
	framed = append(framed, payload...)
	return framed
}

// sortTreeEntries orders entries the way git does: byte comparison of
// names, with tree entries compared as if their name had a trailing slash.
func sortTreeEntries(entries []TreeEntry) {
	key := func(e TreeEntry) string {
		if e.Mode == ModeDir {
			return e.Name + "/"
		}
		return e.Name
	}
	sort.Slice(entries, func(i, j int) bool {
		return key(entries[i]) < key(entries[j])
	})
}

// encodeTree produces git's binary tree encoding: for each entry, the
// mode and name as text, a NUL, then the 20 raw digest bytes.
func encodeTree(entries []TreeEntry) ([]byte, error) {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sortTreeEntries(sorted)

	var buf bytes.Buffer
	for _, e := range sorted {
		if e.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "tree entry with empty name")
		}
		raw, err := e.Hash.raw()
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%s %s\x00", e.Mode, e.Name)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

func decodeTree(payload []byte) ([]TreeEntry, error) {
	var entries []TreeEntry
	for len(payload) > 0 {
		sp := bytes.IndexByte(payload, ' ')
		if sp < 0 {
			return nil, errors.New(errors.ErrCodeStoreCorrupt, "tree entry missing mode separator")
		}
		mode := string(payload[:sp])
		payload = payload[sp+1:]

		nul := bytes.IndexByte(payload, 0)
		if nul < 0 {
			return nil, errors.New(errors.ErrCodeStoreCorrupt, "tree entry missing name terminator")
		}
		name := string(payload[:nul])
		payload = payload[nul+1:]

		if len(payload) < sha1.Size {
			return nil, errors.New(errors.ErrCodeStoreCorrupt, "tree entry truncated digest")
		}
		entries = append(entries, TreeEntry{
			Mode: mode,
			Name: name,
			Hash: Hash(hex.EncodeToString(payload[:sha1.Size])),
		})
		payload = payload[sha1.Size:]
	}
	return entries, nil
}

// encodeCommit produces git's text commit encoding. The timezone is
// rendered from the signature's location so round-trips preserve it.
func encodeCommit(c Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.Tree)
	if !c.Parent.IsZero() {
		fmt.Fprintf(&buf, "parent %s\n", c.Parent)
	}
	fmt.Fprintf(&buf, "author %s\n", formatSignature(c.Author))
	fmt.Fprintf(&buf, "committer %s\n", formatSignature(c.Committer))
	buf.WriteString("\n")
	buf.WriteString(c.Message)
	if len(c.Message) == 0 || c.Message[len(c.Message)-1] != '\n' {
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

func formatSignature(s Signature) string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When.Unix(), s.When.Format("-0700"))
}

func decodeCommit(payload []byte) (*Commit, error) {
	var c Commit
	rest := payload
	for {
		nl := bytes.IndexByte(rest, '\n')
		if nl < 0 {
			return nil, errors.New(errors.ErrCodeStoreCorrupt, "commit missing message separator")
		}
		line := string(rest[:nl])
		rest = rest[nl+1:]
		if line == "" {
			break
		}

		sp := bytes.IndexByte([]byte(line), ' ')
		if sp < 0 {
			return nil, errors.New(errors.ErrCodeStoreCorrupt, "commit header %q missing value", line)
		}
		field, value := line[:sp], line[sp+1:]
		switch field {
		case "tree":
			h, err := ParseHash(value)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeStoreCorrupt, err, "commit tree header")
			}
			c.Tree = h
		case "parent":
			h, err := ParseHash(value)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeStoreCorrupt, err, "commit parent header")
			}
			c.Parent = h
		case "author":
			sig, err := parseSignature(value)
			if err != nil {
				return nil, err
			}
			c.Author = sig
		case "committer":
			sig, err := parseSignature(value)
			if err != nil {
				return nil, err
			}
			c.Committer = sig
		default:
			// Unknown headers (gpgsig, encoding) are tolerated so commits
			// written by stock git still load.
		}
	}
	c.Message = string(rest)
	if c.Tree.IsZero() {
		return nil, errors.New(errors.ErrCodeStoreCorrupt, "commit without tree header")
	}
	return &c, nil
}

var signatureRe = regexp.MustCompile(`^(.*) <([^>]*)> (\d+) ([+-]\d{4})$`)

func parseSignature(value string) (Signature, error) {
	m := signatureRe.FindStringSubmatch(value)
	if m == nil {
		return Signature{}, errors.New(errors.ErrCodeStoreCorrupt, "malformed signature %q", value)
	}
	unix, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return Signature{}, errors.New(errors.ErrCodeStoreCorrupt, "malformed signature timestamp %q", m[3])
	}
	offsetHours, err := strconv.Atoi(m[4])
	if err != nil {
		return Signature{}, errors.New(errors.ErrCodeStoreCorrupt, "malformed signature timezone %q", m[4])
	}
	zone := time.FixedZone(m[4], (offsetHours/100)*3600+(offsetHours%100)*60)
	return Signature{
		Name:  m[1],
		Email: m[2],
		When:  time.Unix(unix, 0).In(zone),
	}, nil
}
