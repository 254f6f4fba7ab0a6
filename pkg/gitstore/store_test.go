package gitstore

import (
	"bytes"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	return s
}

func TestBlobRoundTrip(t *testing.T) {
	s := newTestStore(t)

	data := []byte("hello\n")
	h, err := s.WriteBlob(data)
	if err != nil {
		t.Fatalf("WriteBlob error: %v", err)
	}

	// Known git object id for "hello\n" keeps us honest about wire
	// compatibility with stock git.
	if h != "ce013625030ba8dba906f756967f9e9ca394464a" {
		t.Errorf("blob id = %s, want ce013625030ba8dba906f756967f9e9ca394464a", h)
	}

	got, err := s.ReadBlob(h)
	if err != nil {
		t.Fatalf("ReadBlob error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("ReadBlob = %q, want %q", got, data)
	}
}

func TestWriteBlobIdempotent(t *testing.T) {
	s := newTestStore(t)

	h1, err := s.WriteBlob([]byte("same bytes"))
	if err != nil {
		t.Fatalf("WriteBlob error: %v", err)
	}
	h2, err := s.WriteBlob([]byte("same bytes"))
	if err != nil {
		t.Fatalf("WriteBlob error: %v", err)
	}
	if h1 != h2 {
		t.Errorf("identical bytes produced different ids: %s vs %s", h1, h2)
	}

	h3, err := s.WriteBlob([]byte("different bytes"))
	if err != nil {
		t.Fatalf("WriteBlob error: %v", err)
	}
	if h3 == h1 {
		t.Error("different bytes produced the same id")
	}
}

func TestReadBlobNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ReadBlob("ce013625030ba8dba906f756967f9e9ca394464a")
	if err == nil {
		t.Fatal("ReadBlob of absent object should fail")
	}
}

func TestEmptyTreeID(t *testing.T) {
	s := newTestStore(t)

	h, err := s.WriteTree(nil)
	if err != nil {
		t.Fatalf("WriteTree error: %v", err)
	}
	// git's famous empty tree.
	if h != "4b825dc642cb6eb9a060e54bf8d69288fbee4904" {
		t.Errorf("empty tree id = %s, want 4b825dc642cb6eb9a060e54bf8d69288fbee4904", h)
	}
}

func TestTreeRoundTrip(t *testing.T) {
	s := newTestStore(t)

	blob, err := s.WriteBlob([]byte(`{"packages":{}}`))
	if err != nil {
		t.Fatalf("WriteBlob error: %v", err)
	}
	archive, err := s.WriteBlob([]byte("tarball bytes"))
	if err != nil {
		t.Fatalf("WriteBlob error: %v", err)
	}

	entries := []TreeEntry{
		{Mode: ModeFile, Name: "example-1.0.tar.gz", Hash: archive},
		{Mode: ModeFile, Name: "blueprint.json", Hash: blob},
	}
	h, err := s.WriteTree(entries)
	if err != nil {
		t.Fatalf("WriteTree error: %v", err)
	}

	// Entry order must not affect identity.
	reversed := []TreeEntry{entries[1], entries[0]}
	h2, err := s.WriteTree(reversed)
	if err != nil {
		t.Fatalf("WriteTree error: %v", err)
	}
	if h != h2 {
		t.Errorf("tree id depends on input order: %s vs %s", h, h2)
	}

	got, err := s.ReadTree(h)
	if err != nil {
		t.Fatalf("ReadTree error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadTree returned %d entries, want 2", len(got))
	}
	if got[0].Name != "blueprint.json" || got[1].Name != "example-1.0.tar.gz" {
		t.Errorf("tree entries out of canonical order: %q, %q", got[0].Name, got[1].Name)
	}
	if got[0].Hash != blob || got[1].Hash != archive {
		t.Error("tree entries lost their target hashes")
	}
	if got[0].Type() != TypeBlob {
		t.Errorf("entry type = %s, want blob", got[0].Type())
	}
}

func TestTreeSortsDirectoriesLikeGit(t *testing.T) {
	// git compares directory names with an implicit trailing slash, so
	// "sub" (tree) sorts after "sub.txt" (blob) would be wrong; the raw
	// byte '/' (0x2f) sorts between '.' (0x2e) and '0'.
	entries := []TreeEntry{
		{Mode: ModeDir, Name: "sub", Hash: "4b825dc642cb6eb9a060e54bf8d69288fbee4904"},
		{Mode: ModeFile, Name: "sub.txt", Hash: "ce013625030ba8dba906f756967f9e9ca394464a"},
		{Mode: ModeFile, Name: "sub0", Hash: "ce013625030ba8dba906f756967f9e9ca394464a"},
	}
	payload, err := encodeTree(entries)
	if err != nil {
		t.Fatalf("encodeTree error: %v", err)
	}
	decoded, err := decodeTree(payload)
	if err != nil {
		t.Fatalf("decodeTree error: %v", err)
	}
	want := []string{"sub.txt", "sub", "sub0"}
	for i, name := range want {
		if decoded[i].Name != name {
			t.Errorf("entry %d = %q, want %q", i, decoded[i].Name, name)
		}
	}
}

func TestCommitRoundTrip(t *testing.T) {
	s := newTestStore(t)

	tree, err := s.WriteTree(nil)
	if err != nil {
		t.Fatalf("WriteTree error: %v", err)
	}

	when := time.Unix(1735689600, 0).UTC()
	sig := Signature{Name: "blueprint", Email: "blueprint@localhost", When: when}
	first, err := s.WriteCommit(Commit{
		Tree:      tree,
		Author:    sig,
		Committer: sig,
		Message:   "initial snapshot",
	})
	if err != nil {
		t.Fatalf("WriteCommit error: %v", err)
	}

	second, err := s.WriteCommit(Commit{
		Tree:      tree,
		Parent:    first,
		Author:    sig,
		Committer: sig,
		Message:   "second snapshot",
	})
	if err != nil {
		t.Fatalf("WriteCommit error: %v", err)
	}

	got, err := s.ReadCommit(second)
	if err != nil {
		t.Fatalf("ReadCommit error: %v", err)
	}
	if got.Tree != tree {
		t.Errorf("Tree = %s, want %s", got.Tree, tree)
	}
	if got.Parent != first {
		t.Errorf("Parent = %s, want %s", got.Parent, first)
	}
	if got.Message != "second snapshot\n" {
		t.Errorf("Message = %q", got.Message)
	}
	if got.Author.When.Unix() != when.Unix() {
		t.Errorf("Author.When = %v, want %v", got.Author.When, when)
	}

	// First commit must decode with a zero parent.
	gotFirst, err := s.ReadCommit(first)
	if err != nil {
		t.Fatalf("ReadCommit error: %v", err)
	}
	if !gotFirst.Parent.IsZero() {
		t.Errorf("first commit parent = %s, want none", gotFirst.Parent)
	}
}

func TestReadObjectWrongType(t *testing.T) {
	s := newTestStore(t)

	h, err := s.WriteBlob([]byte("not a commit"))
	if err != nil {
		t.Fatalf("WriteBlob error: %v", err)
	}
	if _, err := s.ReadCommit(h); err == nil {
		t.Error("ReadCommit of a blob should fail")
	}
}
