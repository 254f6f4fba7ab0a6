package blueprint

import (
	"bytes"
	"testing"

	"github.com/jodiecunningham/blueprint/pkg/errors"
	"github.com/jodiecunningham/blueprint/pkg/gitstore"
)

func newTestStore(t *testing.T) *gitstore.Store {
	t.Helper()
	s, err := gitstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	b := sampleBlueprint()

	commit, err := b.Save(s, "initial snapshot")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if b.Commit != commit {
		t.Errorf("Save should record the commit on the document")
	}

	// Resolve the ref, load the commit's tree, decode the blob.
	resolved, err := s.ResolveRef("web1")
	if err != nil {
		t.Fatalf("ResolveRef error: %v", err)
	}
	if resolved != commit {
		t.Errorf("ref points at %s, want %s", resolved, commit)
	}

	loaded, err := Load(s, "web1")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !loaded.Equal(b) {
		t.Error("loaded document differs from saved document")
	}
	if loaded.Name != "web1" {
		t.Errorf("Name = %q, want web1", loaded.Name)
	}
	if loaded.Commit != commit {
		t.Errorf("Commit = %s, want %s", loaded.Commit, commit)
	}
	if !bytes.Equal(loaded.SourceData["app-1.0.tar.gz"], []byte("tarball")) {
		t.Errorf("source archive bytes lost: %q", loaded.SourceData["app-1.0.tar.gz"])
	}
}

func TestSaveLinksParentCommits(t *testing.T) {
	s := newTestStore(t)

	b := New("web1")
	b.AddPackage("apt", "curl", "7.1")
	first, err := b.Save(s, "first")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	b.AddPackage("apt", "wget", "1.12")
	second, err := b.Save(s, "second")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	c, err := s.ReadCommit(second)
	if err != nil {
		t.Fatalf("ReadCommit error: %v", err)
	}
	if c.Parent != first {
		t.Errorf("Parent = %s, want %s", c.Parent, first)
	}

	// The older snapshot stays loadable by explicit commit.
	old, err := LoadCommit(s, "web1", first)
	if err != nil {
		t.Fatalf("LoadCommit error: %v", err)
	}
	if _, ok := old.Packages["apt"]["wget"]; ok {
		t.Error("old snapshot should not contain the later package")
	}
}

func TestSaveUnchangedDocumentDeduplicates(t *testing.T) {
	s := newTestStore(t)

	b := New("web1")
	b.AddPackage("apt", "curl", "7.1")
	if _, err := b.Save(s, "first"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	first, err := Load(s, "web1")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if _, err := first.Save(s, "second"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	second, err := Load(s, "web1")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	// Same content, new commit, identical underlying tree.
	c1, err := s.ReadCommit(first.Commit)
	if err != nil {
		t.Fatalf("ReadCommit error: %v", err)
	}
	c2, err := s.ReadCommit(second.Commit)
	if err != nil {
		t.Fatalf("ReadCommit error: %v", err)
	}
	if c1.Tree != c2.Tree {
		t.Errorf("unchanged content produced different trees: %s vs %s", c1.Tree, c2.Tree)
	}
}

func TestLoadMissingBlueprint(t *testing.T) {
	s := newTestStore(t)
	_, err := Load(s, "missing")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load = %v, want NOT_FOUND", err)
	}
}

func TestSaveRequiresName(t *testing.T) {
	s := newTestStore(t)
	b := New("")
	if _, err := b.Save(s, "msg"); err == nil {
		t.Error("Save of unnamed blueprint should fail")
	}
}

func TestSaveRequiresSourceData(t *testing.T) {
	s := newTestStore(t)
	b := New("web1")
	b.Sources["/usr/local"] = "app.tar.gz"
	// No SourceData for the archive.
	if _, err := b.Save(s, "msg"); err == nil {
		t.Error("Save with missing archive bytes should fail")
	}
}

func TestListAndDestroy(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"web1", "db1"} {
		b := New(name)
		b.AddPackage("apt", "curl", "7.1")
		if _, err := b.Save(s, "snapshot"); err != nil {
			t.Fatalf("Save(%s) error: %v", name, err)
		}
	}

	names, err := List(s)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(names) != 2 || names[0] != "db1" || names[1] != "web1" {
		t.Errorf("List = %v", names)
	}

	if err := Destroy(s, "db1"); err != nil {
		t.Fatalf("Destroy error: %v", err)
	}
	if err := Destroy(s, "db1"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second Destroy = %v, want NOT_FOUND", err)
	}

	names, err = List(s)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(names) != 1 || names[0] != "web1" {
		t.Errorf("List after destroy = %v", names)
	}
}
