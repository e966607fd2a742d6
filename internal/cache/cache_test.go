package cache

import (
	"path/filepath"
	"testing"
)

func TestHashSourcesDependsOnContentAndPath(t *testing.T) {
	a := HashSources([]string{"main.lsc"}, [][]byte{[]byte("fn main() {}")})
	b := HashSources([]string{"main.lsc"}, [][]byte{[]byte("fn main() {}")})
	if a != b {
		t.Fatalf("identical inputs hashed differently: %d != %d", a, b)
	}

	renamed := HashSources([]string{"other.lsc"}, [][]byte{[]byte("fn main() {}")})
	if renamed == a {
		t.Fatalf("hash ignored the file path")
	}

	edited := HashSources([]string{"main.lsc"}, [][]byte{[]byte("fn main() { println(1) }")})
	if edited == a {
		t.Fatalf("hash ignored the file content")
	}
}

func TestHashConfigDependsOnEveryField(t *testing.T) {
	base := Config{CC: "clang", Backend: "auto", Passes: 2}
	variants := []Config{
		{CC: "gcc", Backend: "auto", Passes: 2},
		{CC: "clang", Backend: "c", Passes: 2},
		{CC: "clang", Backend: "auto", Passes: 3},
		{CC: "clang", Backend: "auto", Passes: 2, MaxSpeed: true},
		{CC: "clang", Backend: "auto", Passes: 2, Target: "x86_64-linux-gnu"},
		{CC: "clang", Backend: "auto", Passes: 2, Sysroot: "/opt/sysroot"},
		{CC: "clang", Backend: "auto", Passes: 2, Linker: "lld"},
	}
	baseHash := HashConfig(base)
	for i, v := range variants {
		if HashConfig(v) == baseHash {
			t.Errorf("variant %d collided with base config hash", i)
		}
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	want := Bundle{
		Format:     Format,
		SourceHash: 0xdeadbeef,
		ConfigHash: 0xfeedface,
		CCode:      "int main(void) { return 0; }\n",
	}
	doc, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(doc)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestUnmarshalRejectsWrongFormat(t *testing.T) {
	doc, err := Marshal(Bundle{Format: "something-else", CCode: "x"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, err := Unmarshal(doc); err == nil {
		t.Fatal("expected an error for an unrecognized bundle format")
	}
}

func TestStoreLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	bundle := Bundle{Format: Format, SourceHash: 1, ConfigHash: 2, CCode: "void f(void) {}\n"}

	if err := Store(dir, bundle); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, ok, err := Load(dir, bundle.ConfigHash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit after Store")
	}
	if got != bundle {
		t.Fatalf("loaded bundle mismatch: got %+v, want %+v", got, bundle)
	}
	if !got.Fresh(bundle.SourceHash) {
		t.Fatal("Fresh should report true for the matching source hash")
	}
	if got.Fresh(bundle.SourceHash + 1) {
		t.Fatal("Fresh should report false for a different source hash")
	}
}

func TestLoadMissReturnsNoError(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := Load(dir, 0x1234)
	if err != nil {
		t.Fatalf("Load on an empty cache dir should not error: %v", err)
	}
	if ok {
		t.Fatal("expected a cache miss in an empty directory")
	}
}

func TestPathIsDeterministic(t *testing.T) {
	p1 := Path("/cache", 42)
	p2 := Path("/cache", 42)
	if p1 != p2 {
		t.Fatalf("Path is not deterministic: %q != %q", p1, p2)
	}
	if filepath.Dir(p1) != "/cache" {
		t.Fatalf("Path did not respect the given directory: %q", p1)
	}
}
