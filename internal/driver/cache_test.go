package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDiskCacheReplaysDiagnostics(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/main.circ": "fn main() -> Field {}\nfn g(x: Field) { let y: u8 = x; }\n",
	})
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache}

	first, err := CheckDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached || first.Bag.Len() == 0 {
		t.Fatalf("first run: cached=%v diagnostics=%d", first.Cached, first.Bag.Len())
	}

	second, err := CheckDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || second.Table != nil {
		t.Fatal("second run must come from the cache")
	}
	if short(second) != short(first) {
		t.Fatalf("replayed diagnostics differ:\n%s\nvs\n%s", short(second), short(first))
	}

	if err := os.WriteFile(filepath.Join(root, "src", "main.circ"), []byte("fn main() {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	third, err := CheckDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached || third.Bag.Len() != 0 {
		t.Fatalf("edited source must miss the cache: cached=%v\n%s", third.Cached, short(third))
	}
}

func TestDiskCacheKeyDependsOnRoot(t *testing.T) {
	root := writeTree(t, map[string]string{"src/main.circ": "fn main() {}\n"})
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := CheckDir(context.Background(), root, Options{Cache: cache}); err != nil {
		t.Fatal(err)
	}
	res, err := CheckDir(context.Background(), root, Options{Cache: cache, Root: "core"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Fatal("a different trusted root must not reuse the entry")
	}
}

func TestDiskCacheMissAndDrop(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var key Digest
	key[0] = 1
	if _, ok, err := cache.Get(key); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	if err := cache.Put(key, &Payload{Schema: diskCacheSchemaVersion, Files: []string{"src/main.circ"}}); err != nil {
		t.Fatal(err)
	}
	got, ok, err := cache.Get(key)
	if err != nil || !ok || len(got.Files) != 1 {
		t.Fatalf("get after put: %+v %v %v", got, ok, err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := cache.Get(key); ok {
		t.Fatal("entry survived DropAll")
	}

	var nilCache *DiskCache
	if err := nilCache.Put(key, &Payload{}); err != nil {
		t.Fatal(err)
	}
}
