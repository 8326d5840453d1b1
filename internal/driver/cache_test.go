package driver

import (
	"path/filepath"
	"testing"

	"beanstalk/internal/source"
	"beanstalk/internal/token"
)

func TestHashFilesStableAndSensitive(t *testing.T) {
	mk := func(text string) []FileInput {
		return []FileInput{{
			Path:    "main.bs",
			Tokens:  &token.Stream{File: source.FileID(1), Tokens: []token.Token{{Kind: token.KwFn, Text: text}}},
			IsEntry: true,
		}}
	}

	a := HashFiles(mk("fn"))
	b := HashFiles(mk("fn"))
	if a != b {
		t.Fatalf("expected identical inputs to hash identically")
	}

	c := HashFiles(mk("fn2"))
	if a == c {
		t.Fatalf("expected different token text to change the hash")
	}
}

func TestDiskCachePutGetRoundTrip(t *testing.T) {
	dc, err := OpenDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	key := Digest{1, 2, 3}
	payload := &CachePayload{Schema: diskCacheSchemaVersion, ContentHash: key, FunctionCount: 3, DiagCount: 1}
	if err := dc.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := dc.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if got.FunctionCount != 3 || got.DiagCount != 1 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestDiskCacheMiss(t *testing.T) {
	dc, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	_, ok, err := dc.Get(Digest{9, 9, 9})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected a cache miss on an unwritten key")
	}
}
