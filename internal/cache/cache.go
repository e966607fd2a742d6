// Package cache implements the typed-IR build cache (spec §4.6): a JSON
// bundle of {format, source_hash, config_hash, c_code} that lets the driver
// skip straight to C compilation when neither the sources nor the build
// configuration have changed since the last run.
package cache

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	lscerrors "github.com/linescript-lang/lsc/internal/errors"
	"github.com/linescript-lang/lsc/internal/lexer"
)

// Format is the only value Bundle.Format is ever written with; a bundle
// carrying any other value is refused on read.
const Format = "linescript-typed-ir-v1"

// zeroPos is used for cache/IO diagnostics, which have no source span of
// their own (spec §7 groups them as a distinct "IO error" kind).
var zeroPos = lexer.Position{}

// Bundle is the typed-IR cache payload: the generated C translation unit
// plus the two hashes that prove it is still valid for a given build.
type Bundle struct {
	Format     string
	SourceHash uint64
	ConfigHash uint64
	CCode      string
}

// Config is the subset of build configuration that the config hash mixes
// in, per spec §4.6: anything that changes the C toolchain invocation or
// the optimizer's pass budget invalidates a cache entry even when the
// sources are untouched.
type Config struct {
	CC        string
	Backend   string
	MaxSpeed  bool
	Passes    int
	Target    string
	Sysroot   string
	Linker    string
}

// HashSources computes the FNV-1a-64 source hash: each input path's bytes
// concatenated with the path string itself, folded in file order, so a
// rename alone (same bytes, different path) still invalidates the cache.
func HashSources(paths []string, contents [][]byte) uint64 {
	h := fnv.New64a()
	for i, p := range paths {
		h.Write([]byte(p))
		if i < len(contents) {
			h.Write(contents[i])
		}
	}
	return h.Sum64()
}

// HashConfig computes the FNV-1a-64 config hash from the fields spec §4.6
// names: the C compiler command, backend choice, max-speed flag, pass
// budget, target triple, sysroot, and linker.
func HashConfig(cfg Config) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "cc=%s\x00backend=%s\x00maxspeed=%t\x00passes=%d\x00target=%s\x00sysroot=%s\x00linker=%s",
		cfg.CC, cfg.Backend, cfg.MaxSpeed, cfg.Passes, cfg.Target, cfg.Sysroot, cfg.Linker)
	return h.Sum64()
}

// Path returns the cache file for a given config hash inside dir: one
// bundle per distinct configuration, so switching --backend or --cc does
// not thrash a single shared entry.
func Path(dir string, configHash uint64) string {
	return filepath.Join(dir, fmt.Sprintf("%016x.json", configHash))
}

// Marshal renders b as the exact four-field JSON object spec §6 requires,
// built incrementally with sjson so field order matches the spec's listing.
func Marshal(b Bundle) (string, error) {
	doc := "{}"
	var err error
	for _, set := range []struct {
		key string
		val any
	}{
		{"format", b.Format},
		{"source_hash", fmt.Sprintf("%x", b.SourceHash)},
		{"config_hash", fmt.Sprintf("%x", b.ConfigHash)},
		{"c_code", b.CCode},
	} {
		doc, err = sjson.Set(doc, set.key, set.val)
		if err != nil {
			return "", lscerrors.New(lscerrors.StageCache, zeroPos, "encode bundle field %q: %v", set.key, err)
		}
	}
	return doc, nil
}

// Unmarshal parses a typed-IR bundle, rejecting any top-level field other
// than the four spec §6 names and any bundle whose format tag doesn't
// match the version this package writes.
func Unmarshal(doc string) (Bundle, error) {
	if !gjson.Valid(doc) {
		return Bundle{}, lscerrors.New(lscerrors.StageCache, zeroPos, "malformed cache bundle: not valid JSON")
	}
	parsed := gjson.Parse(doc)
	if !parsed.IsObject() {
		return Bundle{}, lscerrors.New(lscerrors.StageCache, zeroPos, "malformed cache bundle: not a JSON object")
	}

	allowed := map[string]bool{"format": true, "source_hash": true, "config_hash": true, "c_code": true}
	var unknown string
	parsed.ForEach(func(key, _ gjson.Result) bool {
		if k := key.String(); !allowed[k] {
			unknown = k
			return false
		}
		return true
	})
	if unknown != "" {
		return Bundle{}, lscerrors.New(lscerrors.StageCache, zeroPos, "malformed cache bundle: unknown field %q", unknown)
	}

	format := parsed.Get("format").String()
	if format != Format {
		return Bundle{}, lscerrors.New(lscerrors.StageCache, zeroPos, "unsupported cache bundle format %q", format)
	}

	var sourceHash, configHash uint64
	if _, err := fmt.Sscanf(parsed.Get("source_hash").String(), "%x", &sourceHash); err != nil {
		return Bundle{}, lscerrors.New(lscerrors.StageCache, zeroPos, "malformed cache bundle: bad source_hash")
	}
	if _, err := fmt.Sscanf(parsed.Get("config_hash").String(), "%x", &configHash); err != nil {
		return Bundle{}, lscerrors.New(lscerrors.StageCache, zeroPos, "malformed cache bundle: bad config_hash")
	}

	return Bundle{
		Format:     format,
		SourceHash: sourceHash,
		ConfigHash: configHash,
		CCode:      parsed.Get("c_code").String(),
	}, nil
}

// Load reads and validates the cache entry for configHash in dir. The
// second return is false (with a nil error) when no entry exists yet, a
// plain miss rather than a failure.
func Load(dir string, configHash uint64) (Bundle, bool, error) {
	raw, err := os.ReadFile(Path(dir, configHash))
	if os.IsNotExist(err) {
		return Bundle{}, false, nil
	}
	if err != nil {
		return Bundle{}, false, lscerrors.New(lscerrors.StageIO, zeroPos, "read cache bundle: %v", err)
	}
	b, err := Unmarshal(string(raw))
	if err != nil {
		return Bundle{}, false, err
	}
	return b, true, nil
}

// Store writes b to its config-hash-named file in dir, creating dir if
// needed. Cache writes happen only after successful code generation (spec
// §4.6), so Store never needs to merge with a prior entry.
func Store(dir string, b Bundle) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return lscerrors.New(lscerrors.StageIO, zeroPos, "create cache dir: %v", err)
	}
	doc, err := Marshal(b)
	if err != nil {
		return err
	}
	if err := os.WriteFile(Path(dir, b.ConfigHash), []byte(doc), 0o644); err != nil {
		return lscerrors.New(lscerrors.StageIO, zeroPos, "write cache bundle: %v", err)
	}
	return nil
}

// Fresh reports whether a loaded bundle is still valid for the current
// source hash: any input byte changing anywhere invalidates the entry
// (spec §8 property 2), never reused partially.
func (b Bundle) Fresh(sourceHash uint64) bool {
	return b.SourceHash == sourceHash
}
