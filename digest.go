package binarysniffer

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"io"
)

// FileDigests holds the optional content digests requested via
// [Options.IncludeHashes] (spec.md §6 "Optional file metadata").
type FileDigests struct {
	MD5    string
	SHA1   string
	SHA256 string
}

// computeDigests streams r through the three content hashes in a single
// pass (spec.md §6's "Optional file metadata"). The Determinism Layer's
// own content-addressed identity for archive members, computed the same
// way via [github.com/opencontainers/go-digest], lives in
// internal/extract/archive.go rather than here.
func computeDigests(r io.Reader) (FileDigests, error) {
	md5h := md5.New()
	sha1h := sha1.New()
	sha256h := sha256.New()
	mw := io.MultiWriter(md5h, sha1h, sha256h)
	if _, err := io.Copy(mw, r); err != nil {
		return FileDigests{}, fmt.Errorf("binarysniffer: hashing input: %w", err)
	}
	return FileDigests{
		MD5:    fmt.Sprintf("%x", md5h.Sum(nil)),
		SHA1:   fmt.Sprintf("%x", sha1h.Sum(nil)),
		SHA256: fmt.Sprintf("%x", sha256h.Sum(nil)),
	}, nil
}
