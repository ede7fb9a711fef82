package extract

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	odigest "github.com/opencontainers/go-digest"
	"github.com/ulikunitz/xz"

	"github.com/SemClone/binarysniffer/internal/normalize"
)

// MaxRecursionDepth is spec.md §4.1's "recursion cap 5".
const MaxRecursionDepth = 5

// MaxArchiveMembers is spec.md §6's default "recursion-cap" pairing, the
// per-archive file-count cap (default 10,000).
const MaxArchiveMembers = 10000

// member is one decompressed archive entry, ready for recursive dispatch.
type member struct {
	name string
	data []byte
}

// Walk enumerates an archive's members in lexicographic path order
// (spec.md §4.2 "Enumerates members in sorted order") and recursively
// extracts features from each, honoring limits.MaxDepth and
// limits.MaxMembers (spec.md §6's caller-tunable "RecursionCap"/
// "MaxArchiveFiles"). Each member is first offered to manifestFeatures;
// a member it recognizes contributes only its manifest features.
func Walk(ctx context.Context, t FileType, data []byte, basePath string, depth int, limits Limits) ([]normalize.Raw, error) {
	return walk(ctx, t, data, basePath, depth, limits, make(map[odigest.Digest]struct{}))
}

// walk is Walk's recursive worker. seen tracks every member's content
// digest (spec.md §4.1's archive-member identity) across one Walk call's
// whole recursion tree, so a member byte-identical to one already visited
// — a duplicate vendored copy, or a self-referential nested archive — is
// extracted once rather than reprocessed on every occurrence.
func walk(ctx context.Context, t FileType, data []byte, basePath string, depth int, limits Limits, seen map[odigest.Digest]struct{}) ([]normalize.Raw, error) {
	if depth > limits.MaxDepth {
		return nil, nil
	}
	members, err := listMembers(t, data)
	if err != nil {
		return nil, fmt.Errorf("extract: listing %s members: %w", t, err)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].name < members[j].name })
	if limits.MaxMembers > 0 && len(members) > limits.MaxMembers {
		members = members[:limits.MaxMembers]
	}

	var out []normalize.Raw
	for _, m := range members {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}
		relPath := path.Join(basePath, m.name)

		d := odigest.FromBytes(m.data)
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}

		if feats := manifestFeatures(m.name, m.data); feats != nil {
			out = append(out, feats...)
			continue
		}

		sub := Sniff(m.name, m.data)
		if sub.Archive() {
			nested, err := walk(ctx, sub, m.data, relPath, depth+1, limits, seen)
			if err == nil {
				out = append(out, nested...)
			}
			continue
		}
		res, err := Extract(ctx, m.name, m.data, relPath, limits)
		if err != nil {
			continue // one member's failure never aborts the archive (spec.md §7)
		}
		out = append(out, res.Features...)
	}
	return out, nil
}

// singleNativeMember reports whether a zip's only member is itself a
// native binary (spec.md §4.5 step 4's inner-ecosystem NativeOnly case).
// Directory entries don't count as members, so a zip holding exactly one
// file plus arbitrary directory entries still qualifies.
func singleNativeMember(data []byte) bool {
	members, err := listZip(data)
	if err != nil || len(members) != 1 {
		return false
	}
	return Sniff(members[0].name, members[0].data).Native()
}

func listMembers(t FileType, data []byte) ([]member, error) {
	switch t {
	case TypeZip:
		return listZip(data)
	case TypeDeb:
		// a .deb is an ar(1) archive wrapping debian-binary, control.tar.*,
		// and data.tar.* members, not a zip.
		return arListMembers(data)
	case TypeTar:
		return listTar(bytes.NewReader(data))
	case TypeGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return listTar(r)
	case TypeBzip2:
		return listTar(bzip2.NewReader(bytes.NewReader(data)))
	case TypeXz:
		r, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return listTar(r)
	case TypeZstd:
		r, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return listTar(r)
	case TypeAR:
		return arListMembers(data)
	case TypeCPIO:
		return parseCPIO(data)
	}
	return nil, nil
}

func listZip(data []byte) ([]member, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	var out []member
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		b, err := io.ReadAll(io.LimitReader(rc, 64<<20))
		rc.Close()
		if err != nil {
			continue
		}
		out = append(out, member{name: f.Name, data: b})
	}
	return out, nil
}

func listTar(r io.Reader) ([]member, error) {
	tr := tar.NewReader(r)
	var out []member
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, nil
		}
		if h.Typeflag != tar.TypeReg {
			continue
		}
		b, err := io.ReadAll(io.LimitReader(tr, 64<<20))
		if err != nil {
			continue
		}
		out = append(out, member{name: h.Name, data: b})
	}
	return out, nil
}
