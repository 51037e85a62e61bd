// Copyright (c) 2025 Neomantra Corp

// Package source is the on-disk and remote input collaborator described
// in spec §6.1: it turns a path (a plain NDJSON file, or one compressed
// with gzip/zstd, or packed in a tar/zip archive) into a stream of
// io.Reader values the core decoder can consume. The core never imports
// this package; it depends only on io.Reader.
package source

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Entry is one NDJSON stream discovered within a path: either the file
// itself, or one member of an archive. Name is a diagnostic label
// (typically "archive.tar:markets/1.1.json") suitable for ParseError's
// Path field.
type Entry struct {
	Name   string
	Reader io.Reader
	closer io.Closer
}

// Close releases any resources (open files, archive readers) backing
// this entry. Safe to call on a zero-value Entry.
func (e *Entry) Close() error {
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}

// Open returns the NDJSON entries contained at path: a single entry for
// a plain or compressed file, or one entry per member for a tar/zip
// archive. Decompression layers (gzip, zstd, bzip2) are detected by file
// extension and applied transparently, including to members inside an
// archive.
func Open(path string) ([]Entry, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".tar") || strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") || strings.HasSuffix(lower, ".tar.bz2"):
		return openTar(path)
	case strings.HasSuffix(lower, ".zip"):
		return openZip(path)
	default:
		r, err := openPlain(path)
		if err != nil {
			return nil, err
		}
		return []Entry{*r}, nil
	}
}

// openPlain opens path and layers a decompressor over it if its
// extension names one.
func openPlain(path string) (*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := decompressLayer(path, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Entry{Name: path, Reader: r, closer: f}, nil
}

// decompressLayer wraps r in a decompressing reader chosen by fileName's
// extension, or returns r unchanged if no known compression suffix
// matches.
func decompressLayer(fileName string, r io.Reader) (io.Reader, error) {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".zst") || strings.HasSuffix(lower, ".zstd"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return zr.IOReadCloser(), nil
	case strings.HasSuffix(lower, ".gz") || strings.HasSuffix(lower, ".tgz"):
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return gr, nil
	case strings.HasSuffix(lower, ".bz2"):
		return bzip2.NewReader(r), nil
	default:
		return r, nil
	}
}

// openTar walks a (possibly gzip/bzip2-compressed) tar archive, yielding
// one Entry per regular file member.
func openTar(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	raw, err := decompressLayer(path, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	tr := tar.NewReader(raw)

	var entries []Entry
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("tar %s: %w", path, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		buf, err := io.ReadAll(tr)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("tar %s entry %s: %w", path, hdr.Name, err)
		}
		member, err := decompressLayer(hdr.Name, bytes.NewReader(buf))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("tar %s entry %s: %w", path, hdr.Name, err)
		}
		entries = append(entries, Entry{
			Name:   path + ":" + hdr.Name,
			Reader: member,
		})
	}
	// Archive members were fully buffered above; the archive handle
	// itself can close immediately.
	f.Close()
	return entries, nil
}

// openZip opens a zip archive, yielding one Entry per regular file
// member. Unlike tar, zip requires random access so the whole file is
// opened via zip.OpenReader rather than streamed.
func openZip(path string) ([]Entry, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("zip %s: %w", path, err)
	}

	var entries []Entry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			zr.Close()
			return nil, fmt.Errorf("zip %s entry %s: %w", path, f.Name, err)
		}
		buf, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			zr.Close()
			return nil, fmt.Errorf("zip %s entry %s: %w", path, f.Name, err)
		}
		member, err := decompressLayer(f.Name, bytes.NewReader(buf))
		if err != nil {
			zr.Close()
			return nil, fmt.Errorf("zip %s entry %s: %w", path, f.Name, err)
		}
		entries = append(entries, Entry{
			Name:   path + ":" + f.Name,
			Reader: member,
		})
	}
	zr.Close()
	return entries, nil
}

// BaseName is a small helper the cmd/ tools use to label log output with
// just the file name, not its full (possibly archive-relative) path.
func BaseName(entryName string) string {
	return filepath.Base(strings.SplitN(entryName, ":", 2)[0])
}

// MakeCompressedWriter returns an io.Writer for filename (os.Stdout if
// filename is "-") and a closing function to defer. If filename ends in
// ".zst"/".zstd", or useZstd is true, the writer zstd-compresses its
// output.
func MakeCompressedWriter(filename string, useZstd bool) (io.Writer, func(), error) {
	var writer io.Writer
	var closer io.Closer
	fileCloser := func() {
		if closer != nil {
			closer.Close()
		}
	}
	if filename != "-" {
		file, err := os.Create(filename)
		if err != nil {
			return nil, nil, err
		}
		writer, closer = file, file
	} else {
		writer, closer = os.Stdout, nil
	}

	if useZstd || strings.HasSuffix(filename, ".zst") || strings.HasSuffix(filename, ".zstd") {
		zw, err := zstd.NewWriter(writer)
		if err != nil {
			fileCloser()
			return nil, nil, err
		}
		return zw, func() { zw.Close(); fileCloser() }, nil
	}
	return writer, fileCloser, nil
}
