package level

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/ianaindex"
)

// File is a level loaded from disk.
type File struct {
	Path  string
	Level *Level
}

// Feed reads the XML document from r and delivers its events to ld in
// document order.
//
// Precondition: ld must not have started a document yet.
// Postcondition: Returns nil and leaves the built level in ld.Level(), or a
// non-nil error.
func (ld *Loader) Feed(r io.Reader) error {
	if err := ld.StartDocument(); err != nil {
		return err
	}

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	elements := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("decoding level XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			elements++
			ld.StartElement(t.Name.Local, attributesOf(t.Attr))
		case xml.EndElement:
			ld.EndElement(t.Name.Local)
		case xml.CharData:
			ld.Characters(string(t))
		}
	}
	if elements == 0 {
		return errors.New("level document has no root element")
	}

	ld.EndDocument()
	return nil
}

// Decode parses one level document from r.
//
// Postcondition: Returns a non-nil Level or a non-nil error.
func Decode(r io.Reader, opts ...Option) (*Level, error) {
	ld := NewLoader(opts...)
	if err := ld.Feed(r); err != nil {
		return nil, err
	}
	return ld.Level(), nil
}

// LoadFromBytes parses one level document held in memory.
func LoadFromBytes(data []byte, opts ...Option) (*Level, error) {
	return Decode(bytes.NewReader(data), opts...)
}

// LoadFromFile reads and parses a single level file.
//
// Precondition: path must point to a level document.
// Postcondition: Returns a non-nil Level or a non-nil error.
func LoadFromFile(path string, opts ...Option) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening level file %s: %w", path, err)
	}
	defer f.Close()

	lvl, err := Decode(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing level file %s: %w", path, err)
	}
	return lvl, nil
}

// LoadDir loads every level file in dir. Files are parsed concurrently,
// each with its own Loader, and returned in directory order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all levels or the first error encountered.
func LoadDir(ctx context.Context, dir string, opts ...Option) ([]*File, error) {
	o := newOptions(opts)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading level directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && IsLevelFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no level files found in %s", dir)
	}

	files := make([]*File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fileOpts := append(opts[:len(opts):len(opts)],
				WithLogger(o.logger.With(zap.String("file", filepath.Base(path)))))
			lvl, err := LoadFromFile(path, fileOpts...)
			if err != nil {
				return err
			}
			files[i] = &File{Path: path, Level: lvl}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// IsLevelFile reports whether name has a level document extension.
func IsLevelFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".smclvl", ".xml":
		return true
	}
	return false
}

func attributesOf(attrs []xml.Attr) Attributes {
	a := make(Attributes, len(attrs))
	for _, attr := range attrs {
		a[attr.Name.Local] = attr.Value
	}
	return a
}

// charsetReader lets the decoder read documents declaring a non UTF-8
// encoding, as older editors wrote them.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported level encoding %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported level encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
