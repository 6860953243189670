// Package pack bundles a recipe corpus into a single JSON document of the
// form {"<name>": <recipe>, ...}, optionally zstd-compressed, for consumers
// that prefer one download over a directory tree.
package pack

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/matzehuels/crafttable/pkg/corpus"
	"github.com/matzehuels/crafttable/pkg/diag"
	"github.com/matzehuels/crafttable/pkg/errors"
)

// zstdMagic prefixes every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Options configures Pack.
type Options struct {
	// Compress wraps the output in a zstd stream.
	Compress bool
	// Workers bounds parallel file reads.
	Workers int
	// Sink receives a diagnostic per unreadable file.
	Sink diag.Sink
}

// Result summarizes a pack run.
type Result struct {
	Recipes int
	Bytes   int64 // bytes written to w
}

// Pack reads every recipe under dir and writes the bundle to w. Keys are
// recipe names (relative slash paths without extension) in sorted order.
// Unlike indexing, any unreadable recipe fails the pack so that a bundle
// never silently omits part of the corpus.
func Pack(ctx context.Context, dir string, w io.Writer, opts Options) (Result, error) {
	c, err := corpus.Load(ctx, dir, corpus.Options{Workers: opts.Workers, Sink: opts.Sink})
	if err != nil {
		return Result{}, err
	}
	if c.Failed > 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidRecipe, "%d recipe file(s) could not be read", c.Failed)
	}

	bundle := make(map[string]json.RawMessage, c.Len())
	for _, def := range c.Definitions {
		var buf bytes.Buffer
		if err := json.Compact(&buf, def.Raw()); err != nil {
			return Result{}, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "compact %s", def.Name)
		}
		bundle[def.Name] = buf.Bytes()
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		return Result{}, fmt.Errorf("encode bundle: %w", err)
	}

	cw := &countingWriter{w: w}
	if !opts.Compress {
		if _, err := cw.Write(data); err != nil {
			return Result{}, err
		}
		return Result{Recipes: c.Len(), Bytes: cw.n}, nil
	}

	enc, err := zstd.NewWriter(cw, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return Result{}, err
	}
	if _, err := enc.Write(data); err != nil {
		_ = enc.Close()
		return Result{}, err
	}
	if err := enc.Close(); err != nil {
		return Result{}, err
	}
	return Result{Recipes: c.Len(), Bytes: cw.n}, nil
}

// Unpack reads a bundle written by Pack, compressed or not.
func Unpack(r io.Reader) (map[string]json.RawMessage, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(zstdMagic))

	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		src = dec
	}

	var bundle map[string]json.RawMessage
	if err := json.NewDecoder(src).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	return bundle, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
