// Package convert runs block-to-JSON conversions over files, one task
// per input.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dzjyyds666/tomljson/parse/block"
	"github.com/dzjyyds666/tomljson/pkg"
	"golang.org/x/sync/errgroup"
)

var (
	ErrMissingArguments = errors.New("no input files provided")
	ErrFileNotFound     = errors.New("file does not exist")
	ErrIO               = errors.New("i/o failure")
)

// Options controls how files are converted.
type Options struct {
	Indent    string
	Extension string
	// FailFast cancels pending conversions after the first failure.
	// Otherwise every file is attempted and all failures are reported.
	FailFast bool
	// Workers bounds concurrent conversions. Zero means one per file.
	Workers int
	Logger  *slog.Logger
}

// DefaultOptions returns two-space indentation and the .json extension.
func DefaultOptions() Options {
	return Options{Indent: "  ", Extension: ".json"}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FileError is a failure converting one input file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Result describes a written output file.
type Result struct {
	Path   string
	Output string
	Blocks int
}

// Convert reads a whole source from r and writes its JSON form to w.
func Convert(r io.Reader, w io.Writer, indent string) (*block.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	doc, err := block.ParseString("", string(src))
	if err != nil {
		return nil, err
	}
	out, err := doc.JSON(indent)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return doc, nil
}

// File converts the file at path and writes the result next to it. The
// output is only written once the whole document has been validated.
func File(ctx context.Context, path string, opts Options) (Result, error) {
	log := opts.logger().With("path", path)
	fail := func(err error) (Result, error) {
		log.Debug("conversion failed", "err", err)
		return Result{}, &FileError{Path: path, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	exist, err := pkg.CheckFileExist(path)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrIO, err))
	}
	if !exist {
		return fail(ErrFileNotFound)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrIO, err))
	}

	output := pkg.OutputPath(path, opts.Extension)
	if output == path {
		return fail(fmt.Errorf("output %s would overwrite the input", output))
	}

	var buf bytes.Buffer
	doc, err := Convert(bytes.NewReader(src), &buf, opts.Indent)
	if err != nil {
		return fail(err)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if err := pkg.WriteFileAtomic(output, buf.Bytes(), 0o644); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrIO, err))
	}

	log.Info("converted", "output", output, "blocks", len(doc.Blocks))
	return Result{Path: path, Output: output, Blocks: len(doc.Blocks)}, nil
}

// Run converts every path concurrently. Files share nothing, so a failing
// file never affects the output of another unless FailFast is set, in
// which case conversions that have not written yet are abandoned.
//
// The returned results cover the files that were written, in input order.
func Run(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	if len(paths) == 0 {
		return nil, ErrMissingArguments
	}

	g := &errgroup.Group{}
	gctx := ctx
	if opts.FailFast {
		g, gctx = errgroup.WithContext(ctx)
	}
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}

	results := make([]Result, len(paths))
	errs := make([]error, len(paths))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			results[i], errs[i] = File(gctx, p, opts)
			if opts.FailFast {
				return errs[i]
			}
			return nil
		})
	}
	first := g.Wait()

	written := make([]Result, 0, len(paths))
	for i := range results {
		if errs[i] == nil {
			written = append(written, results[i])
		}
	}
	if opts.FailFast {
		return written, first
	}
	return written, errors.Join(errs...)
}
