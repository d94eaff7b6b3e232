package ioutils

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// OpenMaybeCompressed opens a file path and returns a reader. If the input
// appears to be gzip (by extension or magic), it wraps with gzip. A missing
// path is reported as a *janitor.LoadError wrapping janitor.ErrNotFound.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &j.LoadError{Path: path, Err: j.ErrNotFound}
		}
		return nil, &j.LoadError{Path: path, Err: err}
	}
	br := bufio.NewReader(f)
	b, err := br.Peek(2)
	gz := filepath.Ext(path) == ".gz" || (err == nil && b[0] == 0x1f && b[1] == 0x8b)
	if !gz {
		return readCloser{Reader: br, closeFn: f.Close}, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		_ = f.Close()
		return nil, &j.LoadError{Path: path, Err: err}
	}
	return readCloser{Reader: zr, closeFn: func() error { _ = zr.Close(); return f.Close() }}, nil
}

// CreateAtomic returns a writer for path that only becomes visible at path
// when Close succeeds. Data goes to a temporary file in the same directory
// which is renamed over path on Close; Abort discards it. A .gz path is
// gzip compressed.
func CreateAtomic(path string) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, &j.WriteError{Path: path, Err: err}
	}
	a := &AtomicFile{path: path, tmp: tmp, buf: bufio.NewWriter(tmp)}
	a.w = a.buf
	if filepath.Ext(path) == ".gz" {
		a.zw = gzip.NewWriter(a.buf)
		a.w = a.zw
	}
	return a, nil
}

type AtomicFile struct {
	path string
	tmp  *os.File
	buf  *bufio.Writer
	zw   *gzip.Writer
	w    io.Writer
	done bool
}

func (a *AtomicFile) Write(p []byte) (int, error) { return a.w.Write(p) }

// Close flushes, syncs and renames the temporary file over the destination.
// On any failure the temporary file is removed and a *janitor.WriteError returned.
func (a *AtomicFile) Close() error {
	if a.done {
		return nil
	}
	a.done = true
	if err := a.commit(); err != nil {
		_ = a.tmp.Close()
		_ = os.Remove(a.tmp.Name())
		return &j.WriteError{Path: a.path, Err: err}
	}
	return nil
}

func (a *AtomicFile) commit() error {
	if a.zw != nil {
		if err := a.zw.Close(); err != nil {
			return err
		}
	}
	if err := a.buf.Flush(); err != nil {
		return err
	}
	if err := a.tmp.Sync(); err != nil {
		return err
	}
	if err := a.tmp.Close(); err != nil {
		return err
	}
	return os.Rename(a.tmp.Name(), a.path)
}

// Abort discards everything written so far. It is a no-op after Close.
func (a *AtomicFile) Abort() {
	if a.done {
		return
	}
	a.done = true
	_ = a.tmp.Close()
	_ = os.Remove(a.tmp.Name())
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error {
	if r.closeFn != nil {
		return r.closeFn()
	}
	return errors.New("no closeFn")
}
