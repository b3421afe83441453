package writer

import (
	"io"
	"os"

	"github.com/google/renameio"

	"github.com/JeffersonLab/evio-sub004/errs"
)

// target is the byte sink a Writer streams into. Both the file and buffer
// variants support absolute-offset writes so Close can back-patch the file
// header's trailer position and bit-info once the trailer's true offset is
// known, the same after-the-fact patch original_source's Writer performs
// with an fseek/fwrite pair.
type target interface {
	io.Writer
	WriteAt(p []byte, off int64) (int, error)
	finalize() error
	abandon()
}

// fileTarget writes through a renameio.PendingFile so a Writer's output
// only ever appears at its final path once Close succeeds; any error before
// that leaves the destination untouched (distr1-distri/internal/build/
// build.go's squashfs-writer use of the same package).
type fileTarget struct {
	pf *renameio.PendingFile
}

func openFileTarget(path string, overwriteOK bool) (*fileTarget, error) {
	if !overwriteOK {
		if _, err := os.Stat(path); err == nil {
			return nil, errs.ErrFileExists
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	pf, err := renameio.TempFile("", path)
	if err != nil {
		return nil, err
	}

	return &fileTarget{pf: pf}, nil
}

func (t *fileTarget) Write(p []byte) (int, error) { return t.pf.Write(p) }

func (t *fileTarget) WriteAt(p []byte, off int64) (int, error) { return t.pf.WriteAt(p, off) }

func (t *fileTarget) finalize() error { return t.pf.CloseAtomicallyReplace() }

func (t *fileTarget) abandon() { _ = t.pf.Cleanup() }

// bufferTarget backs an in-memory Writer target; WriteAt only ever patches
// bytes already appended by Write, matching the Writer's own patch-after-
// append usage.
type bufferTarget struct {
	buf []byte
}

func (t *bufferTarget) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)

	return len(p), nil
}

func (t *bufferTarget) WriteAt(p []byte, off int64) (int, error) {
	end := int(off) + len(p)
	if off < 0 || end > len(t.buf) {
		return 0, errs.ErrOverflow
	}
	copy(t.buf[off:end], p)

	return len(p), nil
}

func (t *bufferTarget) finalize() error { return nil }

func (t *bufferTarget) abandon() {}

func (t *bufferTarget) Bytes() []byte { return t.buf }
