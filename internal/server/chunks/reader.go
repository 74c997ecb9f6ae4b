package chunks

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/filedrophq/filedrop/internal/common"
)

// ReassemblyError reports chunk data running out before the declared
// upload size was reached. It signals a corrupt or incomplete set of chunk
// files and is distinct from ordinary I/O errors: callers must surface it,
// never swallow it.
type ReassemblyError struct {
	// TotalSize is the declared size of the upload in bytes.
	TotalSize int64
	// Offset is the position at which reading stopped.
	Offset int64
}

func (e *ReassemblyError) Error() string {
	return fmt.Sprintf("chunk data exhausted at offset %d before reaching the declared size of %d bytes", e.Offset, e.TotalSize)
}

// Reader presents the ordered concatenation of an upload session's chunk
// files as a single readable byte stream. It never holds more than one
// read-buffer's worth of data in memory.
//
// A Reader tracks its position as a cumulative offset (bytes already
// delivered) and a 1-indexed current chunk pointer. It must be opened with
// Open before any read.
type Reader struct {
	dir       string
	fileID    string
	numChunks int
	totalSize int64
	name      string

	// firstChunk is the path of chunk file 1. Clearing it makes the
	// reader permanently unopenable.
	firstChunk string

	file   *os.File
	chunk  int
	offset int64
}

// NewReader builds a Reader over the chunk files of one upload session.
// The first chunk file must exist: a reader over zero chunks is
// meaningless.
func NewReader(dir, fileID string, numChunks int, totalSize int64, name string) (*Reader, error) {
	first := filepath.Join(dir, FileName(fileID, 1))
	if _, err := os.Stat(first); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("chunk file %s: %w", FileName(fileID, 1), common.ErrorNotFound)
		}
		return nil, err
	}
	return &Reader{
		dir:        dir,
		fileID:     fileID,
		numChunks:  numChunks,
		totalSize:  totalSize,
		name:       name,
		firstChunk: first,
		chunk:      1,
	}, nil
}

// Name returns the original client-supplied filename of the upload.
func (r *Reader) Name() string { return r.name }

// TotalSize returns the declared size of the upload in bytes.
func (r *Reader) TotalSize() int64 { return r.totalSize }

// Offset returns the number of bytes delivered so far.
func (r *Reader) Offset() int64 { return r.offset }

// MultipleChunks reports whether reads of readSize would span more than
// one block. The backing store is never a single contiguous file, so the
// answer is true for every read size.
func (r *Reader) MultipleChunks(readSize int64) bool { return true }

// Open positions the reader at chunk 1, offset 0, opening the first chunk
// file. Opening an already-open reader closes the previous handle first.
func (r *Reader) Open() error {
	if r.firstChunk == "" {
		return fmt.Errorf("chunked reader cannot be reopened: %w", common.ErrorInvalidState)
	}
	if r.file != nil {
		r.file.Close()
		r.file = nil
	}
	f, err := os.Open(r.firstChunk)
	if err != nil {
		return err
	}
	r.file = f
	r.chunk = 1
	r.offset = 0
	return nil
}

// Close releases the currently open chunk file, if any.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Size sums the on-disk sizes of all chunk files. It does not consult the
// declared total size, so callers can compare the two.
func (r *Reader) Size() (int64, error) {
	var total int64
	for i := 1; i <= r.numChunks; i++ {
		fi, err := os.Stat(filepath.Join(r.dir, FileName(r.fileID, i)))
		if err != nil {
			return 0, fmt.Errorf("unable to determine the size of chunk %d: %v", i, err)
		}
		total += fi.Size()
	}
	return total, nil
}

// advance closes the current chunk file and opens the next one.
func (r *Reader) advance() error {
	r.file.Close()
	r.file = nil
	r.chunk++
	f, err := os.Open(filepath.Join(r.dir, FileName(r.fileID, r.chunk)))
	if err != nil {
		return err
	}
	r.file = f
	return nil
}

// Read fills p with up to len(p) bytes, crossing chunk-file boundaries as
// needed. Zero-length chunk files are legal and contribute no bytes. Once
// the delivered offset reaches the declared total size, Read returns
// io.EOF; if every chunk file is exhausted first, Read returns a
// *ReassemblyError.
func (r *Reader) Read(p []byte) (int, error) {
	if r.file == nil {
		return 0, fmt.Errorf("read on a chunked reader that is not open: %w", common.ErrorInvalidState)
	}
	if r.offset >= r.totalSize {
		return 0, io.EOF
	}

	filled := 0
	for filled < len(p) && r.offset < r.totalSize {
		n, err := r.file.Read(p[filled:])
		filled += n
		r.offset += int64(n)
		if err != nil && err != io.EOF {
			return filled, err
		}
		if err == io.EOF || n == 0 {
			// Current chunk file is drained; move on or stop.
			if r.chunk >= r.numChunks {
				break
			}
			if aerr := r.advance(); aerr != nil {
				return filled, aerr
			}
		}
	}

	if filled == 0 {
		if r.offset < r.totalSize {
			return 0, &ReassemblyError{TotalSize: r.totalSize, Offset: r.offset}
		}
		return 0, io.EOF
	}
	return filled, nil
}

// ChunkIterator yields successive blocks of a fixed read size from a
// Reader. It is finite and not restartable: obtain a fresh iterator via
// Chunks to read the stream again.
type ChunkIterator struct {
	r        *Reader
	readSize int64
}

// Next returns the next block. Every block is exactly the configured read
// size except the final one, which may be shorter. io.EOF signals a clean
// end of the stream; a *ReassemblyError signals chunk files running out
// before the declared total size.
func (it *ChunkIterator) Next() ([]byte, error) {
	buf := make([]byte, it.readSize)
	n, err := it.r.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Chunks prepares a full pass over the stream in blocks of readSize bytes.
// If the reader is positioned at chunk 1, the open handle is rewound to
// the start; otherwise chunk 1 is reopened. Either way the pass starts at
// offset 0.
func (r *Reader) Chunks(readSize int64) (*ChunkIterator, error) {
	if r.file == nil {
		return nil, fmt.Errorf("chunks requested on a chunked reader that is not open: %w", common.ErrorInvalidState)
	}
	if r.chunk == 1 {
		// The tracked offset must stay in sync with the file position, so
		// a failed seek is fatal.
		if _, err := r.file.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewinding chunk 1: %w", err)
		}
		r.offset = 0
	} else {
		r.file.Close()
		r.file = nil
		f, err := os.Open(r.firstChunk)
		if err != nil {
			return nil, err
		}
		r.file = f
		r.chunk = 1
		r.offset = 0
	}
	return &ChunkIterator{r: r, readSize: readSize}, nil
}
