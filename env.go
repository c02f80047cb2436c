package seal

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxFrameLen bounds a single input frame. A state-proof bundle for one
// block fits comfortably; anything larger is a malformed length prefix.
const maxFrameLen = 256 << 20

// Env is the guest's view of the invocation's input and output channels.
// Reads are ordered and positional; Commit is the single terminal write.
type Env interface {
	// ReadFrame reads one length-prefixed frame from the input channel.
	ReadFrame() ([]byte, error)

	// ReadBytes reads exactly n raw bytes from the input channel.
	ReadBytes(n int) ([]byte, error)

	// ReadUint32 reads a little-endian unsigned 32-bit value.
	ReadUint32() (uint32, error)

	// Commit writes the computation's sole output. It must be called at
	// most once; a second call is an error.
	Commit(output []byte) error
}

// StdEnv adapts an io.Reader/io.Writer pair to the Env interface. Frames are
// prefixed with a little-endian uint32 length; the committed output is
// written raw.
type StdEnv struct {
	r         io.Reader
	w         io.Writer
	committed bool
}

// NewStdEnv creates an Env reading guest input from r and committing the
// journal to w.
func NewStdEnv(r io.Reader, w io.Writer) *StdEnv {
	return &StdEnv{r: r, w: w}
}

// ReadFrame reads a little-endian uint32 length followed by that many bytes.
func (e *StdEnv) ReadFrame() ([]byte, error) {
	n, err := e.ReadUint32()
	if err != nil {
		return nil, err
	}
	if n > maxFrameLen {
		return nil, fmt.Errorf("env: frame length %d exceeds limit", n)
	}
	return e.ReadBytes(int(n))
}

// ReadBytes reads exactly n bytes, failing on truncated input.
func (e *StdEnv) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(e.r, buf); err != nil {
		return nil, fmt.Errorf("env: read %d bytes: %w", n, err)
	}
	return buf, nil
}

// ReadUint32 reads a little-endian uint32.
func (e *StdEnv) ReadUint32() (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(e.r, buf[:]); err != nil {
		return 0, fmt.Errorf("env: read uint32: %w", err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Commit writes the output exactly once.
func (e *StdEnv) Commit(output []byte) error {
	if e.committed {
		return fmt.Errorf("env: output already committed")
	}
	if _, err := e.w.Write(output); err != nil {
		return fmt.Errorf("env: commit output: %w", err)
	}
	e.committed = true
	return nil
}

// WriteFrame writes a length-prefixed frame in the layout ReadFrame expects.
// Hosts use it to assemble guest input.
func WriteFrame(w io.Writer, b []byte) error {
	if len(b) > maxFrameLen {
		return fmt.Errorf("env: frame length %d exceeds limit", len(b))
	}
	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(b)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("env: write frame prefix: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("env: write frame body: %w", err)
	}
	return nil
}

// WriteUint32 writes a little-endian uint32 in the layout ReadUint32 expects.
func WriteUint32(w io.Writer, n uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], n)
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("env: write uint32: %w", err)
	}
	return nil
}
