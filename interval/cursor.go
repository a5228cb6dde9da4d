package interval

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/logic-fault/arabidopsis-project/feature"
	"github.com/logic-fault/arabidopsis-project/internal/tokens"
	"github.com/pkg/errors"
)

// ErrBeginningOfFile is returned by Cursor.SeekToPreviousLine when there is
// no line before the given position.
var ErrBeginningOfFile = errors.New("interval: beginning of file")

// backBlockSize is the read size used when scanning backward for a line
// terminator.
const backBlockSize = 4096

// Record is one database line: "name chromosome start end", with 1-based
// closed coordinates. Extra columns are ignored.
type Record struct {
	Name  string
	Chrom string
	Start feature.PosType
	End   feature.PosType
}

// Contains reports whether pos on chrom lies within the record.
func (r Record) Contains(chrom string, pos feature.PosType) bool {
	return feature.CompareChrom(r.Chrom, chrom) == 0 && r.Start <= pos && pos <= r.End
}

// ParseError describes a database line that could not be parsed. The cursor
// has already moved past the line when it is returned.
type ParseError struct {
	// Pos is the byte offset of the line.
	Pos  int64
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("interval: malformed line at offset %d %q: %v", e.Pos, e.Line, e.Err)
}

// Cursor reads a line-oriented database forward and steps backward by raw
// byte offsets. It is not thread safe.
type Cursor struct {
	r  io.ReadSeeker
	br *bufio.Reader
	// pos is the logical offset of the next byte br returns.
	pos int64
	// lineStart is the offset of the line most recently returned (or
	// rejected) by ReadForward.
	lineStart int64
	tokens    [4][]byte
	block     []byte
}

// NewCursor creates a Cursor positioned at the current offset of r, which is
// assumed to be 0.
func NewCursor(r io.ReadSeeker) *Cursor {
	return &Cursor{r: r, br: bufio.NewReader(r)}
}

// Pos returns the offset ReadForward will read from next.
func (c *Cursor) Pos() int64 { return c.pos }

// SetPos moves the cursor to an absolute offset, which should be the start of
// a line.
func (c *Cursor) SetPos(pos int64) error {
	if _, err := c.r.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	c.br.Reset(c.r)
	c.pos = pos
	return nil
}

// ReadForward returns the record on the next non-blank line. It returns
// io.EOF when the data is exhausted, and a *ParseError when the line has
// fewer than four tokens or unparsable coordinates.
func (c *Cursor) ReadForward() (Record, error) {
	for {
		c.lineStart = c.pos
		line, err := c.br.ReadBytes('\n')
		c.pos += int64(len(line))
		if len(line) == 0 {
			if err == nil {
				err = io.EOF
			}
			return Record{}, err
		}
		if err != nil && err != io.EOF {
			return Record{}, err
		}
		n := tokens.Get(c.tokens[:], line)
		if n == 0 {
			continue
		}
		if n < len(c.tokens) {
			return Record{}, c.parseError(line, errors.Errorf("expected 4 tokens, found %d", n))
		}
		start, perr := strconv.ParseUint(gunsafe.BytesToString(c.tokens[2]), 10, 32)
		if perr != nil {
			return Record{}, c.parseError(line, perr)
		}
		end, perr := strconv.ParseUint(gunsafe.BytesToString(c.tokens[3]), 10, 32)
		if perr != nil {
			return Record{}, c.parseError(line, perr)
		}
		return Record{
			Name:  string(c.tokens[0]),
			Chrom: string(c.tokens[1]),
			Start: feature.PosType(start),
			End:   feature.PosType(end),
		}, nil
	}
}

func (c *Cursor) parseError(line []byte, err error) *ParseError {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return &ParseError{Pos: c.lineStart, Line: string(line), Err: err}
}

// SeekToPreviousLine moves the cursor to the start of the line preceding the
// line that starts at pos, and returns that offset. The terminator of the
// preceding line (the byte at pos-1) is skipped and the data is scanned
// backward for the next '\n'; if none is found the preceding line is the
// first line of the file and 0 is returned. ErrBeginningOfFile is returned
// when pos is 0.
func (c *Cursor) SeekToPreviousLine(pos int64) (int64, error) {
	if pos <= 0 {
		return 0, ErrBeginningOfFile
	}
	if c.block == nil {
		c.block = make([]byte, backBlockSize)
	}
	end := pos
	first := true
	for end > 0 {
		begin := end - int64(len(c.block))
		if begin < 0 {
			begin = 0
		}
		buf := c.block[:end-begin]
		if _, err := c.r.Seek(begin, io.SeekStart); err != nil {
			return 0, err
		}
		if _, err := io.ReadFull(c.r, buf); err != nil {
			return 0, errors.Wrapf(err, "interval: reading [%d,%d)", begin, end)
		}
		i := len(buf) - 1
		if first {
			first = false
			if buf[i] == '\n' {
				i--
			}
		}
		for ; i >= 0; i-- {
			if buf[i] == '\n' {
				prev := begin + int64(i) + 1
				return prev, c.SetPos(prev)
			}
		}
		end = begin
	}
	return 0, c.SetPos(0)
}
