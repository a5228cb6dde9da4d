package interval

import (
	"io"
	"strings"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestReadForward(t *testing.T) {
	c := NewCursor(strings.NewReader("isle1\tChr1\t100\t200\textra\n\n  \nisle2 Chr1 300\nisle3\tChr1\tx\t400\nisle4\tChr2\t50\t60"))
	rec, err := c.ReadForward()
	assert.NoError(t, err)
	expect.EQ(t, rec, Record{Name: "isle1", Chrom: "Chr1", Start: 100, End: 200})
	expect.EQ(t, c.Pos(), int64(25))

	_, err = c.ReadForward()
	perr, ok := err.(*ParseError)
	assert.True(t, ok, "got %v", err)
	expect.EQ(t, perr.Pos, int64(29))
	expect.EQ(t, perr.Line, "isle2 Chr1 300")

	_, err = c.ReadForward()
	_, ok = err.(*ParseError)
	assert.True(t, ok, "got %v", err)

	rec, err = c.ReadForward()
	assert.NoError(t, err)
	expect.EQ(t, rec.Name, "isle4")
	_, err = c.ReadForward()
	expect.EQ(t, err, io.EOF)
}

func TestSeekToPreviousLine(t *testing.T) {
	long := strings.Repeat("x", 3*backBlockSize+17)
	tests := []struct {
		data string
		from int64
		want []int64
	}{
		{"a\nbb\nccc\n", 9, []int64{5, 2, 0}},
		{"a\nbb\nccc", 8, []int64{5, 2, 0}},
		{"a\nbb\nccc\n", 2, []int64{0}},
		{"\n\nz\n", 4, []int64{2, 1, 0}},
		{long + "\n" + long + "\n", int64(2*len(long) + 2), []int64{int64(len(long) + 1), 0}},
	}
	for _, test := range tests {
		c := NewCursor(strings.NewReader(test.data))
		pos := test.from
		for _, want := range test.want {
			got, err := c.SeekToPreviousLine(pos)
			assert.NoError(t, err)
			expect.EQ(t, got, want, "data %.10q from %d", test.data, pos)
			expect.EQ(t, c.Pos(), want)
			pos = got
		}
		_, err := c.SeekToPreviousLine(pos)
		expect.EQ(t, err, ErrBeginningOfFile)
	}
}

func TestSeekThenRead(t *testing.T) {
	c := NewCursor(strings.NewReader("isle1 Chr1 1 2\nisle2 Chr1 3 4\n"))
	for {
		if _, err := c.ReadForward(); err != nil {
			expect.EQ(t, err, io.EOF)
			break
		}
	}
	pos, err := c.SeekToPreviousLine(c.Pos())
	assert.NoError(t, err)
	expect.EQ(t, pos, int64(15))
	rec, err := c.ReadForward()
	assert.NoError(t, err)
	expect.EQ(t, rec.Name, "isle2")
}

func TestSetPos(t *testing.T) {
	c := NewCursor(strings.NewReader("isle1 Chr1 1 2\nisle2 Chr1 3 4\n"))
	_, err := c.ReadForward()
	assert.NoError(t, err)
	assert.NoError(t, c.SetPos(15))
	expect.EQ(t, c.Pos(), int64(15))
	rec, err := c.ReadForward()
	assert.NoError(t, err)
	expect.EQ(t, rec.Name, "isle2")

	assert.NoError(t, c.SetPos(0))
	rec, err = c.ReadForward()
	assert.NoError(t, err)
	expect.EQ(t, rec.Name, "isle1")
}
