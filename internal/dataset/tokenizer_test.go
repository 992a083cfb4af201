package dataset

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		ok     bool
		fields []string
	}{
		{"comment", "# Time [s]\tx [m]", false, nil},
		{"empty", "", false, nil},
		{"only spaces", "     ", false, nil},
		{"only tabs", "\t\t", false, nil},
		{"simple", "1\t5", true, []string{"1", "5"}},
		{"padded columns", "1            \t5   \r", true, []string{"1", "5"}},
		{"spaces inside field", "1 2\t3", true, []string{"12", "3"}},
		{"leading and trailing tabs", "\t1\t2\t", true, []string{"", "1", "2", ""}},
		{"hash not first", " #1\t2", true, []string{"#1", "2"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, ok := Tokenize(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.fields, rec.Fields)
				assert.Equal(t, len(tt.fields), rec.Len())
			}
		})
	}
}

func TestRecord_IntAndFloat(t *testing.T) {
	t.Parallel()

	rec, ok := Tokenize("1248272272.841\t72\t3.5\t-0.25")
	require.True(t, ok)
	rec.Line = 7

	v, err := rec.Float(0)
	require.NoError(t, err)
	assert.Equal(t, 1248272272.841, v)

	subject, err := rec.Int(1)
	require.NoError(t, err)
	assert.Equal(t, 72, subject)

	all, err := rec.Floats(4)
	require.NoError(t, err)
	assert.Equal(t, []float64{1248272272.841, 72, 3.5, -0.25}, all)
}

func TestRecord_MissingField(t *testing.T) {
	t.Parallel()

	rec, _ := Tokenize("1\t5")
	rec.Line = 3

	_, err := rec.Int(2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedField)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 3, fe.Line)
	assert.Equal(t, 2, fe.Index)
	assert.Contains(t, err.Error(), "missing")

	_, err = rec.Float(-1)
	assert.ErrorIs(t, err, ErrMalformedField)
}

func TestRecord_UnparsableField(t *testing.T) {
	t.Parallel()

	rec, _ := Tokenize("abc\t1.5\t\t")
	rec.Line = 12

	_, err := rec.Float(0)
	assert.ErrorIs(t, err, ErrMalformedField)
	assert.ErrorIs(t, err, strconv.ErrSyntax)
	assert.Contains(t, err.Error(), `"abc"`)

	// 1.5 is not an integer
	_, err = rec.Int(1)
	assert.ErrorIs(t, err, ErrMalformedField)

	// empty interior field
	_, err = rec.Float(2)
	assert.ErrorIs(t, err, ErrMalformedField)

	_, err = rec.Floats(3)
	assert.ErrorIs(t, err, ErrMalformedField)
}

func TestScanRecords_SkipsCommentsAndCountsLines(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"# header",
		"1\t5",
		"",
		"# another comment",
		"2\t14",
	}, "\n")

	var got []Record
	err := scanRecords(strings.NewReader(input), func(rec Record) error {
		got = append(got, rec)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, 5, got[1].Line)
}

func TestScanRecords_StopsAtFirstError(t *testing.T) {
	t.Parallel()

	calls := 0
	boom := errors.New("boom")
	err := scanRecords(strings.NewReader("1\n2\n3\n"), func(rec Record) error {
		calls++
		if rec.Line == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestScanRecords_LineTooLong(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("1", maxLineBytes+10)
	err := scanRecords(strings.NewReader(long), func(Record) error { return nil })
	assert.ErrorIs(t, err, ErrFileOpen)
}
