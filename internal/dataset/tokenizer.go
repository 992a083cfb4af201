package dataset

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"unicode"

	"github.com/banshee-data/mrclam/internal/fsutil"
)

const maxLineBytes = 1024 * 1024

// Record is one tokenized data line.
type Record struct {
	Line   int
	Fields []string
}

// Tokenize splits a raw line into tab-separated fields. Comment lines (first
// character '#') and lines that are empty once whitespace is removed report
// ok=false. Tabs are the field separator, so every other whitespace
// character is dropped; empty fields are kept in place.
func Tokenize(line string) (rec Record, ok bool) {
	if strings.HasPrefix(line, "#") {
		return Record{}, false
	}
	stripped := strings.Map(func(r rune) rune {
		if r != '\t' && unicode.IsSpace(r) {
			return -1
		}
		return r
	}, line)
	if strings.Trim(stripped, "\t") == "" {
		return Record{}, false
	}
	return Record{Fields: strings.Split(stripped, "\t")}, true
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.Fields) }

func (r Record) field(i int) (string, error) {
	if i < 0 || i >= len(r.Fields) {
		return "", &FieldError{Line: r.Line, Index: i}
	}
	return r.Fields[i], nil
}

// Int parses field i as a base-10 integer.
func (r Record) Int(i int) (int, error) {
	s, err := r.field(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &FieldError{Line: r.Line, Index: i, Text: s, Err: err}
	}
	return v, nil
}

// Float parses field i as a float64.
func (r Record) Float(i int) (float64, error) {
	s, err := r.field(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &FieldError{Line: r.Line, Index: i, Text: s, Err: err}
	}
	return v, nil
}

// Floats parses the first n fields as float64 values.
func (r Record) Floats(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		v, err := r.Float(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// scanRecords calls fn for every data line of r, stopping at the first error.
func scanRecords(r io.Reader, fn func(Record) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		rec, ok := Tokenize(scanner.Text())
		if !ok {
			continue
		}
		rec.Line = lineNo
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: read after line %d: %w", ErrFileOpen, lineNo, err)
	}
	return nil
}

// scanFile opens path, feeds every data line to fn and closes the file on
// every exit path.
func scanFile(fsys fsutil.FileSystem, path string, fn func(Record) error) error {
	f, err := openDataFile(fsys, path)
	if err != nil {
		return err
	}
	defer f.Close()

	return scanRecords(f, fn)
}

func openDataFile(fsys fsutil.FileSystem, path string) (fs.File, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFileOpen, path, err)
	}
	return f, nil
}
