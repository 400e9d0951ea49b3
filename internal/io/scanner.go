package io

import (
	"bufio"
	"fmt"
	"io"
)

// errMalformed marks a record whose quoting could not be parsed. The scanner
// resynchronizes at the next terminator, so the caller may keep reading.
type errMalformed struct {
	line int
	msg  string
}

func (e *errMalformed) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.msg)
}

// recordScanner splits CSV input into records. Quoted fields may hold the
// delimiter, the terminator and doubled quotes. Blank lines are skipped.
type recordScanner struct {
	r     *bufio.Reader
	delim byte
	quote byte
	term  byte
	line  int
}

func newRecordScanner(r io.Reader, options CSVOptions) *recordScanner {
	return &recordScanner{
		r:     bufio.NewReaderSize(r, 64*1024),
		delim: options.Delimiter,
		quote: options.Quote,
		term:  options.Terminator,
	}
}

// next returns the next non-blank record and the line it started on. It
// returns io.EOF once the input is exhausted and *errMalformed for a record
// that must be dropped.
func (s *recordScanner) next() ([]string, int, error) {
	for {
		fields, line, blank, err := s.record()
		if err != nil {
			return nil, line, err
		}
		if !blank {
			return fields, line, nil
		}
	}
}

func (s *recordScanner) record() (fields []string, line int, blank bool, err error) {
	var (
		field     []byte
		inQuotes  bool
		wasQuoted bool
		sawByte   bool
		bad       error
	)
	s.line++
	line = s.line

	for {
		b, readErr := s.r.ReadByte()
		if readErr == io.EOF {
			if !sawByte {
				return nil, line, false, io.EOF
			}
			if inQuotes {
				return nil, line, false, &errMalformed{line: line, msg: "unterminated quoted field"}
			}
			fields = append(fields, string(field))
			return fields, line, s.isBlank(fields, wasQuoted), bad
		}
		if readErr != nil {
			return nil, line, false, readErr
		}
		sawByte = true

		if inQuotes {
			if b != s.quote {
				if b == '\n' {
					s.line++
				}
				field = append(field, b)
				continue
			}
			if peek, _ := s.r.Peek(1); len(peek) == 1 && peek[0] == s.quote {
				_, _ = s.r.ReadByte()
				field = append(field, s.quote)
				continue
			}
			inQuotes = false
			continue
		}

		switch {
		case b == s.quote && len(field) == 0 && !wasQuoted:
			inQuotes, wasQuoted = true, true
		case b == s.delim:
			fields = append(fields, string(field))
			field = field[:0]
			wasQuoted = false
		case s.terminates(b):
			fields = append(fields, string(field))
			return fields, line, s.isBlank(fields, wasQuoted), bad
		default:
			if wasQuoted && bad == nil {
				bad = &errMalformed{line: line, msg: fmt.Sprintf("unexpected %q after closing quote", b)}
			}
			field = append(field, b)
		}
	}
}

// terminates reports whether b ends a record, consuming the LF of a CRLF pair.
func (s *recordScanner) terminates(b byte) bool {
	if s.term != 0 {
		return b == s.term
	}
	switch b {
	case '\n':
		return true
	case '\r':
		if peek, _ := s.r.Peek(1); len(peek) == 1 && peek[0] == '\n' {
			_, _ = s.r.ReadByte()
		}
		return true
	}
	return false
}

func (s *recordScanner) isBlank(fields []string, quoted bool) bool {
	return len(fields) == 1 && fields[0] == "" && !quoted
}
