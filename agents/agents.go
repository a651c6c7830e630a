/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package agents holds the reference clue-giver and guesser. Both play at
// random; they exist to exercise the referee, not to win.
package agents

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

var errClosed = errors.New("referee closed the pipe")

type lineReader struct {
	scanner *bufio.Scanner
}

func newLineReader(r io.Reader) *lineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	return &lineReader{scanner: scanner}
}

func (l *lineReader) next() (string, error) {
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", err
		}
		return "", errClosed
	}
	return l.scanner.Text(), nil
}

func writeLine(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format+"\n", args...)
	return err
}

func nopLogf(string, ...any) {}

// closed maps the referee hanging up to a clean exit.
func closed(err error) error {
	if errors.Is(err, errClosed) {
		return nil
	}
	return err
}
