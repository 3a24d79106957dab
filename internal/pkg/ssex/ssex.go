// Package ssex reads text/event-stream bodies.
package ssex

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Event is one dispatched server-sent event. Multiple data lines are joined
// with "\n".
type Event struct {
	Name string
	Data string
}

// ErrStop may be returned by the callback to end reading early without an
// error.
var ErrStop = errors.New("ssex: stop")

// Read calls onEvent for every complete event in r. Comment lines are
// skipped and a trailing event without a blank line is still delivered.
func Read(r io.Reader, onEvent func(Event) error) error {
	br := bufio.NewReader(r)
	var (
		name      string
		dataLines []string
	)

	flush := func() error {
		if len(dataLines) == 0 {
			name = ""
			return nil
		}
		ev := Event{Name: name, Data: strings.Join(dataLines, "\n")}
		name, dataLines = "", nil
		if ev.Name == "" {
			ev.Name = "message"
		}
		if onEvent == nil {
			return nil
		}
		return onEvent(ev)
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			if ferr := flush(); ferr != nil {
				return stopped(ferr)
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}

		if eof {
			return stopped(flush())
		}
	}
}

func stopped(err error) error {
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}
