package ssex

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRead(t *testing.T) {
	body := ": keepalive\n" +
		"event:chunk\ndata:{\"text\":\"a\"}\n\n" +
		"event: chunk\r\ndata: line1\r\ndata: line2\r\n\r\n" +
		"data:plain\n\n" +
		"event:done\ndata:{}"

	var got []Event
	if err := Read(strings.NewReader(body), func(ev Event) error {
		got = append(got, ev)
		return nil
	}); err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []Event{
		{Name: "chunk", Data: `{"text":"a"}`},
		{Name: "chunk", Data: "line1\nline2"},
		{Name: "message", Data: "plain"},
		{Name: "done", Data: "{}"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestReadStopAndError(t *testing.T) {
	body := "event:a\ndata:1\n\nevent:b\ndata:2\n\n"
	n := 0
	err := Read(strings.NewReader(body), func(Event) error {
		n++
		return ErrStop
	})
	if err != nil || n != 1 {
		t.Fatalf("expected clean stop after one event, n=%d err=%v", n, err)
	}

	boom := errors.New("boom")
	err = Read(strings.NewReader(body), func(Event) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
