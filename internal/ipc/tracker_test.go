package ipc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/studiowebux/eshutdown/internal/message"
)

type countingRaiser struct {
	calls int
}

func (r *countingRaiser) BringToFrontOrShow() {
	r.calls++
}

var power = []byte("Power")

func TestTracker_AccumulatesChunksInOrder(t *testing.T) {
	r := &countingRaiser{}
	tr := NewTracker(power, 0, r)

	tr.Connect(1, Peer{})
	chunks := [][]byte{[]byte("a"), {}, []byte("bcd"), nil, []byte("ef")}
	for _, c := range chunks {
		if err := tr.Receive(1, c); err != nil {
			t.Fatalf("Receive() error = %v", err)
		}
	}

	c, ok := tr.Get(1)
	if !ok {
		t.Fatal("connection 1 should be tracked")
	}
	if c.State != StateOpen {
		t.Errorf("State = %v, want open", c.State)
	}
	if !bytes.Equal(c.Buffer.Bytes(), []byte("abcdef")) {
		t.Errorf("buffer = %q, want %q", c.Buffer.Bytes(), "abcdef")
	}
}

func TestTracker_ExactMatchTrigger(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   bool
	}{
		{"exact", []string{"Power"}, true},
		{"split", []string{"Pow", "er"}, true},
		{"byte by byte", []string{"P", "o", "w", "e", "r"}, true},
		{"trailing space", []string{"Power "}, false},
		{"lower case", []string{"power"}, false},
		{"empty", nil, false},
		{"doubled", []string{"Power", "Power"}, false},
		{"suffix after match", []string{"Power", "!"}, false},
		{"prefix only", []string{"Po"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &countingRaiser{}
			tr := NewTracker(power, 0, r)

			tr.Connect(7, Peer{})
			for _, c := range tt.chunks {
				tr.Receive(7, []byte(c))
			}
			res := tr.Disconnect(7)

			if res.Triggered != tt.want {
				t.Errorf("Triggered = %v, want %v", res.Triggered, tt.want)
			}
			wantCalls := 0
			if tt.want {
				wantCalls = 1
			}
			if r.calls != wantCalls {
				t.Errorf("raiser calls = %d, want %d", r.calls, wantCalls)
			}
			if tr.Len() != 0 {
				t.Errorf("Len() = %d after disconnect, want 0", tr.Len())
			}
		})
	}
}

func TestTracker_ConnectionIsolation(t *testing.T) {
	r := &countingRaiser{}
	tr := NewTracker(power, 0, r)

	tr.Connect(1, Peer{})
	tr.Connect(2, Peer{})

	tr.Receive(2, []byte("Po"))
	tr.Receive(1, []byte("Power"))

	res := tr.Disconnect(1)
	if !res.Triggered || r.calls != 1 {
		t.Fatalf("client 1 should trigger once, got triggered=%v calls=%d", res.Triggered, r.calls)
	}

	c2, ok := tr.Get(2)
	if !ok {
		t.Fatal("client 2 should still be open")
	}
	if !bytes.Equal(c2.Buffer.Bytes(), []byte("Po")) {
		t.Errorf("client 2 buffer = %q, want %q", c2.Buffer.Bytes(), "Po")
	}

	tr.Receive(2, []byte("wer"))
	res = tr.Disconnect(2)
	if !res.Triggered {
		t.Error("client 2 should trigger with final content Power")
	}
	if r.calls != 2 {
		t.Errorf("raiser calls = %d, want 2", r.calls)
	}
}

func TestTracker_DataAfterCloseIsViolation(t *testing.T) {
	r := &countingRaiser{}
	tr := NewTracker(power, 0, r)

	tr.Connect(3, Peer{})
	tr.Receive(3, []byte("Power"))
	tr.Disconnect(3)

	err := tr.Receive(3, []byte("Power"))
	if !errors.Is(err, ErrUnknownConn) {
		t.Errorf("Receive() after close error = %v, want ErrUnknownConn", err)
	}

	err = tr.Receive(99, []byte("x"))
	if !errors.Is(err, ErrUnknownConn) {
		t.Errorf("Receive() on never-opened conn error = %v, want ErrUnknownConn", err)
	}

	if r.calls != 1 {
		t.Errorf("raiser calls = %d, want 1", r.calls)
	}
}

func TestTracker_DisconnectBeforeConnect(t *testing.T) {
	r := &countingRaiser{}
	tr := NewTracker(power, 0, r)

	res := tr.Disconnect(5)
	if res.Known {
		t.Error("Known should be false for an untracked connection")
	}
	if res.Triggered || r.calls != 0 {
		t.Error("disconnect without data must not trigger")
	}
}

func TestTracker_EvaluatesOnlyOnce(t *testing.T) {
	r := &countingRaiser{}
	tr := NewTracker(power, 0, r)

	tr.Connect(1, Peer{})
	tr.Receive(1, power)
	tr.Disconnect(1)
	tr.Disconnect(1)

	if r.calls != 1 {
		t.Errorf("raiser calls = %d, want 1", r.calls)
	}
}

func TestTracker_Limit(t *testing.T) {
	r := &countingRaiser{}
	tr := NewTracker(power, 8, r)

	tr.Connect(1, Peer{})
	if err := tr.Receive(1, []byte("PowerPow")); err != nil {
		t.Fatalf("Receive() within limit error = %v", err)
	}
	err := tr.Receive(1, []byte("er"))
	if !errors.Is(err, message.ErrTooLarge) {
		t.Fatalf("Receive() past limit error = %v, want ErrTooLarge", err)
	}

	res := tr.Disconnect(1)
	if !res.Overflowed {
		t.Error("Overflowed should be reported")
	}
	if res.Triggered {
		t.Error("overflowed message must not trigger")
	}
}

func TestTracker_Handle(t *testing.T) {
	r := &countingRaiser{}
	tr := NewTracker(power, 0, r)

	events := []Event{
		Connected{ID: 1},
		DataReceived{ID: 1, Data: []byte("Pow")},
		DataReceived{ID: 1, Data: []byte("er")},
	}
	for _, ev := range events {
		if _, done, err := tr.Handle(ev); done || err != nil {
			t.Fatalf("Handle(%T) done=%v err=%v", ev, done, err)
		}
	}

	res, done, err := tr.Handle(Disconnected{ID: 1})
	if err != nil || !done {
		t.Fatalf("Handle(Disconnected) done=%v err=%v", done, err)
	}
	if !res.Triggered || res.Length != 5 {
		t.Errorf("Result = %+v, want triggered with length 5", res)
	}
}

func TestTracker_ControlIsCopied(t *testing.T) {
	control := []byte("Power")
	tr := NewTracker(control, 0, nil)
	control[0] = 'X'

	if !bytes.Equal(tr.Control(), []byte("Power")) {
		t.Errorf("Control() = %q, want Power", tr.Control())
	}
}
