package power

import (
	"context"
	"errors"
	"testing"
)

type fakeSwitch struct {
	name  string
	err   error
	calls int
}

func (f *fakeSwitch) Name() string { return f.name }

func (f *fakeSwitch) PowerOff(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestNew(t *testing.T) {
	tests := []struct {
		method   string
		wantName string
		wantErr  bool
	}{
		{"", "logind+command", false},
		{"auto", "logind+command", false},
		{"logind", "logind", false},
		{"Command", "command", false},
		{"dry-run", "dry-run", false},
		{"halt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			sw, err := New(tt.method)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.method, err, tt.wantErr)
			}
			if err == nil && sw.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", sw.Name(), tt.wantName)
			}
		})
	}
}

func TestChain_StopsAtFirstSuccess(t *testing.T) {
	first := &fakeSwitch{name: "a", err: errors.New("denied")}
	second := &fakeSwitch{name: "b"}
	third := &fakeSwitch{name: "c"}

	if err := (Chain{first, second, third}).PowerOff(context.Background()); err != nil {
		t.Fatalf("PowerOff() error = %v", err)
	}
	if first.calls != 1 || second.calls != 1 || third.calls != 0 {
		t.Errorf("calls = %d/%d/%d, want 1/1/0", first.calls, second.calls, third.calls)
	}
}

func TestChain_AllFail(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	err := (Chain{&fakeSwitch{name: "a", err: errA}, &fakeSwitch{name: "b", err: errB}}).PowerOff(context.Background())

	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("PowerOff() error = %v, want both causes", err)
	}
	if err := (Chain{}).PowerOff(context.Background()); err == nil {
		t.Error("empty chain should fail")
	}
}

func TestCommand(t *testing.T) {
	ok := &Command{Path: "true"}
	if err := ok.PowerOff(context.Background()); err != nil {
		t.Errorf("PowerOff() with true error = %v", err)
	}

	fail := &Command{Path: "false"}
	if err := fail.PowerOff(context.Background()); err == nil {
		t.Error("PowerOff() with false should fail")
	}
}

func TestDryRun(t *testing.T) {
	d := &DryRun{}
	d.PowerOff(context.Background())
	d.PowerOff(context.Background())
	if d.Calls != 2 {
		t.Errorf("Calls = %d, want 2", d.Calls)
	}
}
