package softether

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeRunner records invocations and returns canned output.
type fakeRunner struct {
	calls [][]string
	out   []byte
	err   error
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.out, f.err
}

func TestReaderHubStatus(t *testing.T) {
	runner := &fakeRunner{out: []byte(statusGetOutput)}
	r := NewReader("/usr/bin/vpncmd", "vpn.example.com:443", "secret", WithRunner(runner))

	status, err := r.HubStatus(context.Background(), "HUB1", "")
	if err != nil {
		t.Fatalf("HubStatus() error = %v", err)
	}
	if !status.Online {
		t.Error("Online = false, want true")
	}
	if status.Sessions != 3 {
		t.Errorf("Sessions = %v, want 3", status.Sessions)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("len(calls) = %d, want 1", len(runner.calls))
	}
	want := []string{
		"/usr/bin/vpncmd",
		"vpn.example.com:443",
		"/SERVER",
		"/ADMINHUB:HUB1",
		"/PASSWORD:secret",
		"/CSV",
		"/CMD", "StatusGet",
	}
	got := runner.calls[0]
	if len(got) != len(want) {
		t.Fatalf("call = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReaderHubPasswordFallback(t *testing.T) {
	runner := &fakeRunner{out: []byte(statusGetOutput)}
	r := NewReader("vpncmd", "localhost", "", WithRunner(runner))

	if _, err := r.HubStatus(context.Background(), "HUB1", "hubpw"); err != nil {
		t.Fatalf("HubStatus() error = %v", err)
	}
	found := false
	for _, arg := range runner.calls[0] {
		if arg == "/PASSWORD:hubpw" {
			found = true
		}
	}
	if !found {
		t.Errorf("call %v missing /PASSWORD:hubpw", runner.calls[0])
	}
}

func TestReaderCommandError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1: connection refused")}
	r := NewReader("vpncmd", "localhost", "pw", WithRunner(runner))

	if _, err := r.HubStatus(context.Background(), "HUB1", ""); err == nil {
		t.Error("HubStatus() error = nil, want error")
	}
}

func TestReaderUnparsableOutput(t *testing.T) {
	runner := &fakeRunner{out: []byte("garbage\n")}
	r := NewReader("vpncmd", "localhost", "pw", WithRunner(runner))

	_, err := r.HubStatus(context.Background(), "HUB1", "")
	if !errors.Is(err, ErrNoStatus) {
		t.Errorf("HubStatus() error = %v, want ErrNoStatus", err)
	}
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	r := NewReader("vpncmd", "localhost", "", WithTimeout(0))
	if r.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", r.timeout, DefaultTimeout)
	}
	r = NewReader("vpncmd", "localhost", "", WithTimeout(5*time.Second))
	if r.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", r.timeout)
	}
}
