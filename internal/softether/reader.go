package softether

import (
	"context"
	"fmt"
	"time"
)

// DefaultTimeout bounds a single vpncmd invocation so one hung hub cannot
// stall a whole refresh cycle.
const DefaultTimeout = 30 * time.Second

// Reader queries hub status through the vpncmd command line tool.
type Reader struct {
	vpncmd        string
	server        string
	adminPassword string
	timeout       time.Duration
	runner        Runner
}

// Option configures a Reader.
type Option func(*Reader)

// WithRunner replaces the command runner, mainly for tests.
func WithRunner(r Runner) Option {
	return func(rd *Reader) { rd.runner = r }
}

// WithTimeout bounds each vpncmd invocation. Zero or negative keeps the
// default.
func WithTimeout(d time.Duration) Option {
	return func(rd *Reader) {
		if d > 0 {
			rd.timeout = d
		}
	}
}

// NewReader creates a Reader that talks to the given server using the
// vpncmd binary at the given path.
func NewReader(vpncmd, server, adminPassword string, opts ...Option) *Reader {
	r := &Reader{
		vpncmd:        vpncmd,
		server:        server,
		adminPassword: adminPassword,
		timeout:       DefaultTimeout,
		runner:        OSRunner{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HubStatus runs "vpncmd ... /CMD StatusGet" for the named hub and parses
// the CSV output. hubPassword is used when no administrator password is
// configured.
func (r *Reader) HubStatus(ctx context.Context, hub, hubPassword string) (HubStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	password := r.adminPassword
	if password == "" {
		password = hubPassword
	}

	args := []string{
		r.server,
		"/SERVER",
		"/ADMINHUB:" + hub,
		"/PASSWORD:" + password,
		"/CSV",
		"/CMD", "StatusGet",
	}

	out, err := r.runner.Output(ctx, r.vpncmd, args...)
	if err != nil {
		return HubStatus{}, fmt.Errorf("vpncmd StatusGet for hub %q: %w", hub, err)
	}

	status, err := ParseStatus(out)
	if err != nil {
		return HubStatus{}, fmt.Errorf("parse StatusGet output for hub %q: %w", hub, err)
	}
	return status, nil
}
