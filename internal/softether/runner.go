package softether

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner abstracts command execution so the reader can be unit-tested
// without a real vpncmd binary or VPN server.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// OSRunner executes commands on the host via os/exec.
type OSRunner struct{}

func (OSRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
