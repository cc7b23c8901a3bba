package monitor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandSource acquires snapshots by shelling out to the platform's
// route-listing command (iproute2's "ip route show"). With ipv6 enabled
// the IPv6 table is captured in the same snapshot.
type CommandSource struct {
	ipv6 bool
}

func NewCommandSource(ipv6 bool) *CommandSource {
	return &CommandSource{ipv6: ipv6}
}

func (s *CommandSource) Name() string { return "command" }

func (s *CommandSource) Acquire(ctx context.Context) (string, error) {
	ipPath, err := exec.LookPath("ip")
	if err != nil {
		return "", fmt.Errorf("ip command not found: %w", err)
	}

	out, err := runIPRoute(ctx, ipPath, "route", "show")
	if err != nil {
		return "", err
	}

	if s.ipv6 {
		out6, err := runIPRoute(ctx, ipPath, "-6", "route", "show")
		if err != nil {
			return "", err
		}
		out = strings.TrimRight(out, "\n") + "\n" + out6
	}

	return out, nil
}

func runIPRoute(ctx context.Context, ipPath string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, ipPath, args...).Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("ip %s timed out: %w", strings.Join(args, " "), ctx.Err())
		}
		return "", fmt.Errorf("ip %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}
