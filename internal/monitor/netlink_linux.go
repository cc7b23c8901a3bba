//go:build linux

package monitor

import (
	"context"
	"fmt"
	"strings"

	"github.com/vishvananda/netlink"
)

// NetlinkSource acquires snapshots directly from the kernel over
// rtnetlink, avoiding the subprocess the command source spawns per tick.
// Routes are rendered into iproute2-compatible text so both live sources
// feed the same parser.
type NetlinkSource struct {
	ipv6 bool
}

func NewNetlinkSource(ipv6 bool) (*NetlinkSource, error) {
	return &NetlinkSource{ipv6: ipv6}, nil
}

func (s *NetlinkSource) Name() string { return "netlink" }

func (s *NetlinkSource) Acquire(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	links, err := netlink.LinkList()
	if err != nil {
		return "", fmt.Errorf("listing links: %w", err)
	}
	ifname := make(map[int]string, len(links))
	for _, l := range links {
		attrs := l.Attrs()
		ifname[attrs.Index] = attrs.Name
	}

	families := []int{netlink.FAMILY_V4}
	if s.ipv6 {
		families = append(families, netlink.FAMILY_V6)
	}

	var b strings.Builder
	for _, family := range families {
		routes, err := netlink.RouteList(nil, family)
		if err != nil {
			return "", fmt.Errorf("listing routes: %w", err)
		}
		for i := range routes {
			writeRouteLine(&b, &routes[i], ifname)
		}
	}
	return b.String(), nil
}

func writeRouteLine(b *strings.Builder, r *netlink.Route, ifname map[int]string) {
	if r.Dst == nil {
		b.WriteString("default")
	} else {
		b.WriteString(r.Dst.String())
	}
	if r.Gw != nil {
		b.WriteString(" via ")
		b.WriteString(r.Gw.String())
	}
	name, ok := ifname[r.LinkIndex]
	if !ok {
		name = fmt.Sprintf("if%d", r.LinkIndex)
	}
	b.WriteString(" dev ")
	b.WriteString(name)
	if r.Priority > 0 {
		fmt.Fprintf(b, " metric %d", r.Priority)
	}
	b.WriteByte('\n')
}
