//go:build !linux

package monitor

import (
	"context"
	"errors"
)

// NetlinkSource is only available on Linux; rtnetlink does not exist
// elsewhere. Selecting it in the config on another platform is a startup
// error; the command source works everywhere ip(8) does.
type NetlinkSource struct{}

func NewNetlinkSource(bool) (*NetlinkSource, error) {
	return nil, errors.New("netlink source is only supported on linux")
}

func (s *NetlinkSource) Name() string { return "netlink" }

func (s *NetlinkSource) Acquire(context.Context) (string, error) {
	return "", errors.New("netlink source is only supported on linux")
}
