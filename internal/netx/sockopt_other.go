//go:build !unix

package netx

import (
	"errors"
	"net"
	"syscall"
)

func reuseAddrControl(_, _ string, _ syscall.RawConn) error { return nil }

func shutdownBoth(c net.Conn) error {
	tc, ok := c.(*net.TCPConn)
	if !ok {
		return nil
	}
	return errors.Join(tc.CloseRead(), tc.CloseWrite())
}
