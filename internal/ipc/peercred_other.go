//go:build !linux

package ipc

import (
	"errors"
	"net"
)

func peerCredentials(conn *net.UnixConn) (Peer, error) {
	return Peer{}, errors.New("peer credentials not supported on this platform")
}
