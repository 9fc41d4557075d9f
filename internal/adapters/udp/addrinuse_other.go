//go:build !unix && !windows

package udp

func isAddrInUse(err error) bool {
	return false
}
