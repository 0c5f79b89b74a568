// Package netinfo reports the address viewers on the local network
// should dial.
package netinfo

import "net"

// LocalIP returns the machine's primary outbound IPv4 address, falling
// back to loopback when no interface is up. The UDP dial never sends a
// packet; it only asks the kernel for a route.
func LocalIP() string {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}
	return addr.IP.String()
}
