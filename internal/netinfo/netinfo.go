// Package netinfo discovers the address participants should use to reach the
// server, for the presenter's server-info message and QR code.
package netinfo

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

const fallbackIP = "127.0.0.1"

// LocalIPv4 returns the first non-loopback IPv4 address of an interface that is up.
func LocalIPv4() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return fallbackIP
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		if ip := firstIPv4(addrs); ip != "" {
			return ip
		}
	}
	return fallbackIP
}

func firstIPv4(addrs []net.Addr) string {
	for _, addr := range addrs {
		var ip net.IP
		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() {
			return ip4.String()
		}
	}
	return ""
}

// Origin returns publicURL when set, otherwise http://<host>:<port> where host
// is the bind address or, for wildcard binds, the discovered LAN address.
func Origin(publicURL, bind string, port int) string {
	if publicURL != "" {
		return strings.TrimSuffix(publicURL, "/")
	}
	host := bind
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = LocalIPv4()
	}
	u := url.URL{Scheme: "http", Host: net.JoinHostPort(host, strconv.Itoa(port))}
	return u.String()
}
