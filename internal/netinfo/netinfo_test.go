package netinfo

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrigin(t *testing.T) {
	assert.Equal(t, "https://quiz.example.com", Origin("https://quiz.example.com/", "0.0.0.0", 3000))
	assert.Equal(t, "http://10.1.2.3:3000", Origin("", "10.1.2.3", 3000))
	assert.NotEmpty(t, Origin("", "0.0.0.0", 3000))
}

func TestFirstIPv4SkipsLoopbackAndIPv6(t *testing.T) {
	addrs := []net.Addr{
		&net.IPNet{IP: net.ParseIP("127.0.0.1")},
		&net.IPNet{IP: net.ParseIP("fe80::1")},
		&net.IPAddr{IP: net.ParseIP("192.168.1.20")},
	}
	assert.Equal(t, "192.168.1.20", firstIPv4(addrs))
	assert.Empty(t, firstIPv4(nil))
}

func TestLocalIPv4(t *testing.T) {
	ip := net.ParseIP(LocalIPv4())
	if assert.NotNil(t, ip) {
		assert.NotNil(t, ip.To4())
	}
}
