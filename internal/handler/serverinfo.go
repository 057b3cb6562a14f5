package handler

import (
	"log/slog"
	"net"
)

// DetectLocalIP returns the first non-loopback IPv4 address of the host,
// or "localhost" when there is none
func DetectLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.IsLoopback() {
				continue
			}
			if ip4 := ipNet.IP.To4(); ip4 != nil {
				return ip4.String()
			}
		}
	}
	slog.Warn(LogMsgLocalIPUndefined)
	return "localhost"
}
