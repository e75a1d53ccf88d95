package dns

import (
	"errors"
	"net"
	"os"
)

// HostnameToIP resolves a hostname to its first IPv4 address.
func HostnameToIP(hostname string) (net.IP, error) {
	ips, err := net.LookupIP(hostname)
	if err != nil {
		return nil, err
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			return ip, nil
		}
	}
	return nil, errors.New("no IPv4 address found")
}

// AdvertiseHost returns the host other services should use to reach this
// instance: the IPv4 address of the local hostname, or the hostname itself
// when it does not resolve.
func AdvertiseHost() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", err
	}
	ip, err := HostnameToIP(hostname)
	if err != nil {
		return hostname, nil
	}
	return ip.String(), nil
}
