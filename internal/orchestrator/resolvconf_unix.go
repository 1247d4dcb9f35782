//go:build !windows

// Discovery of OS-configured resolvers is out of scope as a feature (it's
// an external collaborator per spec.md §1), but the client still needs
// *some* default servers when the user gives no explicit @resolver. This
// is the thinnest possible discovery path: parse /etc/resolv.conf's
// "nameserver" lines, the same convention every UNIX stub resolver uses.
package orchestrator

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const resolvConfPath = "/etc/resolv.conf"

// DiscoverSystemResolvers reads nameserver lines from /etc/resolv.conf.
func DiscoverSystemResolvers() ([]string, error) {
	f, err := os.Open(resolvConfPath)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: discovering system resolvers: %w", err)
	}
	defer f.Close()

	var servers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "nameserver") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			servers = append(servers, fields[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("orchestrator: reading %s: %w", resolvConfPath, err)
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("orchestrator: no nameserver entries in %s", resolvConfPath)
	}
	return servers, nil
}
