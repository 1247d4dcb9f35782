//go:build windows

package orchestrator

import "fmt"

// DiscoverSystemResolvers would query the Windows IP Helper API for the
// active adapters' configured DNS servers; that system call surface isn't
// available in this environment, so Windows users must pass @resolver
// explicitly until a collaborator for it is wired in.
func DiscoverSystemResolvers() ([]string, error) {
	return nil, fmt.Errorf("orchestrator: system resolver discovery is not implemented on windows, pass @resolver explicitly")
}
