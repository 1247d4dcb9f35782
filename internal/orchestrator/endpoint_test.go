package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsscience/dqy/internal/transport"
)

func TestParseResolverBareIPv4(t *testing.T) {
	ep, err := ParseResolver("1.1.1.1", transport.KindUDP)
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.1", ep.Host)
	assert.Equal(t, "53", ep.Port)
	assert.Equal(t, transport.KindUDP, ep.Kind)
}

func TestParseResolverBareIPv6(t *testing.T) {
	ep, err := ParseResolver("2606:4700:4700::1111", transport.KindUDP)
	require.NoError(t, err)
	assert.Equal(t, "2606:4700:4700::1111", ep.Host)
	assert.Equal(t, "53", ep.Port)
}

func TestParseResolverBracketedIPv6WithPort(t *testing.T) {
	ep, err := ParseResolver("[2606:4700:4700::1111]:5353", transport.KindUDP)
	require.NoError(t, err)
	assert.Equal(t, "2606:4700:4700::1111", ep.Host)
	assert.Equal(t, "5353", ep.Port)
}

func TestParseResolverHostnameWithAtPrefix(t *testing.T) {
	ep, err := ParseResolver("@dns.google", transport.KindUDP)
	require.NoError(t, err)
	assert.Equal(t, "dns.google", ep.Host)
	assert.Equal(t, "53", ep.Port)
}

func TestParseResolverDoHForm(t *testing.T) {
	ep, err := ParseResolver("https://dns.google/dns-query", transport.KindUDP)
	require.NoError(t, err)
	assert.Equal(t, transport.KindDoH, ep.Kind)
	assert.Equal(t, "dns.google", ep.Host)
	assert.Equal(t, "443", ep.Port)
	assert.Equal(t, "/dns-query", ep.Path)
}

func TestParseResolverDoHDefaultPath(t *testing.T) {
	ep, err := ParseResolver("https://dns.google", transport.KindUDP)
	require.NoError(t, err)
	assert.Equal(t, "/dns-query", ep.Path)
}

func TestParseResolverDoQForm(t *testing.T) {
	ep, err := ParseResolver("quic://dns.adguard.com", transport.KindUDP)
	require.NoError(t, err)
	assert.Equal(t, transport.KindDoQ, ep.Kind)
	assert.Equal(t, "dns.adguard.com", ep.Host)
	assert.Equal(t, "853", ep.Port)
}

func TestApplyPortOverrideReplacesParsedPort(t *testing.T) {
	ep := Endpoint{Kind: transport.KindUDP, Host: "1.1.1.1", Port: "53"}
	overridden := applyPortOverride(ep, 5353)
	assert.Equal(t, "5353", overridden.Port)
}

func TestApplyPortOverrideNoopWhenZero(t *testing.T) {
	ep := Endpoint{Kind: transport.KindUDP, Host: "1.1.1.1", Port: "53"}
	unchanged := applyPortOverride(ep, 0)
	assert.Equal(t, "53", unchanged.Port)
}

func TestExpandEndpointLiteralIPSkipsResolution(t *testing.T) {
	ep := Endpoint{Kind: transport.KindUDP, Host: "9.9.9.9", Port: "53"}
	candidates, err := expandEndpoint(ep, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "9.9.9.9", candidates[0].Host)
}

func TestExpandEndpointDoHNeverExpanded(t *testing.T) {
	ep := Endpoint{Kind: transport.KindDoH, Host: "dns.google", Port: "443", Path: "/dns-query"}
	candidates, err := expandEndpoint(ep, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "dns.google", candidates[0].Host)
}
