package xaddr

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantStr      string
		wantBits     int
		wantExcluded bool
		wantErr      bool
	}{
		{
			name:     "bare IPv4",
			input:    "10.0.0.1",
			wantStr:  "10.0.0.1",
			wantBits: 32,
		},
		{
			name:     "IPv4 CIDR",
			input:    "10.0.0.0/8",
			wantStr:  "10.0.0.0/8",
			wantBits: 8,
		},
		{
			name:     "IPv4 CIDR keeps host bits",
			input:    "192.168.1.2/24",
			wantStr:  "192.168.1.2/24",
			wantBits: 24,
		},
		{
			name:     "dotted mask",
			input:    "10.0.0.0/255.0.0.0",
			wantStr:  "10.0.0.0/8",
			wantBits: 8,
		},
		{
			name:     "full mask",
			input:    "192.168.1.1/255.255.255.255",
			wantStr:  "192.168.1.1",
			wantBits: 32,
		},
		{
			name:     "bare IPv6",
			input:    "fd00::1",
			wantStr:  "fd00::1",
			wantBits: 128,
		},
		{
			name:     "IPv6 CIDR",
			input:    "fd00::1/64",
			wantStr:  "fd00::1/64",
			wantBits: 64,
		},
		{
			name:     "bracketed IPv6",
			input:    "[fd00::1]",
			wantStr:  "fd00::1",
			wantBits: 128,
		},
		{
			name:     "bracketed IPv6 with port",
			input:    "[fd00::1]:123",
			wantStr:  "fd00::1",
			wantBits: 128,
		},
		{
			name:     "bracketed IPv6 with prefix",
			input:    "[fd00::]/64",
			wantStr:  "fd00::/64",
			wantBits: 64,
		},
		{
			name:     "zone suffix stripped",
			input:    "fe80::1%eth0",
			wantStr:  "fe80::1",
			wantBits: 128,
		},
		{
			name:         "exclusion prefix",
			input:        "!10.0.0.5",
			wantStr:      "10.0.0.5",
			wantBits:     32,
			wantExcluded: true,
		},
		{
			name:     "surrounding whitespace",
			input:    "  192.168.1.0/24  ",
			wantStr:  "192.168.1.0/24",
			wantBits: 24,
		},
		{
			name:     "IPv4-mapped IPv6 unmapped",
			input:    "::ffff:192.168.1.1",
			wantStr:  "192.168.1.1",
			wantBits: 32,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "trailing garbage",
			input:   "127.0.0.1#",
			wantErr: true,
		},
		{
			name:    "extra octet",
			input:   "10.0.0.1.5",
			wantErr: true,
		},
		{
			name:    "prefix out of range",
			input:   "10.0.0.0/33",
			wantErr: true,
		},
		{
			name:    "IPv6 prefix out of range",
			input:   "fd00::/129",
			wantErr: true,
		},
		{
			name:    "negative prefix",
			input:   "10.0.0.0/-1",
			wantErr: true,
		},
		{
			name:    "empty prefix",
			input:   "10.0.0.0/",
			wantErr: true,
		},
		{
			name:    "non-contiguous mask",
			input:   "10.0.0.0/255.0.255.0",
			wantErr: true,
		},
		{
			name:    "mask on IPv6",
			input:   "fd00::/255.255.0.0",
			wantErr: true,
		},
		{
			name:    "unterminated bracket",
			input:   "[fd00::1",
			wantErr: true,
		},
		{
			name:    "garbage after bracket",
			input:   "[fd00::1]x",
			wantErr: true,
		},
		{
			name:    "non-numeric port after bracket",
			input:   "[fd00::1]:http",
			wantErr: true,
		},
		{
			name:    "hostname is not a subnet",
			input:   "myhost.example",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSubnet)
				assert.False(t, sub.IsValid())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStr, sub.String())
			assert.Equal(t, tt.wantBits, sub.Bits())
			assert.Equal(t, tt.wantExcluded, sub.Excluded())
		})
	}
}

func TestParse_MaskErrorsWrapInvalidSubnet(t *testing.T) {
	// ErrInvalidMask 同时匹配 ErrInvalidSubnet 之外的细分哨兵
	_, err := Parse("10.0.0.0/255.0.255.0")
	assert.ErrorIs(t, err, ErrInvalidMask)
}

func TestContains(t *testing.T) {
	tests := []struct {
		name   string
		subnet string
		addr   string
		want   bool
	}{
		{"inside /24", "192.168.1.0/24", "192.168.1.100", true},
		{"network address itself", "192.168.1.0/24", "192.168.1.0", true},
		{"broadcast address", "192.168.1.0/24", "192.168.1.255", true},
		{"outside /24", "192.168.1.0/24", "192.168.2.1", false},
		{"host bits ignored in subnet", "192.168.1.2/24", "192.168.1.200", true},
		{"host route matches only itself", "10.0.0.1", "10.0.0.1", true},
		{"host route rejects other", "10.0.0.1", "10.0.0.2", false},
		{"family mismatch v4 subnet v6 addr", "10.0.0.0/8", "fd00::1", false},
		{"family mismatch v6 subnet v4 addr", "fd00::/8", "10.0.0.1", false},
		{"IPv6 inside /64", "fd00::/64", "fd00::abcd", true},
		{"IPv6 outside /64", "fd00::/64", "fd00:0:0:1::1", false},
		{"mapped addr treated as v4", "192.168.1.0/24", "::ffff:192.168.1.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := MustParse(tt.subnet)
			assert.Equal(t, tt.want, sub.Contains(netip.MustParseAddr(tt.addr)))
		})
	}
}

func TestContains_ZeroValues(t *testing.T) {
	var zero Subnet
	assert.False(t, zero.Contains(netip.MustParseAddr("10.0.0.1")))
	assert.False(t, MustParse("10.0.0.0/8").Contains(netip.Addr{}))
}

func TestContainsSubnet(t *testing.T) {
	lan := MustParse("192.168.1.0/24")
	assert.True(t, lan.ContainsSubnet(MustParse("192.168.1.5")))
	assert.True(t, lan.ContainsSubnet(MustParse("192.168.1.128/25")))
	assert.False(t, lan.ContainsSubnet(MustParse("10.0.0.1")))
	assert.False(t, lan.ContainsSubnet(Subnet{}))
}

func TestNetwork(t *testing.T) {
	sub := MustParse("192.168.1.2/24")
	net := sub.Network()
	assert.Equal(t, "192.168.1.0/24", net.String())

	// 幂等
	assert.True(t, net.Network().Equal(net))

	// 自反：网络包含自己的网络地址
	assert.True(t, sub.Contains(net.Addr()))

	// 排除标记透传
	assert.True(t, MustParse("!10.0.0.0/8").Network().Excluded())
}

func TestEqual(t *testing.T) {
	assert.True(t, MustParse("10.0.0.1/24").Equal(MustParse("10.0.0.1/24")))
	// 相等是原始地址相等，不做掩码
	assert.False(t, MustParse("10.0.0.1/24").Equal(MustParse("10.0.0.2/24")))
	assert.False(t, MustParse("10.0.0.1/24").Equal(MustParse("10.0.0.1/25")))
	// 排除标记不参与相等
	assert.True(t, MustParse("!10.0.0.1").Equal(MustParse("10.0.0.1")))
}

func TestFromAddr(t *testing.T) {
	sub := FromAddr(netip.MustParseAddr("192.168.1.208"))
	assert.Equal(t, "192.168.1.208", sub.String())
	assert.True(t, sub.IsHostRoute())

	assert.False(t, FromAddr(netip.Addr{}).IsValid())
}

func TestFromPrefix(t *testing.T) {
	sub := FromPrefix(netip.MustParsePrefix("192.168.1.208/24"))
	assert.Equal(t, "192.168.1.208/24", sub.String())

	// IPv4-mapped 前缀去映射后位宽收窄
	mapped := FromPrefix(netip.MustParsePrefix("::ffff:192.168.1.0/120"))
	assert.Equal(t, "192.168.1.0/24", mapped.String())

	assert.False(t, FromPrefix(netip.Prefix{}).IsValid())
}

func TestStringWithMask(t *testing.T) {
	assert.Equal(t, "10.0.0.0/255.0.0.0", MustParse("10.0.0.0/8").StringWithMask())
	assert.Equal(t, "192.168.1.2/255.255.255.0", MustParse("192.168.1.2/24").StringWithMask())
	assert.Equal(t, "10.0.0.1/255.255.255.255", MustParse("10.0.0.1").StringWithMask())
	assert.Equal(t, "0.0.0.0/0.0.0.0", MustParse("0.0.0.0/0").StringWithMask())
	// IPv6 回退到标准形式
	assert.Equal(t, "fd00::/64", MustParse("fd00::/64").StringWithMask())
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustParse("not-an-address") })
}

func TestZeroValueSentinel(t *testing.T) {
	var zero Subnet
	assert.False(t, zero.IsValid())
	assert.Equal(t, "", zero.String())
	assert.Equal(t, -1, zero.Bits())
	assert.Equal(t, FamilyNone, zero.Family())
	assert.False(t, zero.Network().IsValid())
}
