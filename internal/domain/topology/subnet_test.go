package topology

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSubnet_DerivedAddresses(t *testing.T) {
	base, err := ParseIP("192.168.0.16")
	if err != nil {
		t.Fatalf("ParseIP failed: %v", err)
	}
	s := Subnet{Index: 0, Base: base, Prefix: 28, Hosts: 13}

	if s.Size() != 16 {
		t.Errorf("Expected size 16, got %d", s.Size())
	}
	if s.CIDR() != "192.168.0.16/28" {
		t.Errorf("Expected CIDR 192.168.0.16/28, got %s", s.CIDR())
	}
	if s.Gateway() != "192.168.0.17" {
		t.Errorf("Expected gateway 192.168.0.17, got %s", s.Gateway())
	}
	if got := FormatIP(s.LastUsable()); got != "192.168.0.30" {
		t.Errorf("Expected last usable 192.168.0.30, got %s", got)
	}
	if got := FormatIP(s.Broadcast()); got != "192.168.0.31" {
		t.Errorf("Expected broadcast 192.168.0.31, got %s", got)
	}
	if s.Mask() != "255.255.255.240" {
		t.Errorf("Expected mask 255.255.255.240, got %s", s.Mask())
	}
	if !s.Contains(base + 15) {
		t.Error("Expected subnet to contain its broadcast address")
	}
	if s.Contains(base + 16) {
		t.Error("Expected subnet not to contain the next block")
	}
}

func TestSubnet_Overlaps(t *testing.T) {
	a := Subnet{Base: 0xC0A80000, Prefix: 27}
	tests := []struct {
		name  string
		other Subnet
		want  bool
	}{
		{"same block", Subnet{Base: 0xC0A80000, Prefix: 27}, true},
		{"inner block", Subnet{Base: 0xC0A80010, Prefix: 28}, true},
		{"outer block", Subnet{Base: 0xC0A80000, Prefix: 24}, true},
		{"adjacent block", Subnet{Base: 0xC0A80020, Prefix: 27}, false},
		{"block before", Subnet{Base: 0xC0A7FFE0, Prefix: 27}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.other.Overlaps(a); got != tt.want {
				t.Errorf("reverse Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseIP_Invalid(t *testing.T) {
	for _, in := range []string{"", "192.168.0", "192.168.0.256", "::1", "10.0.0.1/24", "abc"} {
		if _, err := ParseIP(in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseIP(%q): expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestPrefixToMask(t *testing.T) {
	tests := map[int]string{0: "0.0.0.0", 8: "255.0.0.0", 22: "255.255.252.0", 30: "255.255.255.252", 32: "255.255.255.255"}
	for prefix, want := range tests {
		if got := PrefixToMask(prefix); got != want {
			t.Errorf("PrefixToMask(%d) = %s, want %s", prefix, got, want)
		}
	}
}

func TestProperty_IPRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("formatting then parsing an address returns it unchanged",
		prop.ForAll(
			func(ip uint32) bool {
				s := FormatIP(ip)
				back, err := ParseIP(s)
				return err == nil && back == ip && FormatIP(back) == s
			},
			gen.UInt32(),
		))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
