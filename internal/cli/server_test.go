package cli

import "testing"

func TestResolvePortPrecedence(t *testing.T) {
	cases := []struct {
		flag, cfg, env, want string
	}{
		{"9000", "7000", "6000", "9000"},
		{"", "7000", "6000", "7000"},
		{"", "", "6000", "6000"},
		{"", "", "", "8080"},
	}
	for _, c := range cases {
		if got := resolvePort(c.flag, c.cfg, c.env); got != c.want {
			t.Fatalf("resolvePort(%q, %q, %q) = %q, want %q", c.flag, c.cfg, c.env, got, c.want)
		}
	}
}
