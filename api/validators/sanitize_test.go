package validators

import "testing"

func TestSanitizeObjectName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"sunset.png", "sunset.png"},
		{"  sunset.png  ", "sunset.png"},
		{"../secrets.txt", ""},
		{"/etc/passwd", ""},
		{"nested/../../x", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeObjectName(tc.in, 256); got != tc.want {
			t.Errorf("SanitizeObjectName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
