package validators

import "testing"

func TestSplitContact(t *testing.T) {
	cases := []struct {
		in        string
		wantEmail string
		wantPhone string
	}{
		{"jana@example.com", "jana@example.com", ""},
		{"Jana@Example.COM", "jana@example.com", ""},
		{"  jana@example.com  ", "jana@example.com", ""},
		{"0907123456", "", "0907123456"},
		{"+421 907 123 456", "", "+421 907 123 456"},
		{"", "", ""},
		{"   ", "", ""},
	}

	for _, tt := range cases {
		email, phone := SplitContact(tt.in)
		if email != tt.wantEmail || phone != tt.wantPhone {
			t.Errorf("SplitContact(%q) = (%q, %q), want (%q, %q)",
				tt.in, email, phone, tt.wantEmail, tt.wantPhone)
		}
	}
}
