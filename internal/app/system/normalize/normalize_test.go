package normalize

import (
	"reflect"
	"testing"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	if got := Name("  John Doe  "); got != "John Doe" {
		t.Errorf("Name() = %q, want %q", got, "John Doe")
	}
	if got := Name("UPPERCASE NAME"); got != "UPPERCASE NAME" {
		t.Errorf("Name() changed case: %q", got)
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"dedupe", []string{"vip", "vip", "lead"}, []string{"vip", "lead"}},
		{"trim and drop empty", []string{" vip ", "", "  ", "b2b"}, []string{"vip", "b2b"}},
		{"case sensitive", []string{"VIP", "vip"}, []string{"VIP", "vip"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tags(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tags(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCSV(t *testing.T) {
	if got := CSV(""); got != nil {
		t.Errorf("CSV(\"\") = %v, want nil", got)
	}
	want := []string{"vip", "b2b"}
	if got := CSV("vip, b2b,,vip"); !reflect.DeepEqual(got, want) {
		t.Errorf("CSV() = %v, want %v", got, want)
	}
}
