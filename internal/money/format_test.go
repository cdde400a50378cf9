package money

import "testing"

func TestFormatter_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		f    Formatter
		in   string
		want string
	}{
		{
			name: "sign_prefix_grouped",
			f:    Formatter{Places: 2, Separator: ",", Sign: "$", Template: "{sign}{value}"},
			in:   "1234567.5",
			want: "$1,234,567.50",
		},
		{
			name: "sign_suffix",
			f:    Formatter{Places: 2, Separator: ".", Sign: "€", Template: "{value} {sign}"},
			in:   "1000",
			want: "1.000.00 €",
		},
		{
			name: "no_decimals_rounds_half_up",
			f:    Formatter{Places: 0, Separator: ",", Sign: "coins", Template: "{value} {sign}"},
			in:   "999.5",
			want: "1,000 coins",
		},
		{
			name: "no_separator",
			f:    Formatter{Places: 3, Sign: "", Template: "{value}"},
			in:   "12345.6789",
			want: "12345.679",
		},
		{
			name: "small_value",
			f:    Formatter{Places: 2, Separator: ",", Sign: "$", Template: "{sign}{value}"},
			in:   "0.004",
			want: "$0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.f.Format(MustParse(tt.in))
			if got != tt.want {
				t.Fatalf("Format(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGroup(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"0.00":        "0.00",
		"123":         "123",
		"1234":        "1,234",
		"-1234567.89": "-1,234,567.89",
		"100000":      "100,000",
	}

	for in, want := range tests {
		if got := Group(in, ","); got != want {
			t.Fatalf("Group(%q) = %q, want %q", in, got, want)
		}
	}
}
