package money

import (
	"strings"
)

const (
	placeholderValue = "{value}"
	placeholderSign  = "{sign}"
)

// Formatter renders Money for players, e.g. "$1,234.50" for a template of
// "{sign}{value}".
type Formatter struct {
	Places    int32
	Separator string
	Sign      string
	Template  string
}

func (f Formatter) Format(m Money) string {
	value := Group(m.StringFixed(f.Places), f.Separator)

	return strings.NewReplacer(placeholderValue, value, placeholderSign, f.Sign).Replace(f.Template)
}

// Group inserts sep between every three integer digits of a plain decimal
// string such as "-1234567.50".
func Group(fixed, sep string) string {
	if sep == "" {
		return fixed
	}

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	intPart, frac, hasFrac := strings.Cut(fixed, ".")

	var b strings.Builder

	b.WriteString(sign)

	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}

	b.WriteString(intPart[:lead])

	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(sep)
		b.WriteString(intPart[i : i+3])
	}

	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}

	return b.String()
}
