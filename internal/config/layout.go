package config

import "strings"

// strftimeDirectives maps the strftime directives accepted in config files to
// their Go layout equivalents.
var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'j': "002",
	'z': "-0700",
	'Z': "MST",
	'%': "%",
}

// ToGoLayout converts a strftime-style format such as "%Y-%m-%d" into a Go
// time layout. Strings without a '%' are assumed to already be Go layouts and
// are returned unchanged. Unknown directives are copied through verbatim.
func ToGoLayout(format string) string {
	if !strings.Contains(format, "%") {
		return format
	}

	var b strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i == len(format)-1 {
			b.WriteByte(format[i])
			continue
		}
		if layout, ok := strftimeDirectives[format[i+1]]; ok {
			b.WriteString(layout)
		} else {
			b.WriteByte('%')
			b.WriteByte(format[i+1])
		}
		i++
	}
	return b.String()
}
