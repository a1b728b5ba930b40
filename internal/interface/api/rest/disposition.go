package rest

import (
	"net/url"
	"strings"
	"unicode"
)

// contentDisposition always quotes filename and adds an RFC 5987 filename*
// when the name is not plain ASCII.
func contentDisposition(kind, name string) string {
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, name)
	plain := ascii == name
	ascii = strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(ascii)

	v := kind + `; filename="` + ascii + `"`
	if !plain {
		v += "; filename*=UTF-8''" + url.PathEscape(name)
	}
	return v
}
