package avrokit

import (
	"strconv"
	"strings"
)

// escapePointer escapes '~' -> '~0', '/' -> '~1' per RFC6901.
func escapePointer(token string) string {
	if !strings.ContainsAny(token, "~/") {
		return token
	}
	return strings.ReplaceAll(strings.ReplaceAll(token, "~", "~0"), "/", "~1")
}

// atField prefixes the path of a resolution error with a record field or map key.
func atField(err error, name string) error {
	return prefixPath(err, escapePointer(name))
}

// atIndex prefixes the path of a resolution error with an array position.
func atIndex(err error, i int) error {
	return prefixPath(err, strconv.Itoa(i))
}

func prefixPath(err error, token string) error {
	re, ok := err.(*ResolutionError)
	if !ok {
		return err
	}
	re.Path = "/" + token + re.Path
	return re
}
