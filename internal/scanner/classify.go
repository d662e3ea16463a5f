package scanner

// Class is the structural role of a byte outside of a string.
type Class uint8

const (
	ClassOther     Class = iota // literal and number bytes
	ClassSpace                  // space, tab, newline, carriage return
	ClassQuote                  // "
	ClassBackslash              // \
	ClassOpen                   // { [
	ClassClose                  // } ]
	ClassComma                  // ,
	ClassColon                  // :
)

// ByteClass is a 256-entry lookup table, one cache line per 64 bytes.
var ByteClass = func() (t [256]Class) {
	t[' '] = ClassSpace
	t['\t'] = ClassSpace
	t['\n'] = ClassSpace
	t['\r'] = ClassSpace
	t['"'] = ClassQuote
	t['\\'] = ClassBackslash
	t['{'] = ClassOpen
	t['['] = ClassOpen
	t['}'] = ClassClose
	t[']'] = ClassClose
	t[','] = ClassComma
	t[':'] = ClassColon
	return t
}()

// IsSpace reports whether c is insignificant JSON whitespace.
func IsSpace(c byte) bool {
	return ByteClass[c] == ClassSpace
}
