package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// Number represents a decimal literal such as 42 or 3.5.
	Number

	// KwFn represents the 'fn' keyword.
	KwFn // fn
	// KwPrint represents the 'print' keyword.
	KwPrint // print

	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Assign    // =
	Comma     // ,
	Semicolon // ;
	LParen    // (
	RParen    // )
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	Number:    "Number",
	KwFn:      "KwFn",
	KwPrint:   "KwPrint",
	Plus:      "Plus",
	Minus:     "Minus",
	Star:      "Star",
	Slash:     "Slash",
	Assign:    "Assign",
	Comma:     "Comma",
	Semicolon: "Semicolon",
	LParen:    "LParen",
	RParen:    "RParen",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
