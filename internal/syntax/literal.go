package syntax

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// StringValue returns the unquoted value of a string literal node.
func StringValue(n Node) (string, bool) {
	if n.IsZero() || n.Category() != CategoryStringLiteral {
		return "", false
	}

	var buf []byte
	// high holds a \uD800-\uDBFF escape waiting for its low half.
	high := rune(-1)
	flush := func() {
		if high >= 0 {
			buf = utf8.AppendRune(buf, utf8.RuneError)
			high = -1
		}
	}

	n.ForEachChild(func(c Node) {
		switch c.Kind() {
		case "string_fragment":
			flush()
			buf = append(buf, c.Text()...)
		case "escape_sequence":
			text, code, isCode := decodeEscape(c.Text())
			if !isCode {
				flush()
				buf = append(buf, text...)
				return
			}
			if high >= 0 {
				if r := utf16.DecodeRune(high, code); r != utf8.RuneError {
					buf = utf8.AppendRune(buf, r)
					high = -1
					return
				}
				flush()
			}
			if code >= 0xD800 && code < 0xDC00 {
				high = code
				return
			}
			buf = utf8.AppendRune(buf, code)
		}
	})
	flush()
	return string(buf), true
}

var singleEscapes = map[string]string{
	"b": "\b",
	"f": "\f",
	"n": "\n",
	"r": "\r",
	"t": "\t",
	"v": "\v",
}

// decodeEscape decodes one ECMAScript escape sequence. Numeric escapes
// (\xHH, \uHHHH, \u{H...}, legacy octal) come back as a code point so the
// caller can pair surrogates; everything else comes back as text.
func decodeEscape(seq string) (string, rune, bool) {
	body := strings.TrimPrefix(seq, `\`)
	switch body {
	case "", "\n", "\r\n", "\r", "\u2028", "\u2029":
		// line continuation
		return "", 0, false
	}
	if s, ok := singleEscapes[body]; ok {
		return s, 0, false
	}

	var digits string
	base := 16
	switch {
	case body[0] == 'x' && len(body) == 3:
		digits = body[1:]
	case strings.HasPrefix(body, "u{") && strings.HasSuffix(body, "}"):
		digits = body[2 : len(body)-1]
	case body[0] == 'u' && len(body) == 5:
		digits = body[1:]
	case body[0] >= '0' && body[0] <= '7':
		digits, base = body, 8
	default:
		// identity escape: \' \" \\ and any other character
		return body, 0, false
	}

	code, err := strconv.ParseUint(digits, base, 32)
	if err != nil || code > unicode.MaxRune {
		return body, 0, false
	}
	return "", rune(code), true
}

// unwrapExpression strips parentheses, `satisfies` clauses and `as` assertions,
// reporting whether an `as const` assertion was crossed.
func unwrapExpression(n Node) (Node, bool) {
	asConst := false
	for !n.IsZero() {
		switch n.Kind() {
		case "parenthesized_expression", "satisfies_expression", "non_null_expression":
			n = firstNamedChild(n)
		case "as_expression":
			if n.hasToken("const") {
				asConst = true
			}
			n = firstNamedChild(n)
		default:
			return n, asConst
		}
	}
	return n, asConst
}

func firstNamedChild(n Node) Node {
	var first Node
	n.ForEachChild(func(c Node) {
		if first.IsZero() && c.Kind() != "comment" {
			first = c
		}
	})
	return first
}
