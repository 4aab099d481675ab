package macro

import (
	"strings"

	"github.com/calumari/covers/internal/tokens"
)

const (
	fnKeyword   = "fn"
	pubKeyword  = "pub"
	selfKeyword = "self"
)

// ParseArgs reduces the contents of a parameter list to the argument list of
// a call forwarding those parameters: each parameter becomes its binding
// name, and a receiver in any form becomes `self`.
//
// `(self, name: &str, mut n: u8)` yields `self, name, n`.
func ParseArgs(params tokens.Stream) string {
	if len(params) == 0 {
		return ""
	}
	var (
		args  []string
		chunk tokens.Stream
		depth int
	)
	for i, tok := range params {
		if tok.Kind == tokens.Punct {
			switch tok.Text {
			case "<":
				depth++
			case ">":
				arrow := i > 0 && params[i-1].IsPunct("-") && params[i-1].Joint
				if depth > 0 && !arrow {
					depth--
				}
			case ",":
				if depth == 0 {
					if len(chunk) > 0 {
						args = append(args, reduceParam(chunk))
					}
					chunk = nil
					continue
				}
			}
		}
		chunk = append(chunk, tok)
	}
	if len(chunk) > 0 {
		args = append(args, reduceParam(chunk))
	}
	return strings.Join(args, ", ")
}

func reduceParam(param tokens.Stream) string {
	if param[len(param)-1].IsIdent(selfKeyword) {
		return selfKeyword
	}
	if len(param) > 1 && param[0].IsIdent("mut") {
		return param[1].String()
	}
	return param[0].String()
}

// hasReceiver reports whether a reduced argument list starts with `self`.
func hasReceiver(args string) bool {
	return args == selfKeyword || strings.HasPrefix(args, selfKeyword+",")
}
