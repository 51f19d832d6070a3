package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/mvp-joe/scriptlens/internal/analysis"
)

var symbolKinds = map[analysis.OutlineKind]protocol.SymbolKind{
	analysis.KindClass:         protocol.SymbolKindClass,
	analysis.KindObjectLiteral: protocol.SymbolKindObject,
	analysis.KindMethod:        protocol.SymbolKindMethod,
	analysis.KindConstructor:   protocol.SymbolKindConstructor,
	analysis.KindFunction:      protocol.SymbolKindFunction,
	analysis.KindGet:           protocol.SymbolKindProperty,
	analysis.KindSet:           protocol.SymbolKindProperty,
}

// DocumentSymbols nests a flat outline into a symbol tree. A token becomes a
// child of the nearest preceding token one indent level shallower.
func DocumentSymbols(tokens []analysis.OutlineToken) []protocol.DocumentSymbol {
	symbols, _ := nest(tokens, 0, 0)
	return symbols
}

func nest(tokens []analysis.OutlineToken, start, depth int) ([]protocol.DocumentSymbol, int) {
	out := []protocol.DocumentSymbol{}
	i := start
	for i < len(tokens) {
		token := tokens[i]
		if token.IndentAmount < depth {
			break
		}
		symbol := toSymbol(token)
		i++
		if i < len(tokens) && tokens[i].IndentAmount > token.IndentAmount {
			symbol.Children, i = nest(tokens, i, token.IndentAmount+1)
		}
		out = append(out, symbol)
	}
	return out, i
}

func toSymbol(token analysis.OutlineToken) protocol.DocumentSymbol {
	kind, ok := symbolKinds[token.Kind]
	if !ok {
		kind = protocol.SymbolKindVariable
	}
	line := protocol.Range{
		Start: protocol.Position{Line: uint32(token.Line)},
		End:   protocol.Position{Line: uint32(token.Line)},
	}
	return protocol.DocumentSymbol{
		Name:           token.Name,
		Detail:         token.Kind.String(),
		Kind:           kind,
		Range:          line,
		SelectionRange: line,
	}
}
