// Copyright © 2024 The StrataRegula authors

package lsp

import (
	"strings"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/strataregula/strataregula-lsp/tokenizer"
)

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// cursorPosition converts an LSP position to a tokenizer position.
func cursorPosition(pos protocol.Position) tokenizer.Position {
	return tokenizer.Position{
		Line:   int(pos.Line),
		Column: int(pos.Character),
	}
}

// lineLength returns the character length of a 0-based line of content,
// or zero when the line does not exist.
func lineLength(content string, line int) int {
	lines := strings.Split(content, "\n")
	if line < 0 || line >= len(lines) {
		return 0
	}
	return utf8.RuneCountInString(lines[line])
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
