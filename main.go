// Copyright © 2024 The StrataRegula authors

package main

import "github.com/strataregula/strataregula-lsp/cmd"

func main() {
	cmd.Execute()
}
