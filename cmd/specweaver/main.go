// Package main provides the CLI entrypoint for specweaver.
//
// specweaver reads Markdown design documents, extracts the class diagrams
// embedded in their mermaid blocks and checks that every type they mention
// is defined somewhere in the document set:
//
//	specweaver check [dir]            print diagnostics and unresolved references
//	specweaver export [dir] -f yaml   write entities and report as JSON, YAML or MessagePack
//	specweaver store [dir] --db f.db  append the run to a SQLite database
//	specweaver dump [dir]             dump the entity specs for debugging
//	specweaver schema                 print the configuration JSON schema
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}

		os.Exit(1)
	}
}
