package main

import (
	"os"

	"github.com/finwise/statement-extractor/cmd/extract"
	"github.com/finwise/statement-extractor/cmd/root"
	"github.com/finwise/statement-extractor/cmd/serve"
)

func main() {
	root.Init()
	root.Cmd.AddCommand(extract.Cmd, serve.Cmd)
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
