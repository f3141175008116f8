package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"calc/internal/diag"
	"calc/internal/lexer"
	"calc/internal/source"
	"calc/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file.calc>",
	Short: "Print the token stream of a calc file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
	file, err := source.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("tokenize failed: %w", err)
	}
	bag := diag.NewBag(0)
	lx := lexer.New(file.Content, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	out := cmd.OutOrStdout()
	for i := 1; ; i++ {
		tok := lx.Next()
		pos := file.Position(tok.Span.Start)
		fmt.Fprintf(out, "%3d: %-10s", i, tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(out, " %q", tok.Text)
		}
		fmt.Fprintf(out, " at %d:%d\n", pos.Line, pos.Col)
		if tok.Kind == token.EOF {
			break
		}
	}
	if bag.HasErrors() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		for _, d := range bag.Items() {
			pos := file.Position(d.Primary.Start)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d:%d: %s %s: %s\n", file.Path, pos.Line, pos.Col, d.Severity, d.Code.ID(), d.Message)
		}
		return errDiagnostics
	}
	return nil
}
