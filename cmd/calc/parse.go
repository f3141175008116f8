package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"calc/internal/ast"
	"calc/internal/diag"
	"calc/internal/diagfmt"
	"calc/internal/parser"
	"calc/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.calc>",
	Short: "Parse a calc file and print its statements as S-expressions",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	file, err := source.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	names := parser.NewNameTable()
	stmts, serr := parser.Parse(file.Content, names)
	if serr != nil {
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		if err := diagfmt.Pretty(cmd.ErrOrStderr(), []diag.Diagnostic{serr.Diagnostic()}, file, diagfmt.PrettyOpts{Color: color, Context: 1}); err != nil {
			return err
		}
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), ast.Format(names, stmts))
	return err
}
