// aldadump renders a parsed Alda AST or a generated MIDI event
// timeline as a debug HTML page, using internal/ht's element-tree
// builder.
//
// Command line usage is
//
//	aldadump ast input.alda
//	aldadump timeline input.alda
package main

import (
	"bytes"
	"log"
	"os"

	"github.com/ellisgrant-audio/aldacore/generate"
	"github.com/ellisgrant-audio/aldacore/internal/ht"
	"github.com/ellisgrant-audio/aldacore/parser"
	"github.com/spf13/cobra"
)

var outPath string

var rootCmd = &cobra.Command{
	Use:   "aldadump",
	Short: "Render a parsed AST or generated timeline as a debug HTML page",
}

var astCmd = &cobra.Command{
	Use:   "ast <input.alda>",
	Short: "Dump the parsed AST of input.alda as HTML",
	Args:  cobra.ExactArgs(1),
	RunE:  runAST,
}

var timelineCmd = &cobra.Command{
	Use:   "timeline <input.alda>",
	Short: "Dump the generated event timeline of input.alda as HTML",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimeline,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "output .html path (default: stdout)")
	rootCmd.AddCommand(astCmd, timelineCmd)
}

func runAST(cmd *cobra.Command, args []string) error {
	inPath := args[0]
	src, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	tree, diag := parser.Parse(string(src), inPath)
	if diag != nil {
		return diag
	}
	return renderAndWrite(ht.DumpTree(tree))
}

func runTimeline(cmd *cobra.Command, args []string) error {
	inPath := args[0]
	src, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	tree, diag := parser.Parse(string(src), inPath)
	if diag != nil {
		return diag
	}
	tl, diag := generate.Generate(tree, generate.DefaultDefaults())
	if diag != nil {
		return diag
	}
	return renderAndWrite(ht.DumpTimeline(tl))
}

func renderAndWrite(doc *ht.ElementTree) error {
	var b bytes.Buffer
	if err := doc.Render(&b, 0); err != nil {
		return err
	}
	if outPath == "" {
		_, err := os.Stdout.Write(b.Bytes())
		return err
	}
	return os.WriteFile(outPath, b.Bytes(), 0644)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
