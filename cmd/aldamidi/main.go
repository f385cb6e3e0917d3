// aldamidi compiles a .alda source file to a Standard MIDI File.
//
// Command line usage is
//
//	aldamidi [-o out.mid] [-t tempo] [-p ticks] [-d denom] [-O octave] input.alda
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ellisgrant-audio/aldacore/generate"
	"github.com/ellisgrant-audio/aldacore/parser"
	"github.com/ellisgrant-audio/aldacore/smf"
	"github.com/spf13/cobra"
)

var (
	outPath string
	bpm     int
	ticks   int
	denom   int
	octave  int
)

var rootCmd = &cobra.Command{
	Use:   "aldamidi <input.alda>",
	Short: "Compile an Alda source file to a Standard MIDI File",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "output .mid path (default: input with .mid extension)")
	rootCmd.Flags().IntVarP(&bpm, "tempo", "t", 120, "initial tempo in beats per minute")
	rootCmd.Flags().IntVarP(&ticks, "ticks", "p", 480, "ticks per quarter note")
	rootCmd.Flags().IntVarP(&denom, "denom", "d", 4, "default note-length denominator")
	rootCmd.Flags().IntVarP(&octave, "octave", "O", 4, "default octave")
}

func runCompile(cmd *cobra.Command, args []string) error {
	inPath := args[0]
	src, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	tree, diag := parser.Parse(string(src), inPath)
	if diag != nil {
		return diag
	}

	defaults := generate.Defaults{
		BPM: bpm, TicksPerQuarter: ticks,
		DefaultDenominator: denom, DefaultOctave: octave,
	}
	tl, diag := generate.Generate(tree, defaults)
	if diag != nil {
		return diag
	}

	data, err := smf.Write(tl, uint16(ticks))
	if err != nil {
		return fmt.Errorf("writing SMF: %w", err)
	}

	dest := outPath
	if dest == "" {
		dest = withExt(inPath, ".mid")
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %s\n", dest)
	return nil
}

func withExt(path, ext string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[:i] + ext
		}
	}
	return path + ext
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
