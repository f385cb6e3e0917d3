// aldatempo inspects or rewrites the tempo events of a compiled
// Standard MIDI File without decoding it all the way back to an
// event.Timeline, using internal/tempomap's byte-level scanner.
//
// Command line usage is
//
//	aldatempo list file.mid
//	aldatempo set -b 140 file.mid
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ellisgrant-audio/aldacore/internal/tempomap"
	"github.com/spf13/cobra"
)

var setBPM float64

var rootCmd = &cobra.Command{
	Use:   "aldatempo",
	Short: "Inspect or rewrite Set Tempo events in a compiled .mid file",
}

var listCmd = &cobra.Command{
	Use:   "list <file.mid>",
	Short: "List every tempo event found in file.mid",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var setCmd = &cobra.Command{
	Use:   "set <file.mid>",
	Short: "Rewrite every tempo event in file.mid to a fixed BPM",
	Args:  cobra.ExactArgs(1),
	RunE:  runSet,
}

func init() {
	setCmd.Flags().Float64VarP(&setBPM, "bpm", "b", 120, "new tempo in beats per minute")
	rootCmd.AddCommand(listCmd, setCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	events := tempomap.Scan(data)
	if len(events) == 0 {
		fmt.Fprintln(os.Stdout, "no tempo events found")
		return nil
	}
	for _, ev := range events {
		bpm := 60000000.0 / float64(ev.MicrosPerQuarter)
		fmt.Fprintf(os.Stdout, "offset %d: %d us/quarter (%.2f bpm)\n", ev.ByteOffset, ev.MicrosPerQuarter, bpm)
	}
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	microsPerQuarter := uint32(60000000.0 / setBPM)
	patched, err := tempomap.PatchAll(data, microsPerQuarter)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, patched, 0644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "rewrote tempo to %.2f bpm in %s\n", setBPM, path)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
