// Package main is the entry point for the midi2chiptune CLI
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/james-see/midi2chiptune/pkg/api"
	"github.com/james-see/midi2chiptune/pkg/converter"
	"github.com/james-see/midi2chiptune/pkg/converter/chips"
	"github.com/james-see/midi2chiptune/pkg/tui"
	"github.com/james-see/midi2chiptune/pkg/wav"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile  string
	demoOutput  string
	tempo       float64
	sampleRate  int
	workers     int
	maxDuration float64
	verbose     bool
	serverPort  int
	demoMIDI    string
)

var logger = slog.Default()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "midi2chiptune <input.mid> [output.wav] [tempo]",
	Short: "Render MIDI files with an NES-style chip synthesizer",
	Long: `midi2chiptune renders Standard MIDI Files to mono 16-bit WAV audio using
the voices of the NES 2A03: two pulse channels, a triangle and a noise channel.
MIDI channels are folded onto the four voices by channel mod 4.

Run without arguments to write a short demo chord to ` + chips.DemoFilename + `.

Examples:
  midi2chiptune song.mid
  midi2chiptune song.mid song.wav 140
  midi2chiptune song.mid -o out.wav --tempo 90 --sample-rate 22050
  midi2chiptune demo --midi demo.mid
  midi2chiptune serve --port 8080`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:              cobra.RangeArgs(0, 3),
	PersistentPreRunE: validateFlags,
	RunE:              runRender,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Write the three-voice demo chord",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the chip voice used for each MIDI channel",
	Args:  cobra.NoArgs,
	RunE:  runVoices,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	cobra.OnInitialize(initLogger)

	// Global flags
	rootCmd.PersistentFlags().Float64VarP(&tempo, "tempo", "t", converter.DefaultTempo, "Tempo in BPM applied to the whole piece")
	rootCmd.PersistentFlags().IntVarP(&sampleRate, "sample-rate", "r", converter.DefaultSampleRate, "Output sample rate in Hz")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Notes synthesized in parallel (0 = one per CPU)")
	rootCmd.PersistentFlags().Float64Var(&maxDuration, "max-duration", 0, "Refuse pieces longer than this many seconds (0 = no limit)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .wav file path")

	demoCmd.Flags().StringVarP(&demoOutput, "output", "o", chips.DemoFilename, "Output .wav file path")
	demoCmd.Flags().StringVar(&demoMIDI, "midi", "", "Also export the demo chord as a MIDI file")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// initLogger configures the structured logger shared by the commands
func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if tempo <= 0 {
		return fmt.Errorf("invalid tempo %v: must be positive", tempo)
	}
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d: must be positive", sampleRate)
	}
	if maxDuration < 0 {
		return fmt.Errorf("invalid max duration %v: must not be negative", maxDuration)
	}
	return nil
}

func options() converter.Options {
	return converter.Options{
		Tempo:       tempo,
		SampleRate:  sampleRate,
		MaxDuration: maxDuration,
		Logger:      logger,
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: midi2chiptune <input.mid> [output.wav] [tempo]")
		fmt.Println("No input given, generating the demo...")
		return writeDemo(chips.DemoFilename, "")
	}

	input := args[0]
	output := outputFile
	if len(args) >= 2 {
		output = args[1]
	}
	if output == "" {
		output = converter.OutputPath(input)
	}

	opts := options()
	if len(args) >= 3 {
		bpm, err := strconv.ParseFloat(args[2], 64)
		if err != nil || bpm <= 0 {
			return fmt.Errorf("invalid tempo %q", args[2])
		}
		opts.Tempo = bpm
	}

	if _, err := os.Stat(input); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("MIDI file %q not found", input)
	}

	conv := converter.New(chips.NewNES(workers), opts)
	fmt.Printf("Rendering %s -> %s (%.1f BPM, %d Hz)\n", input, output, opts.Tempo, opts.SampleRate)

	result, err := conv.ConvertFile(context.Background(), input, output)
	if err != nil {
		return err
	}

	fmt.Printf("Read MIDI file: format %d, %d tracks, %d ticks/quarter\n",
		result.Format, result.TrackCount, result.TicksPerQuarter)
	fmt.Printf("Found %d notes, %.2f seconds\n", result.Notes, result.Duration)
	fmt.Println("Rendering complete!")
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	return writeDemo(demoOutput, demoMIDI)
}

func writeDemo(wavPath, midiPath string) error {
	if err := wav.WriteFile(wavPath, chips.Demo(sampleRate), sampleRate); err != nil {
		return err
	}
	fmt.Printf("Wrote demo to %s\n", wavPath)

	if midiPath != "" {
		if err := converter.WriteMIDIFile(midiPath, chips.DemoNotes(), 480, tempo); err != nil {
			return fmt.Errorf("failed to write demo MIDI: %w", err)
		}
		fmt.Printf("Wrote demo MIDI to %s\n", midiPath)
	}
	return nil
}

func runVoices(cmd *cobra.Command, args []string) error {
	for i, v := range chips.Voices() {
		fmt.Printf("channels %2d %2d %2d %2d  %-9s %s\n", i, i+4, i+8, i+12, v, v.Description())
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(options(), workers)
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.NewServer(workers, logger).Run(serverPort)
}
