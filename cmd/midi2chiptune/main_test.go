package main

import (
	"os"
	"strings"
	"testing"

	"github.com/james-see/midi2chiptune/pkg/converter"
	"github.com/james-see/midi2chiptune/pkg/converter/chips"
)

// execute runs the root command in a fresh temp dir holding song.mid
func execute(t *testing.T, args ...string) error {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	if err := converter.WriteMIDIFile("song.mid", chips.DemoNotes(), 480, 120); err != nil {
		t.Fatal(err)
	}

	// flag values survive between Execute calls
	outputFile = ""
	demoOutput = chips.DemoFilename
	demoMIDI = ""
	tempo = converter.DefaultTempo
	sampleRate = converter.DefaultSampleRate
	workers = 0
	maxDuration = 0
	verbose = false

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func fileSize(t *testing.T, name string) int64 {
	t.Helper()
	info, err := os.Stat(name)
	if err != nil {
		t.Fatalf("%s not written: %v", name, err)
	}
	return info.Size()
}

func assertMissing(t *testing.T, name string) {
	t.Helper()
	if _, err := os.Stat(name); !os.IsNotExist(err) {
		t.Errorf("%s should not exist (stat error = %v)", name, err)
	}
}

func TestRenderDefaultOutputPath(t *testing.T) {
	if err := execute(t, "--sample-rate", "8000", "song.mid"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// three 2s notes plus the 1s tail at 8 kHz
	if got, want := fileSize(t, "song.wav"), int64(44+24000*2); got != want {
		t.Errorf("song.wav size = %d, want %d", got, want)
	}
	assertMissing(t, chips.DemoFilename)
}

func TestRenderOutputFlag(t *testing.T) {
	if err := execute(t, "-r", "8000", "-o", "flagged.wav", "song.mid"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	fileSize(t, "flagged.wav")
	assertMissing(t, "song.wav")
}

func TestRenderPositionalOutputAndTempo(t *testing.T) {
	if err := execute(t, "-r", "8000", "-o", "ignored.wav", "song.mid", "out.wav", "240"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// double tempo halves the notes to 1s
	if got, want := fileSize(t, "out.wav"), int64(44+16000*2); got != want {
		t.Errorf("out.wav size = %d, want %d", got, want)
	}
	assertMissing(t, "ignored.wav")
	assertMissing(t, "song.wav")
}

func TestNoArgsWritesDemo(t *testing.T) {
	if err := execute(t, "-r", "8000"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got, want := fileSize(t, chips.DemoFilename), int64(44+16000*2); got != want {
		t.Errorf("demo size = %d, want %d", got, want)
	}
}

func TestDemoCommand(t *testing.T) {
	if err := execute(t, "demo", "-r", "8000", "-o", "chord.wav", "--midi", "chord.mid"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	fileSize(t, "chord.wav")
	fileSize(t, "chord.mid")
	assertMissing(t, chips.DemoFilename)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"missing input", []string{"nope.mid"}, "not found"},
		{"zero tempo flag", []string{"--tempo", "0", "song.mid"}, "invalid tempo"},
		{"negative tempo flag", []string{"--tempo=-5", "song.mid"}, "invalid tempo"},
		{"bad positional tempo", []string{"song.mid", "x.wav", "fast"}, "invalid tempo"},
		{"zero sample rate", []string{"demo", "--sample-rate", "0"}, "invalid sample rate"},
		{"too long", []string{"--max-duration", "1", "song.mid"}, "too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Fatalf("Execute() error = %v, want it to contain %q", err, tt.contains)
			}
			assertMissing(t, chips.DemoFilename)
		})
	}
}
