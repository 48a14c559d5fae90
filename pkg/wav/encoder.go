package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Encode writes samples as a mono 16-bit PCM WAV stream
func Encode(w io.Writer, samples []float64, sampleRate int) error {
	pcm := ToPCM16(samples)
	header := NewHeader(uint32(sampleRate), MonoChannels, BitsPerSample, uint32(len(pcm)*2))

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("error writing WAV header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, pcm); err != nil {
		return fmt.Errorf("error writing audio data: %w", err)
	}
	return nil
}

// Bytes returns the complete WAV file for samples
func Bytes(samples []float64, sampleRate int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(samples)*2)
	if err := Encode(&buf, samples, sampleRate); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders samples to a WAV file on disk
func WriteFile(filename string, samples []float64, sampleRate int) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing output file: %w", cerr)
		}
	}()

	// The go-audio encoder only emits a header once data arrives.
	if len(samples) == 0 {
		return Encode(file, samples, sampleRate)
	}

	pcm := ToPCM16(samples)
	data := make([]int, len(pcm))
	for i, s := range pcm {
		data[i] = int(s)
	}

	enc := wav.NewEncoder(file, sampleRate, BitsPerSample, MonoChannels, PCMFormat)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: MonoChannels},
		SourceBitDepth: BitsPerSample,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("error writing audio data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("error finalizing WAV file: %w", err)
	}
	return nil
}
