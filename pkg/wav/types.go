// Package wav quantizes float samples and writes mono 16-bit PCM WAV data
package wav

// Header is the canonical 44-byte RIFF/WAVE header for PCM data
type Header struct {
	// RIFF header
	RiffID   [4]byte // "RIFF"
	FileSize uint32  // 36 + DataSize
	WaveID   [4]byte // "WAVE"

	// fmt sub-chunk
	FmtID         [4]byte // "fmt "
	FmtSize       uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample/8
	BlockAlign    uint16 // NumChannels * BitsPerSample/8
	BitsPerSample uint16

	// data sub-chunk
	DataID   [4]byte // "data"
	DataSize uint32
}

const (
	HeaderSize    = 44
	PCMFormat     = 1
	BitsPerSample = 16
	MonoChannels  = 1
	fmtChunkSize  = 16
)

// NewHeader fills in the derived fields of a PCM header
func NewHeader(sampleRate uint32, numChannels, bitsPerSample uint16, dataSize uint32) Header {
	return Header{
		RiffID:        [4]byte{'R', 'I', 'F', 'F'},
		FileSize:      36 + dataSize,
		WaveID:        [4]byte{'W', 'A', 'V', 'E'},
		FmtID:         [4]byte{'f', 'm', 't', ' '},
		FmtSize:       fmtChunkSize,
		AudioFormat:   PCMFormat,
		NumChannels:   numChannels,
		SampleRate:    sampleRate,
		ByteRate:      sampleRate * uint32(numChannels) * uint32(bitsPerSample) / 8,
		BlockAlign:    numChannels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		DataID:        [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataSize,
	}
}
