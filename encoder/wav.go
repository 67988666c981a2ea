package encoder

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

const wavHeaderSize = 44

// WavEncoder writes a canonical 44-byte-header PCM WAV file.
type WavEncoder struct{}

func (e *WavEncoder) Ext() string { return "wav" }

func (e *WavEncoder) Encode(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer f.Close()

	pcm := pcm16(samples)
	dataSize := uint32(len(pcm) * 2)

	w := bufio.NewWriter(f)
	w.WriteString("RIFF")
	binary.Write(w, binary.LittleEndian, uint32(wavHeaderSize-8)+dataSize)
	w.WriteString("WAVE")
	w.WriteString("fmt ")
	binary.Write(w, binary.LittleEndian, uint32(16))            // fmt chunk size
	binary.Write(w, binary.LittleEndian, uint16(1))             // PCM
	binary.Write(w, binary.LittleEndian, uint16(Channels))
	binary.Write(w, binary.LittleEndian, uint32(sampleRate))
	binary.Write(w, binary.LittleEndian, uint32(sampleRate*Channels*BitsPerSample/8)) // byte rate
	binary.Write(w, binary.LittleEndian, uint16(Channels*BitsPerSample/8))            // block align
	binary.Write(w, binary.LittleEndian, uint16(BitsPerSample))
	w.WriteString("data")
	binary.Write(w, binary.LittleEndian, dataSize)

	for _, s := range pcm {
		binary.Write(w, binary.LittleEndian, s)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return f.Close()
}
