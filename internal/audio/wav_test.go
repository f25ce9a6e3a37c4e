package audio

import (
	"encoding/binary"
	"testing"
)

func TestEncodeWAVHeader(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1}
	b := EncodeWAV(samples, 44100)

	if len(b) != 44+len(samples)*2 {
		t.Fatalf("encoded length = %d, want %d", len(b), 44+len(samples)*2)
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE markers")
	}
	if got := binary.LittleEndian.Uint32(b[4:8]); got != uint32(36+len(samples)*2) {
		t.Errorf("riff size = %d, want %d", got, 36+len(samples)*2)
	}
	if got := binary.LittleEndian.Uint16(b[20:22]); got != 1 {
		t.Errorf("audio format = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(b[22:24]); got != 1 {
		t.Errorf("channels = %d, want mono", got)
	}
	if got := binary.LittleEndian.Uint32(b[24:28]); got != 44100 {
		t.Errorf("sample rate = %d, want 44100", got)
	}
	if got := binary.LittleEndian.Uint32(b[28:32]); got != 44100*2 {
		t.Errorf("byte rate = %d, want %d", got, 44100*2)
	}
	if got := binary.LittleEndian.Uint16(b[32:34]); got != 2 {
		t.Errorf("block align = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint16(b[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if string(b[36:40]) != "data" {
		t.Error("missing data marker")
	}
	if got := binary.LittleEndian.Uint32(b[40:44]); got != uint32(len(samples)*2) {
		t.Errorf("data size = %d, want %d", got, len(samples)*2)
	}
}

func TestEncodeWAVSamples(t *testing.T) {
	tests := []struct {
		name   string
		sample float32
		want   int16
	}{
		{"silence", 0, 0},
		{"full positive", 1, 32767},
		{"full negative", -1, -32767},
		{"half positive", 0.5, 16383},
		{"half negative", -0.5, -16383},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := EncodeWAV([]float32{tt.sample}, 44100)
			got := int16(binary.LittleEndian.Uint16(b[44:46]))
			if got != tt.want {
				t.Errorf("encoded %v as %d, want %d", tt.sample, got, tt.want)
			}
		})
	}
}

func TestEncodeWAVEmpty(t *testing.T) {
	b := EncodeWAV(nil, 44100)
	if len(b) != 44 {
		t.Fatalf("empty encode length = %d, want 44", len(b))
	}
	if got := binary.LittleEndian.Uint32(b[40:44]); got != 0 {
		t.Errorf("data size = %d, want 0", got)
	}
}
