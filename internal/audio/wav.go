package audio

import "encoding/binary"

const wavHeaderSize = 44

// EncodeWAV packs float32 samples into a mono 16-bit little-endian PCM WAV
// container with the standard 44-byte header. Each sample in [-1,1] is
// scaled by 32767 and truncated; there is no dithering or clipping guard
// beyond the implicit range of the source.
func EncodeWAV(samples []float32, sampleRate int) []byte {
	dataLen := len(samples) * 2
	buf := make([]byte, wavHeaderSize+dataLen)

	const numChannels = 1
	byteRate := sampleRate * numChannels * 2
	blockAlign := numChannels * 2

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // PCM chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(buf[22:24], numChannels)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], 16) // bits per sample
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))

	off := wavHeaderSize
	for _, s := range samples {
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(int16(s*32767)))
		off += 2
	}
	return buf
}
