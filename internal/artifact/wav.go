package artifact

import "encoding/binary"

const (
	wavHeaderSize   = 44
	wavFmtChunkSize = 16
	wavRIFFOverhead = 36 // header bytes counted in the RIFF chunk size

	bitsPerSample = 16
	numChannels   = 1
	bitsPerByte   = 8
)

// encodeWAV wraps raw 16-bit little-endian mono PCM in a WAV container.
func encodeWAV(pcm []byte, sampleRate int) []byte {
	dataSize := len(pcm)
	byteRate := sampleRate * numChannels * bitsPerSample / bitsPerByte
	blockAlign := numChannels * bitsPerSample / bitsPerByte

	wav := make([]byte, wavHeaderSize+dataSize)

	// RIFF chunk descriptor
	copy(wav[0:4], "RIFF")
	binary.LittleEndian.PutUint32(wav[4:8], uint32(wavRIFFOverhead+dataSize))
	copy(wav[8:12], "WAVE")

	// "fmt " sub-chunk
	copy(wav[12:16], "fmt ")
	binary.LittleEndian.PutUint32(wav[16:20], wavFmtChunkSize)
	binary.LittleEndian.PutUint16(wav[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(wav[22:24], numChannels)
	binary.LittleEndian.PutUint32(wav[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(wav[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(wav[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(wav[34:36], bitsPerSample)

	// "data" sub-chunk
	copy(wav[36:40], "data")
	binary.LittleEndian.PutUint32(wav[40:44], uint32(dataSize))

	copy(wav[wavHeaderSize:], pcm)
	return wav
}
