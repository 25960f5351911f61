package transcribe

import "time"

// DefaultChunkLength is the fixed recognition window.
const DefaultChunkLength = 30 * time.Second

// Chunk is one recognition window of a waveform.
type Chunk struct {
	Index    int
	Start    time.Duration
	Duration time.Duration
}

// End returns the exclusive end offset of the chunk.
func (c Chunk) End() time.Duration {
	return c.Start + c.Duration
}

// PlanChunks splits total into consecutive windows of length; the last window
// holds the remainder. A non-positive total yields no chunks.
func PlanChunks(total, length time.Duration) []Chunk {
	if total <= 0 {
		return nil
	}
	if length <= 0 {
		length = DefaultChunkLength
	}
	chunks := make([]Chunk, 0, int(total/length)+1)
	for start := time.Duration(0); start < total; start += length {
		chunks = append(chunks, Chunk{
			Index:    len(chunks),
			Start:    start,
			Duration: min(length, total-start),
		})
	}
	return chunks
}
