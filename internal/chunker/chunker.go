// Package chunker splits extracted document text into fixed-size overlapping
// windows. Each window is the atomic unit stored and retrieved by the index.
package chunker

// Split cuts text into windows of size bytes, each overlapping the previous
// one by overlap bytes. The final window may be shorter than size. Empty
// input yields no windows.
func Split(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(text); start += step {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
