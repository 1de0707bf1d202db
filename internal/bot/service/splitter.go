package service

import "strings"

// SplitText breaks a document into overlapping chunks of roughly chunkSize
// characters, preferring to cut on whitespace so words stay intact.
func SplitText(text string, chunkSize, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	step := chunkSize - overlap
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		cut := end
		if end < len(runes) {
			// walk back to the nearest whitespace, but never shrink a chunk
			// below half its size
			for cut > start+chunkSize/2 && !isSpace(runes[cut-1]) {
				cut--
			}
			if cut == start+chunkSize/2 {
				cut = end
			}
		}

		chunk := strings.TrimSpace(string(runes[start:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if cut == len(runes) || end == len(runes) {
			break
		}
	}

	return chunks
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
