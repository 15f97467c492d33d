package mermaid

import (
	"regexp"
	"strings"
)

var mermaidBlock = regexp.MustCompile("(?is)```mermaid\\s*\\n(.*?)\\n```")

// ExtractBlocks returns the fenced Mermaid code blocks found in text, fences
// stripped, in document order.
func ExtractBlocks(text string) []string {
	var blocks []string
	for _, m := range mermaidBlock.FindAllStringSubmatch(text, -1) {
		if code := strings.TrimSpace(m[1]); code != "" {
			blocks = append(blocks, code)
		}
	}
	return blocks
}
