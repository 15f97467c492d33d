package mermaid

import (
	"reflect"
	"testing"
)

func TestExtractBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single block",
			text: "intro\n```mermaid\ngraph TD\nA --> B\n```\noutro",
			want: []string{"graph TD\nA --> B"},
		},
		{
			name: "multiple blocks",
			text: "```mermaid\ngraph LR\nX --> Y\n```\ntext\n```mermaid\nsequenceDiagram\nA->>B: hi\n```",
			want: []string{"graph LR\nX --> Y", "sequenceDiagram\nA->>B: hi"},
		},
		{
			name: "case insensitive fence",
			text: "```Mermaid\ngraph TD\nA --> B\n```",
			want: []string{"graph TD\nA --> B"},
		},
		{
			name: "no blocks",
			text: "plain narration with no diagrams at all",
			want: nil,
		},
		{
			name: "other code fences ignored",
			text: "```python\nprint('hi')\n```",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractBlocks(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractBlocks() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLooksLikeMermaid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"graph TD\nA --> B", true},
		{"sequenceDiagram\nA->>B: hello", true},
		{"flowchart LR\nX --> Y", true},
		{"Sorry, I cannot help with that.", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := looksLikeMermaid(tt.code); got != tt.want {
			t.Errorf("looksLikeMermaid(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
