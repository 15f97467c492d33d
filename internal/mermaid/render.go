package mermaid

import (
	"context"
	"fmt"
	"os"
)

// render writes the Mermaid code to a temporary .mmd file and rasterizes it
// with the Mermaid CLI. Rasterization stays outside this process; the CLI
// owns the pixels.
func (c *Client) render(ctx context.Context, code, outputPath string) error {
	tmp, err := os.CreateTemp("", "rendersync-*.mmd")
	if err != nil {
		return fmt.Errorf("create mermaid temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(code); err != nil {
		tmp.Close()
		return fmt.Errorf("write mermaid code: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close mermaid temp file: %w", err)
	}

	args := []string{
		"-i", tmp.Name(),
		"-o", outputPath,
		"-b", "transparent",
	}
	if _, err := c.executor.Execute(ctx, c.binary, args...); err != nil {
		return fmt.Errorf("mmdc render: %w", err)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("mmdc produced no output: %w", err)
	}
	return nil
}
