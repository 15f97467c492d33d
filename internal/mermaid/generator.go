package mermaid

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/rendersync/internal/diagrams"
	"github.com/nguyentantai21042004/rendersync/internal/logger"
	"github.com/nguyentantai21042004/rendersync/pkg/executor"
)

const overviewPrompt = `Generate a Mermaid diagram that visualizes the architecture or workflow described in the following text.

Rules:
- Output ONLY the Mermaid code, starting with the diagram type (graph, sequenceDiagram, classDiagram, etc.)
- Do NOT include triple backticks or any markdown formatting
- Keep it simple and focused on the main architecture components mentioned
- Use clear, short labels for nodes
- If the text describes a sequence of operations, use sequenceDiagram
- If the text describes system architecture, use graph TD (top-down flowchart)
- If the text describes data flow, use graph LR (left-right flowchart)
- Maximum 8 nodes for clarity

Text to visualize:
%s`

const topicPrompt = `Generate a Mermaid diagram focused specifically on the following concepts: %s

Context from the narration:
%s

Rules:
- Output ONLY the Mermaid code, starting with the diagram type (graph, sequenceDiagram, classDiagram, etc.)
- Do NOT include triple backticks or any markdown formatting
- Create a DIFFERENT diagram from any previous ones - focus on the relationships and details specific to these concepts
- Use clear, short labels for nodes
- Maximum 8 nodes for clarity
- Choose the most appropriate diagram type for these specific concepts`

// Client generates Mermaid diagram code with Gemini and rasterizes it
// through the external Mermaid CLI. It implements diagrams.Generator.
type Client struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	binary     string
	outDir     string
	nextID     int
	executor   executor.Executor
	logger     logger.Logger
}

// NewClient creates a Client that rotates through the supplied Gemini API
// keys and writes rendered PNGs into outDir.
func NewClient(apiKeys []string, model, binary, outDir string, exec executor.Executor, log logger.Logger) *Client {
	return &Client{
		apiKeys:  apiKeys,
		model:    model,
		binary:   binary,
		outDir:   outDir,
		executor: exec,
		logger:   log,
	}
}

// GenerateTopicAsset produces a diagram focused on one keyword window's
// concepts, scoped by a narration excerpt. The asset handle is the rendered
// PNG path.
func (c *Client) GenerateTopicAsset(ctx context.Context, keywords []string, contextText string) (diagrams.Asset, error) {
	prompt := fmt.Sprintf(topicPrompt, strings.Join(keywords, ", "), contextText)

	code, err := c.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate topic diagram: %w", err)
	}

	outputPath := c.nextOutputPath("topic_diagram")
	if err := c.render(ctx, code, outputPath); err != nil {
		return "", fmt.Errorf("render topic diagram: %w", err)
	}

	return diagrams.Asset(outputPath), nil
}

// PrepareAssets builds the pre-rendered asset pool for one narration: fenced
// Mermaid blocks embedded in the text are rendered directly; when the text
// carries none, one overview diagram is generated from the whole narration.
// Render failures skip the individual diagram; the result may be empty.
func (c *Client) PrepareAssets(ctx context.Context, text string) []diagrams.Asset {
	blocks := ExtractBlocks(text)

	if len(blocks) == 0 {
		code, err := c.generate(ctx, fmt.Sprintf(overviewPrompt, text))
		if err != nil {
			c.logger.Warn(ctx, "Overview diagram generation failed: %v", err)
			return nil
		}
		blocks = []string{code}
	}

	var assets []diagrams.Asset
	for i, code := range blocks {
		outputPath := c.nextOutputPath("diagram")
		if err := c.render(ctx, code, outputPath); err != nil {
			c.logger.Warn(ctx, "Failed to render diagram %d: %v", i, err)
			continue
		}
		assets = append(assets, diagrams.Asset(outputPath))
	}

	return assets
}

// generate asks Gemini for Mermaid code, rotating API keys on rate-limit or
// quota errors, and rejects responses that do not look like a diagram.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if len(c.apiKeys) == 0 {
		return "", fmt.Errorf("no API keys configured")
	}

	attempts := len(c.apiKeys)
	var lastErr error

	for range attempts {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.takeKey(),
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			c.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
		if err != nil {
			if isQuotaError(err) {
				c.logger.Warn(ctx, "Gemini key rate limited, rotating")
				c.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		code := responseText(result)
		if code == "" {
			return "", fmt.Errorf("empty response from Gemini")
		}
		if !looksLikeMermaid(code) {
			return "", fmt.Errorf("response is not Mermaid code")
		}
		return code, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (c *Client) takeKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKeys[c.currentKey]
}

func (c *Client) rotateKey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
}

func (c *Client) nextOutputPath(prefix string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	path := fmt.Sprintf("%s/%s_%d.png", c.outDir, prefix, c.nextID)
	c.nextID++
	return path
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return strings.TrimSpace(text)
}

// looksLikeMermaid is a cheap sanity check that the model returned diagram
// code rather than prose.
func looksLikeMermaid(code string) bool {
	lower := strings.ToLower(code)
	for _, kw := range []string{"graph", "sequencediagram", "classdiagram", "flowchart"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
