package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/datanaut/naqo/internal/domain"
	"go.uber.org/zap"
)

// Planner asks Claude for an execution plan and parses the JSON task array
// out of the reply. Any failure, from transport to parse, is returned as an
// error; the orchestrator decides what to fall back to.
type Planner struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	logger    *zap.Logger
}

// NewPlanner creates an Anthropic-backed planner.
func NewPlanner(apiKey, model string, maxTokens int, logger *zap.Logger) *Planner {
	return &Planner{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: int64(maxTokens),
		logger:    logger,
	}
}

// planTask is the wire shape of one task in the model's reply.
type planTask struct {
	TaskID            string         `json:"task_id"`
	TaskType          string         `json:"task_type"`
	InputRequirements map[string]any `json:"input_requirements"`
	OutputExpectation map[string]any `json:"output_expectations"`
	Constraints       map[string]any `json:"constraints"`
	Dependencies      []string       `json:"dependencies"`
}

// Plan requests an execution plan for the query.
func (p *Planner) Plan(ctx context.Context, query string, planContext map[string]any) ([]domain.AgentTask, error) {
	prompt := buildPrompt(query, planContext)

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("planning request failed: %w", err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		content.WriteString(block.Text)
	}

	tasks, err := parsePlan(content.String())
	if err != nil {
		return nil, err
	}

	p.logger.Info("planner produced plan",
		zap.String("model", p.model),
		zap.Int("tasks", len(tasks)))
	return tasks, nil
}

// parsePlan extracts the JSON task array from the model reply and converts it.
func parsePlan(content string) ([]domain.AgentTask, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no task array in planner reply")
	}

	var raw []planTask
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse task plan: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("planner reply contains no tasks")
	}

	tasks := make([]domain.AgentTask, len(raw))
	for i, t := range raw {
		taskType := domain.TaskType(t.TaskType)
		if !taskType.Valid() {
			return nil, fmt.Errorf("planner produced unknown task type %q", t.TaskType)
		}
		id := t.TaskID
		if id == "" {
			id = fmt.Sprintf("task_%d", i)
		}
		tasks[i] = domain.AgentTask{
			ID:             id,
			Type:           taskType,
			InputData:      t.InputRequirements,
			RequiredOutput: t.OutputExpectation,
			Constraints:    t.Constraints,
			Dependencies:   t.Dependencies,
		}
	}
	return tasks, nil
}

// buildPrompt renders the planning prompt with the agent registry.
func buildPrompt(query string, planContext map[string]any) string {
	contextJSON, _ := json.MarshalIndent(planContext, "", "  ")

	var b strings.Builder
	b.WriteString("You are an intelligent query orchestrator. Analyze this user query and create an execution plan using available agents.\n\n")
	fmt.Fprintf(&b, "USER QUERY: %q\n", query)
	fmt.Fprintf(&b, "CONTEXT: %s\n\n", contextJSON)
	b.WriteString("AVAILABLE AGENTS:\n")
	b.WriteString(formatCapabilities())
	b.WriteString("\nCreate a step-by-step execution plan that:\n")
	b.WriteString("1. Discovers relevant database schema automatically\n")
	b.WriteString("2. Performs semantic understanding of the query\n")
	b.WriteString("3. Uses similarity matching to find best table/column matches\n")
	b.WriteString("4. Gets user verification for schema selections\n")
	b.WriteString("5. Generates SQL query based on verified matches\n")
	b.WriteString("6. Executes the validated query\n")
	b.WriteString("7. Creates appropriate visualizations\n\n")
	b.WriteString("Return a JSON array of tasks with:\n")
	b.WriteString("- task_id: unique identifier\n")
	b.WriteString("- task_type: one of the available task types\n")
	b.WriteString("- input_requirements: what data this task needs\n")
	b.WriteString("- output_expectations: what this task will produce\n")
	b.WriteString("- dependencies: which other tasks must complete first\n\n")
	b.WriteString("Focus on creating an automated flow that only asks user for verification of schema selections.\n")
	return b.String()
}

func formatCapabilities() string {
	var b strings.Builder
	for _, cap := range domain.Capabilities() {
		fmt.Fprintf(&b, "- %s: %s\n", cap.AgentName, cap.Description)
		fmt.Fprintf(&b, "  Inputs: %s\n", strings.Join(cap.InputTypes, ", "))
		fmt.Fprintf(&b, "  Outputs: %s\n", strings.Join(cap.OutputTypes, ", "))
		fmt.Fprintf(&b, "  Domains: %s\n", strings.Join(cap.Domains, ", "))
	}
	return b.String()
}
