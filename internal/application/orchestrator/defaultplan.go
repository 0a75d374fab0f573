package orchestrator

import "github.com/datanaut/naqo/internal/domain"

// DefaultPlan is the fixed seven-step pipeline used whenever the planner is
// unavailable or returns an unusable plan. Task IDs carry a numeric prefix so
// that "from_task_N" references in input specs resolve against them.
func DefaultPlan(userQuery string) []domain.AgentTask {
	return []domain.AgentTask{
		{
			ID:             "1_discover_schema",
			Type:           domain.TaskSchemaDiscovery,
			InputData:      map[string]any{"query": userQuery},
			RequiredOutput: map[string]any{"schema_context": "discovered_tables_and_columns"},
			Constraints:    map[string]any{"max_tables": 20},
		},
		{
			ID:             "2_semantic_analysis",
			Type:           domain.TaskSemanticUnderstanding,
			InputData:      map[string]any{"query": userQuery},
			RequiredOutput: map[string]any{"entities": "extracted_entities", "intent": "business_intent"},
			Constraints:    map[string]any{},
		},
		{
			ID:             "3_similarity_matching",
			Type:           domain.TaskSimilarityMatching,
			InputData:      map[string]any{"entities": "from_task_2", "schema": "from_task_1"},
			RequiredOutput: map[string]any{"matched_tables": "relevant_tables", "matched_columns": "relevant_columns"},
			Constraints:    map[string]any{"min_similarity": 0.7},
			Dependencies:   []string{"1_discover_schema", "2_semantic_analysis"},
		},
		{
			ID:             "4_user_verification",
			Type:           domain.TaskUserInteraction,
			InputData:      map[string]any{"proposed_matches": "from_task_3"},
			RequiredOutput: map[string]any{"confirmed_tables": "user_approved_tables", "confirmed_columns": "user_approved_columns"},
			Constraints:    map[string]any{"require_explicit_approval": true},
			Dependencies:   []string{"3_similarity_matching"},
		},
		{
			ID:             "5_query_generation",
			Type:           domain.TaskQueryGeneration,
			InputData:      map[string]any{"confirmed_schema": "from_task_4", "original_query": userQuery},
			RequiredOutput: map[string]any{"sql_query": "generated_sql", "explanation": "query_explanation"},
			Constraints:    map[string]any{"add_safety_checks": true},
			Dependencies:   []string{"4_user_verification"},
		},
		{
			ID:             "6_query_execution",
			Type:           domain.TaskExecution,
			InputData:      map[string]any{"validated_query": "from_task_5"},
			RequiredOutput: map[string]any{"results": "query_results", "metadata": "execution_metadata"},
			Constraints:    map[string]any{"timeout": 300, "max_rows": 10000},
			Dependencies:   []string{"5_query_generation"},
		},
		{
			ID:             "7_visualization",
			Type:           domain.TaskVisualization,
			InputData:      map[string]any{"results": "from_task_6", "original_query": userQuery},
			RequiredOutput: map[string]any{"charts": "interactive_charts", "summary": "narrative_summary"},
			Constraints:    map[string]any{"interactive": true},
			Dependencies:   []string{"6_query_execution"},
		},
	}
}
