package domain

// AgentCapability is a static descriptor of what one agent can do. The
// registry is read-only; capabilities have no lifecycle.
type AgentCapability struct {
	AgentName        string   `json:"agent_name"`
	Description      string   `json:"description"`
	InputTypes       []string `json:"input_types"`
	OutputTypes      []string `json:"output_types"`
	CostFactor       float64  `json:"cost_factor"`
	ReliabilityScore float64  `json:"reliability_score"`
	Domains          []string `json:"specialized_domains"`
}

// Capabilities returns the static agent registry.
func Capabilities() map[string]AgentCapability {
	return map[string]AgentCapability{
		"schema_discoverer": {
			AgentName:        "schema_discoverer",
			Description:      "Discovers database schema, tables, columns, relationships",
			InputTypes:       []string{"natural_language_query", "database_connection"},
			OutputTypes:      []string{"schema_context", "table_list", "column_mappings"},
			CostFactor:       0.3,
			ReliabilityScore: 0.95,
			Domains:          []string{"database", "schema", "metadata"},
		},
		"semantic_analyzer": {
			AgentName:        "semantic_analyzer",
			Description:      "Understands business intent and extracts entities",
			InputTypes:       []string{"natural_language_query", "business_context"},
			OutputTypes:      []string{"entities", "intent", "business_terms"},
			CostFactor:       0.2,
			ReliabilityScore: 0.90,
			Domains:          []string{"nlp", "business_logic"},
		},
		"vector_matcher": {
			AgentName:        "vector_matcher",
			Description:      "Performs similarity matching between query and schema",
			InputTypes:       []string{"entities", "schema_context", "embeddings"},
			OutputTypes:      []string{"similarity_scores", "matched_tables", "matched_columns"},
			CostFactor:       0.4,
			ReliabilityScore: 0.88,
			Domains:          []string{"vector_search", "embeddings", "similarity"},
		},
		"query_builder": {
			AgentName:        "query_builder",
			Description:      "Generates SQL queries with validation and safety checks",
			InputTypes:       []string{"matched_schema", "business_logic", "filters"},
			OutputTypes:      []string{"sql_query", "explanation", "safety_assessment"},
			CostFactor:       0.3,
			ReliabilityScore: 0.92,
			Domains:          []string{"sql", "query_optimization", "safety"},
		},
		"user_verifier": {
			AgentName:        "user_verifier",
			Description:      "Interacts with user to confirm schema selections and queries",
			InputTypes:       []string{"proposed_tables", "proposed_columns", "generated_query"},
			OutputTypes:      []string{"user_confirmation", "modifications", "approval"},
			CostFactor:       0.1,
			ReliabilityScore: 0.98,
			Domains:          []string{"user_interaction", "verification", "confirmation"},
		},
		"query_executor": {
			AgentName:        "query_executor",
			Description:      "Safely executes queries and handles results",
			InputTypes:       []string{"validated_query", "database_connection", "safety_params"},
			OutputTypes:      []string{"query_results", "execution_stats", "error_handling"},
			CostFactor:       0.5,
			ReliabilityScore: 0.94,
			Domains:          []string{"execution", "database", "safety"},
		},
		"visualizer": {
			AgentName:        "visualizer",
			Description:      "Creates interactive visualizations and summaries",
			InputTypes:       []string{"query_results", "data_types", "user_preferences"},
			OutputTypes:      []string{"charts", "tables", "narrative_summary"},
			CostFactor:       0.3,
			ReliabilityScore: 0.89,
			Domains:          []string{"visualization", "charts", "reporting"},
		},
	}
}

// AgentForTask maps a task type to the agent that handles it.
func AgentForTask(t TaskType) string {
	switch t {
	case TaskSchemaDiscovery:
		return "schema_discoverer"
	case TaskSemanticUnderstanding:
		return "semantic_analyzer"
	case TaskSimilarityMatching:
		return "vector_matcher"
	case TaskUserInteraction:
		return "user_verifier"
	case TaskQueryGeneration:
		return "query_builder"
	case TaskExecution:
		return "query_executor"
	case TaskVisualization:
		return "visualizer"
	default:
		return "schema_discoverer"
	}
}
