package orchestrator

import (
	"testing"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPlan_Shape(t *testing.T) {
	plan := DefaultPlan("show sales by region")
	require.Len(t, plan, 7)

	ids := make([]string, len(plan))
	for i, task := range plan {
		ids[i] = task.ID
	}
	assert.Equal(t, []string{
		"1_discover_schema",
		"2_semantic_analysis",
		"3_similarity_matching",
		"4_user_verification",
		"5_query_generation",
		"6_query_execution",
		"7_visualization",
	}, ids)

	assert.Equal(t, domain.TaskUserInteraction, plan[3].Type)
	assert.True(t, plan[3].Type.Critical())
}

func TestDefaultPlan_Dependencies(t *testing.T) {
	plan := DefaultPlan("q")

	assert.Empty(t, plan[0].Dependencies)
	assert.Empty(t, plan[1].Dependencies)
	assert.Equal(t, []string{"1_discover_schema", "2_semantic_analysis"}, plan[2].Dependencies)
	assert.Equal(t, []string{"3_similarity_matching"}, plan[3].Dependencies)
	assert.Equal(t, []string{"4_user_verification"}, plan[4].Dependencies)
	assert.Equal(t, []string{"5_query_generation"}, plan[5].Dependencies)
	assert.Equal(t, []string{"6_query_execution"}, plan[6].Dependencies)
}

func TestDefaultPlan_InputReferences(t *testing.T) {
	plan := DefaultPlan("top customers")

	assert.Equal(t, "top customers", plan[0].InputData["query"])
	assert.Equal(t, "from_task_2", plan[2].InputData["entities"])
	assert.Equal(t, "from_task_1", plan[2].InputData["schema"])
	assert.Equal(t, "from_task_3", plan[3].InputData["proposed_matches"])
	assert.Equal(t, "from_task_4", plan[4].InputData["confirmed_schema"])
	assert.Equal(t, "from_task_5", plan[5].InputData["validated_query"])
	assert.Equal(t, "from_task_6", plan[6].InputData["results"])
}

func TestDefaultPlan_Constraints(t *testing.T) {
	plan := DefaultPlan("q")

	assert.Equal(t, 20, plan[0].Constraints["max_tables"])
	assert.Equal(t, 0.7, plan[2].Constraints["min_similarity"])
	assert.Equal(t, true, plan[3].Constraints["require_explicit_approval"])
	assert.Equal(t, true, plan[4].Constraints["add_safety_checks"])
	assert.Equal(t, 300, plan[5].Constraints["timeout"])
	assert.Equal(t, 10000, plan[5].Constraints["max_rows"])
	assert.Equal(t, true, plan[6].Constraints["interactive"])
}
