package vector

import (
	"strings"

	"github.com/datanaut/naqo/internal/domain"
)

// GenerateDescription builds the descriptive text an item is embedded from.
// It is deterministic: identical input always yields identical output. The
// template combines name tokens, the declared type, and keyword-driven
// phrases so that semantically related names land near each other.
func GenerateDescription(item domain.SchemaItem) string {
	tokens := nameTokens(item.Name)
	joined := strings.Join(tokens, " ")

	if item.Kind == domain.KindTable {
		var b strings.Builder
		if hasToken(tokens, "analytics") {
			b.WriteString("Analytics data table containing ")
			b.WriteString(joined)
			if hasToken(tokens, "final") {
				b.WriteString(" with final processed results")
			}
			if hasToken(tokens, "output") {
				b.WriteString(" containing output data and analytics")
			}
		} else {
			b.WriteString("Database table named ")
			b.WriteString(joined)
		}

		if hasToken(tokens, "refresh") || hasToken(tokens, "update") {
			b.WriteString(" with refreshed updated data")
		}
		if hasToken(tokens, "prediction") || hasToken(tokens, "forecast") {
			b.WriteString(" containing predictive analytics and forecasts")
		}
		if hasToken(tokens, "feature") || hasToken(tokens, "features") {
			b.WriteString(" with feature engineering and data features")
		}

		return b.String()
	}

	var b strings.Builder
	b.WriteString("Database column ")
	b.WriteString(joined)

	if item.DataType != "" {
		b.WriteString(" of type ")
		b.WriteString(item.DataType)
	}

	switch {
	case hasToken(tokens, "id") || hasToken(tokens, "key"):
		b.WriteString(" serving as identifier or key")
	case hasToken(tokens, "date") || hasToken(tokens, "time"):
		b.WriteString(" containing date or time information")
	case hasToken(tokens, "name") || hasToken(tokens, "title"):
		b.WriteString(" containing name or title text")
	case hasToken(tokens, "count") || hasToken(tokens, "number") || hasToken(tokens, "amount"):
		b.WriteString(" containing numeric count or amount data")
	}

	if item.TableName != "" {
		b.WriteString(" from table ")
		b.WriteString(item.TableName)
	}

	return b.String()
}

// nameTokens splits a schema name into lowercase words.
func nameTokens(name string) []string {
	lowered := strings.ToLower(name)
	lowered = strings.ReplaceAll(lowered, "_", " ")
	lowered = strings.ReplaceAll(lowered, "-", " ")
	return strings.Fields(lowered)
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}
