package ontology

import (
	"github.com/ontolab/ontoeval/internal/index"
	"github.com/ontolab/ontoeval/internal/tools"
)

func GetTools(evaluator *Evaluator, store *index.Store) []tools.Tool {
	return []tools.Tool{
		NewEvaluateTool(evaluator),
		NewReportTool(evaluator),
		NewCompareTool(evaluator),
		NewListTool(store),
		NewHistoryTool(store),
	}
}
