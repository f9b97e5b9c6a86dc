package services

import (
	"strings"

	"github.com/skald-ai/skald-engine/pkg/models"
)

// BuildEntityGraph builds an adjacency map from entity name to related
// entity names. Every entity becomes a node. Edges are directed from the
// entities touching a relationship's FromView to those touching its ToView;
// self-edges are excluded and duplicates collapse.
func BuildEntityGraph(entities []*models.BusinessEntity, relationships []models.Relationship) map[string][]string {
	graph := make(map[string][]string)

	for _, entity := range entities {
		if _, ok := graph[entity.Name]; !ok {
			graph[entity.Name] = []string{}
		}
	}

	for _, rel := range relationships {
		var fromEntities, toEntities []*models.BusinessEntity
		for _, entity := range entities {
			if containsString(entity.Views, rel.FromView) {
				fromEntities = append(fromEntities, entity)
			}
			if containsString(entity.Views, rel.ToView) {
				toEntities = append(toEntities, entity)
			}
		}

		for _, from := range fromEntities {
			for _, to := range toEntities {
				if from.Name == to.Name {
					continue
				}
				if !containsString(graph[from.Name], to.Name) {
					graph[from.Name] = append(graph[from.Name], to.Name)
				}
			}
		}
	}

	return graph
}

// SuggestJoinColumn proposes a join key for a relationship between two
// entities: the first identifier column both sides share. Best-effort hint
// only; an empty result means no suggestion.
func SuggestJoinColumn(from, to *models.BusinessEntity) string {
	if from == nil || to == nil {
		return ""
	}
	for _, col := range from.Columns {
		if !strings.HasSuffix(strings.ToLower(col), "_id") {
			continue
		}
		if containsString(to.Columns, col) {
			return col
		}
	}
	return ""
}
