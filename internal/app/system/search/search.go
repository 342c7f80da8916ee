// internal/app/system/search/search.go
package search

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnyField matches documents where any of fields contains term,
// case-insensitively. term is matched literally. An empty term yields nil.
func AnyField(term string, fields ...string) bson.M {
	term = strings.TrimSpace(term)
	if term == "" || len(fields) == 0 {
		return nil
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: re})
	}
	return bson.M{"$or": or}
}

// And merges clauses into one filter, skipping nil and empty ones.
func And(clauses ...bson.M) bson.M {
	var parts bson.A
	for _, c := range clauses {
		if len(c) > 0 {
			parts = append(parts, c)
		}
	}
	switch len(parts) {
	case 0:
		return bson.M{}
	case 1:
		return parts[0].(bson.M)
	default:
		return bson.M{"$and": parts}
	}
}
