// Package graphql wires graphql-go schemas to HTTP.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/angotech/angotech/pkg/bind"
	"github.com/angotech/angotech/pkg/response"
)

// NewSchema creates a GraphQL schema from a root query object.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

type request struct {
	Query         string                 `json:"query" validate:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler returns an http.HandlerFunc executing POSTed queries against
// the schema. Errors come back in the standard GraphQL `errors` list
// with a 200 status, per convention.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if errs, err := bind.JSON(r, &req); err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		} else if errs != nil {
			response.ValidationError(w, errs)
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})

		// GraphQL responses are not enveloped; clients expect the
		// bare {data, errors} shape.
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
