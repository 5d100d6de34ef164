package controllers

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/app/services"
	gql "github.com/angotech/angotech/pkg/graphql"
	"github.com/angotech/angotech/pkg/logger"
)

// NewGraphQLHandler builds a read-only catalogue schema:
//
//	{ products(category: "Audio") { id name price imageUrls } }
//	{ product(id: "...") { name reviews { author rating comment } } }
func NewGraphQLHandler(catalog *services.CatalogService) http.HandlerFunc {
	reviewType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Review",
		Fields: graphql.Fields{
			"id":      &graphql.Field{Type: graphql.String},
			"author":  &graphql.Field{Type: graphql.String},
			"rating":  &graphql.Field{Type: graphql.Int},
			"comment": &graphql.Field{Type: graphql.String},
		},
	})

	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"price":       &graphql.Field{Type: graphql.Float},
			"category":    &graphql.Field{Type: graphql.String},
			"stock":       &graphql.Field{Type: graphql.Int},
			"imageUrls": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, _ := p.Source.(models.Product)
					return product.Images, nil
				},
			},
			"reviews": &graphql.Field{
				Type: graphql.NewList(reviewType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, _ := p.Source.(models.Product)
					return product.Reviews, nil
				},
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if category, ok := p.Args["category"].(string); ok && category != "" {
						return catalog.ByCategory(category)
					}
					return catalog.All()
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return catalog.Find(id)
				},
			},
		},
	})

	schema, err := gql.NewSchema(query)
	if err != nil {
		logger.Error("graphql: schema build failed", "error", err)
		return func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "GraphQL unavailable", http.StatusServiceUnavailable)
		}
	}
	return gql.Handler(schema)
}
