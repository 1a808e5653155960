package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"socialgraph/internal/graph"
	"socialgraph/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// GraphQLPost executes a GraphQL request sent as a JSON body.
// @Summary Execute a GraphQL request
// @Tags graphql
// @Accept json
// @Produce json
// @Param request body graph.Params true "GraphQL request"
// @Success 200 {object} graph.Response
// @Failure 400 {object} graph.Response
// @Router /graphql [post]
func (s *Server) GraphQLPost(c *fiber.Ctx) error {
	var params graph.Params
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		return badGraphQLRequest(c, errors.New("request body must be a JSON object with a query"))
	}
	return s.executeGraphQL(c, params)
}

// GraphQLGet executes a read-only GraphQL request passed as query parameters.
// @Summary Execute a GraphQL query
// @Tags graphql
// @Produce json
// @Param query query string true "GraphQL document"
// @Param operationName query string false "Operation to run"
// @Param variables query string false "JSON object of variable values"
// @Success 200 {object} graph.Response
// @Failure 400 {object} graph.Response
// @Router /graphql [get]
func (s *Server) GraphQLGet(c *fiber.Ctx) error {
	params := graph.Params{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
		ReadOnly:      true,
	}
	if raw := c.Query("variables"); raw != "" {
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&params.Variables); err != nil {
			return badGraphQLRequest(c, errors.New("variables must be a JSON object"))
		}
	}
	return s.executeGraphQL(c, params)
}

func (s *Server) executeGraphQL(c *fiber.Ctx, params graph.Params) error {
	if strings.TrimSpace(params.Query) == "" {
		return badGraphQLRequest(c, errors.New("query is required"))
	}
	resp := s.engine.Execute(c.UserContext(), params)
	return c.Status(fiber.StatusOK).JSON(resp)
}

func badGraphQLRequest(c *fiber.Ctx, err error) error {
	gqlErr := gqlerror.Wrap(err)
	gqlErr.Extensions = map[string]interface{}{"code": models.CodeValidation}
	return c.Status(fiber.StatusBadRequest).JSON(graph.Response{Errors: gqlerror.List{gqlErr}})
}
