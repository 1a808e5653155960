package server

import (
	"socialgraph/internal/middleware"
	"socialgraph/internal/models"

	"github.com/gofiber/fiber/v2"
)

type subscribeRequest struct {
	AuthorID string `json:"authorId"`
}

// GetSubscribedTo lists the authors a user subscribes to.
// @Summary List the authors a user subscribes to
// @Tags subscriptions
// @Produce json
// @Param userId path string true "Subscriber ID"
// @Success 200 {array} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users/{userId}/user-subscribed-to [get]
func (s *Server) GetSubscribedTo(c *fiber.Ctx) error {
	ctx := middleware.WithOperation(c.UserContext(), "rest.subscribedTo")
	authors, err := s.subscriptionService.SubscribedTo(ctx, c.Params("userId"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(authors)
}

// SubscribeTo creates a subscription edge from the path user to the body's author.
// @Summary Subscribe a user to an author
// @Tags subscriptions
// @Accept json
// @Param userId path string true "Subscriber ID"
// @Param request body object{authorId=string} true "Author to subscribe to"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/{userId}/user-subscribed-to [post]
func (s *Server) SubscribeTo(c *fiber.Ctx) error {
	var req subscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx := middleware.WithOperation(c.UserContext(), "rest.subscribeTo")
	if _, err := s.subscriptionService.SubscribeTo(ctx, c.Params("userId"), req.AuthorID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnsubscribeFrom removes the subscription edge named by the path.
// @Summary Unsubscribe a user from an author
// @Tags subscriptions
// @Param userId path string true "Subscriber ID"
// @Param authorId path string true "Author ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{userId}/user-subscribed-to/{authorId} [delete]
func (s *Server) UnsubscribeFrom(c *fiber.Ctx) error {
	ctx := middleware.WithOperation(c.UserContext(), "rest.unsubscribeFrom")
	if err := s.subscriptionService.UnsubscribeFrom(ctx, c.Params("userId"), c.Params("authorId")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
