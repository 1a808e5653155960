package server

import (
	"socialgraph/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMemberTypes lists the member type catalogue.
// @Summary List member types
// @Tags member-types
// @Produce json
// @Success 200 {array} models.MemberType
// @Router /member-types [get]
func (s *Server) GetMemberTypes(c *fiber.Ctx) error {
	memberTypes, err := s.memberTypeService.ListMemberTypes(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(memberTypes)
}

// GetMemberType returns one member type; the id must be BASIC or BUSINESS.
// @Summary Get a member type
// @Tags member-types
// @Produce json
// @Param memberTypeId path string true "Member type ID" Enums(BASIC, BUSINESS)
// @Success 200 {object} models.MemberType
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /member-types/{memberTypeId} [get]
func (s *Server) GetMemberType(c *fiber.Ctx) error {
	mt, err := s.memberTypeService.GetMemberType(c.UserContext(), c.Params("memberTypeId"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(mt)
}
