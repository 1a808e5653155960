package models

import (
	"fmt"
	"slices"
	"strings"
)

// MemberTypeID identifies one of the closed set of membership tiers.
type MemberTypeID string

const (
	// MemberTypeBasic is the default tier.
	MemberTypeBasic MemberTypeID = "BASIC"
	// MemberTypeBusiness is the paid tier.
	MemberTypeBusiness MemberTypeID = "BUSINESS"
)

// MemberTypeIDs lists every valid member type identifier.
var MemberTypeIDs = []MemberTypeID{MemberTypeBasic, MemberTypeBusiness}

// Valid reports whether id belongs to the closed enumeration.
func (id MemberTypeID) Valid() bool {
	return slices.Contains(MemberTypeIDs, id)
}

// ParseMemberTypeID validates s against the closed enumeration.
func ParseMemberTypeID(s string) (MemberTypeID, error) {
	id := MemberTypeID(s)
	if !id.Valid() {
		names := make([]string, len(MemberTypeIDs))
		for i, m := range MemberTypeIDs {
			names[i] = string(m)
		}
		return "", NewValidationError(fmt.Sprintf("invalid member type id %q, expected one of %s", s, strings.Join(names, ", ")))
	}
	return id, nil
}

// MemberType is read-only reference data seeded at startup.
type MemberType struct {
	ID                 MemberTypeID `gorm:"type:varchar(16);primaryKey" json:"id"`
	Discount           float64      `gorm:"not null" json:"discount"`
	PostsLimitPerMonth int          `gorm:"not null" json:"postsLimitPerMonth"`
}

// TableName specifies the table name for GORM
func (MemberType) TableName() string {
	return "member_types"
}

// DefaultMemberTypes is the seed set for the member_types table.
func DefaultMemberTypes() []MemberType {
	return []MemberType{
		{ID: MemberTypeBasic, Discount: 2.3, PostsLimitPerMonth: 20},
		{ID: MemberTypeBusiness, Discount: 7.7, PostsLimitPerMonth: 100},
	}
}
