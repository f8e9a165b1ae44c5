package domain

import "time"

// FamilyLink records that MemberID is a caregiver/family member of UserID.
// The relationship is meant to be symmetric: linking writes one row in each
// direction. The two writes are not transactional, so a failed second write
// leaves a one-sided link; that inconsistency is surfaced, not masked.
type FamilyLink struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_family_pair;not null"`
	MemberID  string    `json:"member_id" gorm:"uniqueIndex:idx_family_pair;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// FamilyMember is the resolved view of a linked user.
type FamilyMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
