package usecase

import (
	"errors"
	"fmt"
	"log"
	"strings"

	authrepo "github.com/sampurn31/my-med/internal/auth/repository"
	"github.com/sampurn31/my-med/internal/family/domain"
	"github.com/sampurn31/my-med/internal/family/repository"
)

var (
	ErrSelfInvite    = errors.New("cannot add yourself as a family member")
	ErrAlreadyLinked = errors.New("this person is already in your family")
	ErrNoSuchUser    = errors.New("no user found with this email")
)

// FamilyUsecase defines the interface for family linking business logic
type FamilyUsecase interface {
	// Invite links the user and the invitee in both directions. The two
	// writes are not atomic: if the reverse write fails the forward link is
	// kept and the error is returned so the caller knows the state is
	// one-sided.
	Invite(userID, inviteeEmail string) (*domain.FamilyMember, error)
	Remove(userID, memberID string) error
	Members(userID string) ([]*domain.FamilyMember, error)
	IsCaregiver(caregiverID, patientID string) (bool, error)
}

type familyUsecase struct {
	familyRepo repository.FamilyRepository
	userRepo   authrepo.UserRepository
}

// NewFamilyUsecase creates a new instance of familyUsecase
func NewFamilyUsecase(familyRepo repository.FamilyRepository, userRepo authrepo.UserRepository) FamilyUsecase {
	return &familyUsecase{
		familyRepo: familyRepo,
		userRepo:   userRepo,
	}
}

func (u *familyUsecase) Invite(userID, inviteeEmail string) (*domain.FamilyMember, error) {
	email := strings.ToLower(strings.TrimSpace(inviteeEmail))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("valid email address is required")
	}

	invitee, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if invitee == nil {
		return nil, ErrNoSuchUser
	}
	if invitee.ID == userID {
		return nil, ErrSelfInvite
	}

	exists, err := u.familyRepo.LinkExists(userID, invitee.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyLinked
	}

	if err := u.familyRepo.AddLink(userID, invitee.ID); err != nil {
		return nil, err
	}
	if err := u.familyRepo.AddLink(invitee.ID, userID); err != nil {
		log.Printf("[Family] one-sided link: %s -> %s written, reverse failed: %v", userID, invitee.ID, err)
		return nil, fmt.Errorf("family link is one-sided, retry the invite: %w", err)
	}

	return &domain.FamilyMember{
		ID:    invitee.ID,
		Name:  invitee.Name,
		Email: invitee.Email,
	}, nil
}

func (u *familyUsecase) Remove(userID, memberID string) error {
	if err := u.familyRepo.RemoveLink(userID, memberID); err != nil {
		return err
	}
	if err := u.familyRepo.RemoveLink(memberID, userID); err != nil {
		log.Printf("[Family] one-sided removal: %s -> %s removed, reverse failed: %v", userID, memberID, err)
		return fmt.Errorf("family unlink is one-sided, retry the removal: %w", err)
	}
	return nil
}

func (u *familyUsecase) Members(userID string) ([]*domain.FamilyMember, error) {
	ids, err := u.familyRepo.MemberIDs(userID)
	if err != nil {
		return nil, err
	}

	members := make([]*domain.FamilyMember, 0, len(ids))
	for _, id := range ids {
		user, err := u.userRepo.FindByID(id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			// Dangling link to a deleted account, skip silently.
			continue
		}
		members = append(members, &domain.FamilyMember{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
	}
	return members, nil
}

func (u *familyUsecase) IsCaregiver(caregiverID, patientID string) (bool, error) {
	return u.familyRepo.LinkExists(patientID, caregiverID)
}
