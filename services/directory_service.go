//go:generate go run go.uber.org/mock/mockgen -source=directory_service.go -destination=../mocks/mock_directory_service.go -package=mocks
package services

import (
	"context"
	"log/slog"

	"messenger-lab/domain"
	"messenger-lab/observability"
	"messenger-lab/repositories"

	"github.com/google/uuid"
)

type IDirectoryService interface {
	Register(ctx context.Context, profile domain.Profile) (uuid.UUID, error)
	List(ctx context.Context) ([]domain.Profile, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Profile, error)
	Befriend(ctx context.Context, owner, friend domain.Username) error
	Friends(ctx context.Context, owner domain.Username) ([]domain.Username, error)
}

// DirectoryService backs the users page: the profile registry, its full-text
// search box, and the friend-add action.
type DirectoryService struct {
	users   repositories.IUserRepository
	friends repositories.IFriendRepository
	index   repositories.IProfileIndex
	stats   *observability.StatsManager
	log     *slog.Logger
}

func NewDirectoryService(
	users repositories.IUserRepository,
	friends repositories.IFriendRepository,
	index repositories.IProfileIndex,
	stats *observability.StatsManager,
	log *slog.Logger,
) *DirectoryService {
	return &DirectoryService{
		users:   users,
		friends: friends,
		index:   index,
		stats:   stats,
		log:     log,
	}
}

// Register validates the profile form, persists the profile, and indexes it
// for directory search. Indexing failures are logged but do not undo the
// profile: a user missing from the search box is still a user.
func (s *DirectoryService) Register(ctx context.Context, profile domain.Profile) (uuid.UUID, error) {
	req := RegisterRequest{
		Username:  string(profile.Username),
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Age:       profile.Age,
		Job:       profile.Job,
	}
	if err := ValidateRegister(req); err != nil {
		return uuid.Nil, err
	}

	id, err := s.users.CreateProfile(profile)
	if err != nil {
		return uuid.Nil, err
	}
	profile.ID = id

	if err := s.index.Index(profile); err != nil {
		s.log.Error("Profile indexing failed", "username", profile.Username, "err", err)
	}
	s.log.Info("Profile registered", "username", profile.Username, "id", id)
	return id, nil
}

func (s *DirectoryService) List(ctx context.Context) ([]domain.Profile, error) {
	return s.users.ListProfiles()
}

// Search resolves matching usernames through the index, then loads the full
// profiles. A username whose profile vanished since indexing is skipped.
func (s *DirectoryService) Search(ctx context.Context, query string, limit int) ([]domain.Profile, error) {
	usernames, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(usernames))
	for _, username := range usernames {
		profile, err := s.users.GetProfile(username)
		if err != nil {
			s.log.Debug("Indexed profile no longer stored", "username", username)
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// Befriend adds friend to owner's list after checking that the friend
// actually has a profile. The invite action has no such check; the friends
// list is user-visible state and should not collect ghosts.
func (s *DirectoryService) Befriend(ctx context.Context, owner, friend domain.Username) error {
	if _, err := s.users.GetProfile(friend); err != nil {
		return err
	}
	if err := s.friends.AddFriend(owner, friend); err != nil {
		s.stats.IncrStoreErrors()
		return err
	}
	s.stats.IncrFriendsAdded()
	return nil
}

func (s *DirectoryService) Friends(ctx context.Context, owner domain.Username) ([]domain.Username, error) {
	return s.friends.Friends(owner)
}
