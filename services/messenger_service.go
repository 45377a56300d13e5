//go:generate go run go.uber.org/mock/mockgen -source=messenger_service.go -destination=../mocks/mock_messenger_service.go -package=mocks
package services

import (
	"context"
	"log/slog"

	"messenger-lab/contract"
	"messenger-lab/domain"
	"messenger-lab/observability"
	"messenger-lab/repositories"
)

type IMessengerService interface {
	Invite(ctx context.Context, inviter, recipient domain.Username, room domain.RoomName) error
	CheckInbox(ctx context.Context, viewer domain.Username) (domain.RoomName, bool, error)
	EnterRoom(ctx context.Context, visitor domain.Username, room domain.RoomName) ([]domain.Username, error)
}

// MessengerService is the single entry point the view layer calls for the
// invitation and room bookkeeping: the friends page invites, the home page
// checks the inbox, the room page records the visit. Store errors propagate
// to the caller untouched; degrading the page is the view layer's call.
type MessengerService struct {
	mailbox  repositories.IInvitationMailbox
	ledger   repositories.IContactLedger
	identity contract.Identity
	stats    *observability.StatsManager
	log      *slog.Logger
}

func NewMessengerService(
	mailbox repositories.IInvitationMailbox,
	ledger repositories.IContactLedger,
	identity contract.Identity,
	stats *observability.StatsManager,
	log *slog.Logger,
) *MessengerService {
	return &MessengerService{
		mailbox:  mailbox,
		ledger:   ledger,
		identity: identity,
		stats:    stats,
		log:      log,
	}
}

// Invite validates the request, then drops the room name into the
// recipient's mailbox slot. A still-pending earlier invitation is replaced.
// There is deliberately no existence check on the recipient: inviting an
// unknown name just parks an invitation nobody will ever consume.
func (s *MessengerService) Invite(ctx context.Context, inviter, recipient domain.Username, room domain.RoomName) error {
	if err := ValidateInvite(InviteRequest{Recipient: string(recipient), Room: string(room)}); err != nil {
		return err
	}
	if err := s.mailbox.Send(s.resolve(ctx, inviter), recipient, room); err != nil {
		s.stats.IncrStoreErrors()
		return err
	}
	s.stats.IncrInvitesSent()
	return nil
}

// CheckInbox consumes the viewer's pending invitation, if any. The home page
// calls this on every load; a false result just means nothing to render.
func (s *MessengerService) CheckInbox(ctx context.Context, viewer domain.Username) (domain.RoomName, bool, error) {
	room, pending, err := s.mailbox.TakeAndClear(s.resolve(ctx, viewer))
	if err != nil {
		s.stats.IncrStoreErrors()
		return "", false, err
	}
	if pending {
		s.stats.IncrInvitesDelivered()
	}
	return room, pending, nil
}

// EnterRoom records the visit in the shared ledger and returns the contact
// list for the room page to render.
func (s *MessengerService) EnterRoom(ctx context.Context, visitor domain.Username, room domain.RoomName) ([]domain.Username, error) {
	username := s.resolve(ctx, visitor)
	contacts, err := s.ledger.RecordVisit(username)
	if err != nil {
		s.stats.IncrStoreErrors()
		return nil, err
	}
	s.stats.IncrVisitsRecorded()
	s.log.Debug("Room entered", "username", username, "room", room, "contacts", len(contacts))
	return contacts, nil
}

// resolve prefers the authenticated identity on the context over the
// explicit argument, so handlers cannot act on behalf of someone else once
// the web layer has attached a session.
func (s *MessengerService) resolve(ctx context.Context, fallback domain.Username) domain.Username {
	if s.identity != nil {
		if username, ok := s.identity.CurrentUsername(ctx); ok {
			return username
		}
	}
	return fallback
}
