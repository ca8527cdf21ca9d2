package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/edumart/api/model"
	"gorm.io/gorm"
)

// TicketService owns the help ticket lifecycle and the notification fan-out
// attached to it. Notification writes are independent of the ticket write: a
// failed notification is logged and skipped, never rolled back.
type TicketService struct {
	db       *gorm.DB
	sequence *SequenceService
}

// NewTicketService creates a new ticket service
func NewTicketService(db *gorm.DB, sequence *SequenceService) *TicketService {
	return &TicketService{db: db, sequence: sequence}
}

// CreateTicketInput holds the validated fields for a new ticket
type CreateTicketInput struct {
	UserID   uint
	Category string
	Message  string
	Priority string
}

// CreateTicket allocates a ticket_id, persists the ticket, then notifies the
// requester and every current support-staff user.
func (s *TicketService) CreateTicket(ctx context.Context, input CreateTicketInput) (*model.Ticket, error) {
	ticketID, err := s.sequence.Next(ctx, model.SequenceTicket)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = model.TicketPriorityLow
	}

	ticket := model.Ticket{
		TicketID: ticketID,
		UserID:   input.UserID,
		Category: input.Category,
		Message:  input.Message,
		Status:   model.TicketStatusOpen,
		Priority: priority,
	}

	if err := s.db.WithContext(ctx).Create(&ticket).Error; err != nil {
		return nil, err
	}

	s.notify(ctx, ticket.UserID, "Ticket created",
		fmt.Sprintf("Your ticket #%d has been created and will be reviewed shortly.", ticketID),
		model.NotificationMetadata{TicketID: ticketID, Status: ticket.Status})

	// Support staff are queried at creation time, not cached, so newly added
	// staff receive notifications immediately.
	var staff []model.User
	if err := s.db.WithContext(ctx).
		Where("role IN ?", []string{model.RoleSupport, model.RoleAdmin}).
		Find(&staff).Error; err != nil {
		log.Printf("ticket %d: failed to load support staff for fan-out: %v", ticketID, err)
		return &ticket, nil
	}

	for _, member := range staff {
		s.notify(ctx, member.ID, "New support ticket",
			fmt.Sprintf("Ticket #%d (%s) was opened.", ticketID, ticket.Category),
			model.NotificationMetadata{TicketID: ticketID, Status: ticket.Status})
	}

	return &ticket, nil
}

// UpdateTicketInput holds the updatable ticket fields
type UpdateTicketInput struct {
	Status   string
	Priority string
}

// UpdateTicket persists status/priority changes and notifies the requester
func (s *TicketService) UpdateTicket(ctx context.Context, ticketID int64, input UpdateTicketInput) (*model.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Status != "" {
		updates["status"] = input.Status
	}
	if input.Priority != "" {
		updates["priority"] = input.Priority
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(ticket).Updates(updates).Error; err != nil {
			return nil, err
		}
		if input.Status != "" {
			ticket.Status = input.Status
		}
		if input.Priority != "" {
			ticket.Priority = input.Priority
		}
	}

	s.notify(ctx, ticket.UserID, "Ticket updated",
		fmt.Sprintf("Your ticket #%d is now %q.", ticketID, ticket.Status),
		model.NotificationMetadata{TicketID: ticketID, Status: ticket.Status})

	return ticket, nil
}

// DeleteTicket deletes the ticket and notifies the requester
func (s *TicketService) DeleteTicket(ctx context.Context, ticketID int64) error {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(ticket).Error; err != nil {
		return err
	}

	s.notify(ctx, ticket.UserID, "Ticket deleted",
		fmt.Sprintf("Your ticket #%d has been deleted.", ticketID),
		model.NotificationMetadata{TicketID: ticketID})

	return nil
}

// GetTicket returns one ticket by its public ID
func (s *TicketService) GetTicket(ctx context.Context, ticketID int64) (*model.Ticket, error) {
	var ticket model.Ticket
	err := s.db.WithContext(ctx).Where("ticket_id = ?", ticketID).First(&ticket).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// notify inserts one notification record; failures are logged, not propagated
func (s *TicketService) notify(ctx context.Context, userID uint, title, message string, meta model.NotificationMetadata) {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		log.Printf("failed to encode notification metadata for user %d: %v", userID, err)
		metaJSON = nil
	}

	notification := model.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Metadata: metaJSON,
	}

	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		log.Printf("failed to create notification for user %d: %v", userID, err)
	}
}
