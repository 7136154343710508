package domain

import (
	"context"
	"time"
)

const (
	ContactStatusUnread   = "unread"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

// ContactMessage is a visitor submission from the public contact form.
type ContactMessage struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Subject   string         `json:"subject"`
	Message   string         `json:"message"`
	Status    string         `json:"status"`
	IPAddress *string        `json:"ip_address,omitempty"`
	UserAgent *string        `json:"user_agent,omitempty"`
	EmailSent bool           `json:"email_sent"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Replies   []ContactReply `json:"replies,omitempty"`
}

// ContactReply is an admin answer delivered by email.
type ContactReply struct {
	ID        string    `json:"id"`
	MessageID string    `json:"message_id"`
	AdminID   string    `json:"admin_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100,no_emoji"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"required,min=3,max=150"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

type ContactReplyRequest struct {
	Subject string `json:"subject" validate:"omitempty,max=150"`
	Body    string `json:"body" validate:"required,min=1,max=10000"`
}

type ContactStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=unread read replied archived"`
}

type ContactFilter struct {
	PageRequest
	Status string `form:"status"`
	Search string `form:"search"`
	Sort   string `form:"sort"`
	Order  string `form:"order"`
}

type ContactStats struct {
	Total    int64 `json:"total"`
	Unread   int64 `json:"unread"`
	Read     int64 `json:"read"`
	Replied  int64 `json:"replied"`
	Archived int64 `json:"archived"`
}

// ExportFile is a generated download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ContactRepository interface {
	Create(ctx context.Context, msg *ContactMessage) error
	GetByID(ctx context.Context, id string) (*ContactMessage, error)
	List(ctx context.Context, filter ContactFilter) ([]ContactMessage, int64, error)
	ListAll(ctx context.Context, filter ContactFilter) ([]ContactMessage, error)
	UpdateStatus(ctx context.Context, id, status string) error
	MarkEmailSent(ctx context.Context, id string, sent bool) error
	Delete(ctx context.Context, id string) error
	CreateReply(ctx context.Context, reply *ContactReply) error
	ListReplies(ctx context.Context, messageID string) ([]ContactReply, error)
	Stats(ctx context.Context) (*ContactStats, error)
}

// Mailer delivers the contact workflow emails.
type Mailer interface {
	IsConfigured() bool
	SendContactNotification(ctx context.Context, msg *ContactMessage) error
	SendContactAcknowledgement(ctx context.Context, msg *ContactMessage) error
	SendContactReply(ctx context.Context, msg *ContactMessage, reply *ContactReply) error
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	Submit(ctx context.Context, req *ContactRequest, meta ClientMeta) (*ContactMessage, error)
	List(ctx context.Context, filter ContactFilter) (Page[ContactMessage], error)
	Get(ctx context.Context, id string) (*ContactMessage, error)
	UpdateStatus(ctx context.Context, id string, req *ContactStatusRequest) (*ContactMessage, error)
	Reply(ctx context.Context, admin *Principal, id string, req *ContactReplyRequest) (*ContactReply, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*ContactStats, error)
	Export(ctx context.Context, filter ContactFilter, format string) (*ExportFile, error)
}
