package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"
)

const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
)

var contactStatuses = map[string]bool{
	domain.ContactStatusUnread:   true,
	domain.ContactStatusRead:     true,
	domain.ContactStatusReplied:  true,
	domain.ContactStatusArchived: true,
}

type contactUsecase struct {
	repo      domain.ContactRepository
	mailer    domain.Mailer
	validate  *validator.Validate
	sanitizer *validation.Sanitizer
	audit     *security.AuditLogger
	log       *slog.Logger
	autoReply bool
	now       func() time.Time
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(
	repo domain.ContactRepository,
	mailer domain.Mailer,
	validate *validator.Validate,
	sanitizer *validation.Sanitizer,
	audit *security.AuditLogger,
	log *slog.Logger,
	autoReply bool,
) domain.ContactUsecase {
	return &contactUsecase{
		repo:      repo,
		mailer:    mailer,
		validate:  validate,
		sanitizer: sanitizer,
		audit:     audit,
		log:       log,
		autoReply: autoReply,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit stores the message first and only then tries to mail it. A mail
// failure leaves email_sent=false but the submission still succeeds.
func (uc *contactUsecase) Submit(ctx context.Context, req *domain.ContactRequest, meta domain.ClientMeta) (*domain.ContactMessage, error) {
	if err := validateStruct(uc.validate, req); err != nil {
		return nil, err
	}

	message := uc.sanitizer.Text(req.Message)
	if message == "" {
		return nil, apperror.BadRequest("Message is required")
	}

	now := uc.now()
	msg := &domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      uc.sanitizer.Text(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Subject:   uc.sanitizer.Text(req.Subject),
		Message:   message,
		Status:    domain.ContactStatusUnread,
		IPAddress: optionalString(meta.IP, 64),
		UserAgent: optionalString(meta.UserAgent, 512),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if !uc.mailer.IsConfigured() {
		uc.log.Warn("email service not configured, contact message stored without notification", "message_id", msg.ID)
		return msg, nil
	}

	if err := uc.mailer.SendContactNotification(ctx, msg); err != nil {
		uc.log.Error("failed to send contact notification", "message_id", msg.ID, "error", err)
		return msg, nil
	}
	msg.EmailSent = true
	if err := uc.repo.MarkEmailSent(ctx, msg.ID, true); err != nil {
		uc.log.Warn("failed to mark contact message as sent", "message_id", msg.ID, "error", err)
	}

	if uc.autoReply {
		if err := uc.mailer.SendContactAcknowledgement(ctx, msg); err != nil {
			uc.log.Warn("failed to send contact acknowledgement", "message_id", msg.ID, "error", err)
		}
	}
	return msg, nil
}

func (uc *contactUsecase) checkFilter(filter domain.ContactFilter) error {
	if filter.Status != "" && !contactStatuses[filter.Status] {
		return apperror.BadRequest("status must be one of: unread, read, replied, archived")
	}
	return nil
}

func (uc *contactUsecase) List(ctx context.Context, filter domain.ContactFilter) (domain.Page[domain.ContactMessage], error) {
	if err := uc.checkFilter(filter); err != nil {
		return domain.Page[domain.ContactMessage]{}, err
	}
	msgs, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.ContactMessage]{}, err
	}
	return domain.NewPage(msgs, total, filter.PageRequest), nil
}

// Get returns the message with its replies. Opening an unread message marks it read.
func (uc *contactUsecase) Get(ctx context.Context, id string) (*domain.ContactMessage, error) {
	msg, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	replies, err := uc.repo.ListReplies(ctx, id)
	if err != nil {
		return nil, err
	}
	msg.Replies = replies

	if msg.Status == domain.ContactStatusUnread {
		if err := uc.repo.UpdateStatus(ctx, id, domain.ContactStatusRead); err != nil {
			uc.log.Warn("failed to mark contact message read", "message_id", id, "error", err)
		} else {
			msg.Status = domain.ContactStatusRead
		}
	}
	return msg, nil
}

func (uc *contactUsecase) UpdateStatus(ctx context.Context, id string, req *domain.ContactStatusRequest) (*domain.ContactMessage, error) {
	if err := validateStruct(uc.validate, req); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}
	return uc.repo.GetByID(ctx, id)
}

// Reply mails the answer before persisting it, so a stored reply was always delivered.
func (uc *contactUsecase) Reply(ctx context.Context, admin *domain.Principal, id string, req *domain.ContactReplyRequest) (*domain.ContactReply, error) {
	if err := requirePrincipal(admin); err != nil {
		return nil, err
	}
	if err := validateStruct(uc.validate, req); err != nil {
		return nil, err
	}

	msg, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !uc.mailer.IsConfigured() {
		return nil, apperror.ServiceUnavailable("email service is not configured", nil)
	}

	subject := uc.sanitizer.Text(req.Subject)
	if subject == "" {
		subject = "Re: " + msg.Subject
	}
	body := uc.sanitizer.Text(req.Body)
	if body == "" {
		return nil, apperror.BadRequest("Body is required")
	}

	now := uc.now()
	reply := &domain.ContactReply{
		ID:        uuid.NewString(),
		MessageID: msg.ID,
		AdminID:   admin.ID,
		Subject:   subject,
		Body:      body,
		SentAt:    now,
		CreatedAt: now,
	}

	if err := uc.mailer.SendContactReply(ctx, msg, reply); err != nil {
		return nil, apperror.ServiceUnavailable("failed to send reply email", err)
	}
	if err := uc.repo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (uc *contactUsecase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *contactUsecase) Stats(ctx context.Context) (*domain.ContactStats, error) {
	return uc.repo.Stats(ctx)
}

var contactExportHeaders = []string{
	"ID", "Name", "Email", "Subject", "Message", "Status", "Email Sent", "IP Address", "Received At",
}

func contactExportRow(m domain.ContactMessage) []string {
	ip := ""
	if m.IPAddress != nil {
		ip = *m.IPAddress
	}
	sent := "no"
	if m.EmailSent {
		sent = "yes"
	}
	return []string{
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.Status, sent, ip,
		m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Export renders every message matching filter as xlsx (default) or csv.
func (uc *contactUsecase) Export(ctx context.Context, filter domain.ContactFilter, format string) (*domain.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatXLSX
	}
	if format != ExportFormatXLSX && format != ExportFormatCSV {
		return nil, apperror.BadRequest("format must be one of: xlsx, csv")
	}
	if err := uc.checkFilter(filter); err != nil {
		return nil, err
	}

	msgs, err := uc.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	stamp := uc.now().Format("20060102_150405")
	file := &domain.ExportFile{Filename: fmt.Sprintf("contact_messages_%s.%s", stamp, format)}
	if format == ExportFormatCSV {
		file.ContentType = "text/csv; charset=utf-8"
		file.Data, err = contactsToCSV(msgs)
	} else {
		file.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		file.Data, err = contactsToXLSX(msgs)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	actor := ""
	if p, ok := domain.PrincipalFromContext(ctx); ok {
		actor = p.ID
	}
	uc.audit.LogDataExport(ctx, actor, "contact_messages", format, len(msgs))
	return file, nil
}

func contactsToXLSX(msgs []domain.ContactMessage) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Messages"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, h := range contactExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(contactExportHeaders), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, m := range msgs {
		for colIdx, value := range contactExportRow(m) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range contactExportHeaders {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		width := 20.0
		if contactExportHeaders[i] == "Message" {
			width = 60
		}
		f.SetColWidth(sheetName, colName, colName, width)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func contactsToCSV(msgs []domain.ContactMessage) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(contactExportHeaders); err != nil {
		return nil, err
	}
	for _, m := range msgs {
		row := contactExportRow(m)
		for i := range row {
			row[i] = csvSafe(row[i])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// csvSafe stops spreadsheet apps from evaluating visitor text as a formula.
func csvSafe(cell string) string {
	if cell != "" && strings.ContainsRune("=+-@\t\r", rune(cell[0])) {
		return "'" + cell
	}
	return cell
}
