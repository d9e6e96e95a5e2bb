package mockapi

import (
	"context"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/auth"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/repository"
)

// Demo accounts created by Seed.
const (
	SeedAdminLogin    = "admin"
	SeedAdminPassword = "admin1234"
	SeedUserLogin     = "alice"
	SeedUserPassword  = "alice1234"
	SeedMailbox       = "helpdesk@example.com"
)

// Seed loads the demo data set: accounts, tags, tickets and a support mailbox.
func (s *Server) Seed(ctx context.Context) error {
	admin, err := s.Auth.CreateAccount(ctx, domain.RegisterRequest{
		LoginID:  SeedAdminLogin,
		Email:    "admin@example.com",
		Password: SeedAdminPassword,
		Name:     domain.UserName{First: "Ada", Last: "Admin", Display: "Ada Admin"},
	}, []string{auth.RoleAdmin, auth.RoleAgent})
	if err != nil {
		return err
	}
	alice, err := s.Auth.CreateAccount(ctx, domain.RegisterRequest{
		LoginID:  SeedUserLogin,
		Email:    "alice@example.com",
		Password: SeedUserPassword,
		Name:     domain.UserName{First: "Alice", Last: "Kim", Display: "Alice Kim"},
	}, []string{auth.RoleUser})
	if err != nil {
		return err
	}

	var tagIDs []int64
	for _, req := range []domain.CreateTagRequest{
		{Name: "network", ColorCode: "#1E88E5"},
		{Name: "hardware", ColorCode: "#43A047"},
		{Name: "urgent", ColorCode: "#E53935"},
	} {
		tag, err := s.Tags.CreateTag(ctx, req)
		if err != nil {
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	vpn, err := s.Tickets.CreateTicket(ctx, alice.ID, domain.CreateTicketRequest{
		Title:       "VPN connection drops every few minutes",
		Priority:    domain.TicketPriorityHigh,
		RequestType: domain.RequestTypeBug,
		TagIDs:      []int64{tagIDs[0], tagIDs[2]},
		InitialEntry: domain.CreateEntryRequest{
			Body:   "Since this morning the **VPN** disconnects roughly every five minutes.",
			Format: domain.FormatMarkdown,
		},
	})
	if err != nil {
		return err
	}
	if _, err := s.Tickets.CreateEntry(ctx, vpn.ID, admin.ID, domain.CreateEntryRequest{
		Body:   "Could you send the client log from the tray icon menu?",
		Format: domain.FormatPlainText,
	}); err != nil {
		return err
	}

	if _, err := s.Tickets.CreateTicket(ctx, alice.ID, domain.CreateTicketRequest{
		Title:          "Replace broken keyboard",
		RequestType:    domain.RequestTypeMaintenance,
		AssignedUserID: admin.ID,
		DueDate:        "2026-12-31",
		TagIDs:         []int64{tagIDs[1]},
		InitialEntry:   domain.CreateEntryRequest{Body: "Several keys on my keyboard stopped working."},
	}); err != nil {
		return err
	}

	if _, err := s.Tickets.CreateTicket(ctx, admin.ID, domain.CreateTicketRequest{
		Title:       "Add dark mode to the portal",
		Priority:    domain.TicketPriorityLow,
		RequestType: domain.RequestTypeFeatureRequest,
		InitialEntry: domain.CreateEntryRequest{
			Body:   "<p>Users asked for a <em>dark</em> theme.</p>",
			Format: domain.FormatHTML,
		},
	}); err != nil {
		return err
	}

	return s.seedMailbox(ctx)
}

func (s *Server) seedMailbox(ctx context.Context) error {
	customer := domain.EmailAddress{Name: "Bob Lee", Address: "bob@customer.example"}
	desk := domain.EmailAddress{Name: "Helpdesk", Address: SeedMailbox}
	records := []repository.MailRecord{
		{
			Mailbox: SeedMailbox,
			Folder:  "inbox",
			Preview: "The printer on the third floor",
			Email: domain.EmailDetail{
				ItemID:         "AAMk-1",
				ConversationID: "conv-printer",
				Subject:        "Printer jam",
				Body:           "The printer on the third floor keeps jamming.",
				BodyType:       domain.EmailBodyText,
				From:           customer,
				ToRecipients:   []domain.EmailAddress{desk},
				ReceivedDate:   "2026-10-01T09:00:00Z",
				SentDate:       "2026-10-01T08:59:58Z",
				Importance:     "Normal",
			},
		},
		{
			Mailbox: SeedMailbox,
			Folder:  "inbox",
			Preview: "Still jamming after the restart",
			Email: domain.EmailDetail{
				ItemID:         "AAMk-2",
				ConversationID: "conv-printer",
				Subject:        "RE: Printer jam",
				Body:           "<p>Still jamming after the restart.</p><p>Photo attached.</p>",
				BodyType:       domain.EmailBodyHTML,
				From:           customer,
				ToRecipients:   []domain.EmailAddress{desk},
				ReceivedDate:   "2026-10-02T10:30:00Z",
				SentDate:       "2026-10-02T10:29:40Z",
				HasAttachments: true,
				Importance:     "High",
				Attachments: []domain.AttachmentInfo{
					{AttachmentID: "att-1", Name: "jam.jpg", ContentType: "image/jpeg", Size: 48213},
				},
			},
		},
		{
			Mailbox: SeedMailbox,
			Folder:  "sentitems",
			Preview: "We are looking into it",
			Email: domain.EmailDetail{
				ItemID:         "AAMk-3",
				ConversationID: "conv-printer",
				Subject:        "RE: Printer jam",
				Body:           "We are looking into it.",
				BodyType:       domain.EmailBodyText,
				From:           desk,
				ToRecipients:   []domain.EmailAddress{customer},
				ReceivedDate:   "2026-10-01T11:00:00Z",
				SentDate:       "2026-10-01T11:00:00Z",
				IsRead:         true,
			},
		},
	}
	for _, rec := range records {
		if err := s.mailRepo.Add(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
