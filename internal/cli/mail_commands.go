package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/resource"
	"github.com/spec-kit/helpdesk-client/internal/router"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

func (a *App) mailCommand() *Command {
	return &Command{
		Name:    "mail",
		Summary: "Read the shared mailbox",
		Subcommands: []*Command{
			a.mailHealthCommand(),
			a.mailListCommand(),
			a.mailShowCommand(),
		},
	}
}

func (a *App) mailHealthCommand() *Command {
	return &Command{
		Name:    "health",
		Summary: "Check that the mailbox plugin is reachable",
		Run: func(ctx context.Context, _ []string) error {
			if _, err := a.enter(router.RouteHome, nil); err != nil {
				return err
			}
			resp, err := a.Clients.Mailbox.Health(ctx)
			if err != nil {
				return a.failed(apperrors.Message(err, "mailbox health check failed"))
			}
			fmt.Fprintf(a.stdout, "%s: %s\n", resp.Status, resp.Message)
			return nil
		},
	}
}

func (a *App) mailListCommand() *Command {
	var opts resource.ListEmailsOptions
	return &Command{
		Name:    "list",
		Summary: "List messages in a mailbox folder",
		Usage:   "helpdesk mail list <mailbox> [--folder inbox] [--limit 50] [--offset 0]",
		Flags: func() *pflag.FlagSet {
			opts = resource.ListEmailsOptions{}
			fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
			fs.StringVar(&opts.Folder, "folder", resource.DefaultMailFolder, "folder name")
			fs.IntVar(&opts.Limit, "limit", resource.DefaultMailLimit, "messages per page")
			fs.IntVar(&opts.Offset, "offset", 0, "messages to skip")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return errors.New("mailbox is required")
			}
			if _, err := a.enter(router.RouteHome, nil); err != nil {
				return err
			}
			resp, err := a.Clients.Mailbox.ListEmails(ctx, args[0], opts)
			if err != nil {
				return a.failed(apperrors.Message(err, "failed to list emails"))
			}
			tw := newTable(a.stdout)
			fmt.Fprintln(tw, "ITEM\tRECEIVED\tFROM\tFLAGS\tSUBJECT")
			for _, m := range resp.Emails {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.ItemID, m.ReceivedDate, m.FromEmail, mailFlags(m), m.Subject)
			}
			tw.Flush()
			fmt.Fprintf(a.stdout, "%d-%d of %d\n", min(resp.Offset+1, resp.Total), resp.Offset+len(resp.Emails), resp.Total)
			return nil
		},
	}
}

func (a *App) mailShowCommand() *Command {
	return &Command{
		Name:    "show",
		Summary: "Show a message and its conversation",
		Usage:   "helpdesk mail show <mailbox> <item-id>",
		Run: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return errors.New("mailbox and item id are required")
			}
			if _, err := a.enter(router.RouteHome, nil); err != nil {
				return err
			}
			resp, err := a.Clients.Mailbox.GetEmailDetail(ctx, args[0], args[1])
			if err != nil {
				return a.failed(apperrors.Message(err, "failed to load email"))
			}
			a.printEmail(resp)
			return nil
		},
	}
}

func mailFlags(m domain.EmailListItem) string {
	var flags []string
	if !m.IsRead {
		flags = append(flags, "unread")
	}
	if m.HasAttachments {
		flags = append(flags, "attachments")
	}
	return orDash(strings.Join(flags, ","))
}

func formatAddresses(list []domain.EmailAddress) string {
	out := make([]string, 0, len(list))
	for _, addr := range list {
		if addr.Name != "" {
			out = append(out, fmt.Sprintf("%s <%s>", addr.Name, addr.Address))
		} else {
			out = append(out, addr.Address)
		}
	}
	return orDash(strings.Join(out, ", "))
}

func (a *App) printEmail(resp *domain.GetEmailDetailResponse) {
	email := resp.Email
	w := a.stdout
	tw := newTable(w)
	fmt.Fprintf(tw, "subject\t%s\n", email.Subject)
	fmt.Fprintf(tw, "from\t%s\n", formatAddresses([]domain.EmailAddress{email.From}))
	fmt.Fprintf(tw, "to\t%s\n", formatAddresses(email.ToRecipients))
	if len(email.CcRecipients) > 0 {
		fmt.Fprintf(tw, "cc\t%s\n", formatAddresses(email.CcRecipients))
	}
	fmt.Fprintf(tw, "received\t%s\n", email.ReceivedDate)
	if email.Importance != "" {
		fmt.Fprintf(tw, "importance\t%s\n", email.Importance)
	}
	for _, att := range email.Attachments {
		fmt.Fprintf(tw, "attachment\t%s (%s, %d bytes)\n", att.Name, att.ContentType, att.Size)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%s\n", a.Renderer.EmailBody(email))

	if len(resp.Thread) > 0 {
		fmt.Fprintf(w, "\nalso in this conversation:\n")
		tw = newTable(w)
		for _, m := range resp.Thread {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", m.ItemID, m.ReceivedDate, m.FromEmail, m.Subject)
		}
		tw.Flush()
	}
}
