package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/resource"
	"github.com/spec-kit/helpdesk-client/internal/router"
)

type ticketFilter struct {
	page, limit    int
	query          string
	statuses       []string
	priorities     []string
	types          []string
	assignee       string
	tags           []int64
	dueFrom, dueTo string
}

func (f *ticketFilter) bind(fs *pflag.FlagSet) {
	fs.IntVar(&f.page, "page", 1, "page number")
	fs.IntVar(&f.limit, "limit", resource.DefaultLimit, "tickets per page")
	fs.StringVarP(&f.query, "query", "q", "", "search title and entry bodies")
	fs.StringSliceVar(&f.statuses, "status", nil, "filter by status (repeatable)")
	fs.StringSliceVar(&f.priorities, "priority", nil, "filter by priority (repeatable)")
	fs.StringSliceVar(&f.types, "type", nil, "filter by request type (repeatable)")
	fs.StringVar(&f.assignee, "assignee", "", "filter by assigned user id")
	fs.Int64SliceVar(&f.tags, "tag", nil, "filter by tag id (repeatable)")
	fs.StringVar(&f.dueFrom, "due-from", "", "earliest due date (YYYY-MM-DD)")
	fs.StringVar(&f.dueTo, "due-to", "", "latest due date (YYYY-MM-DD)")
}

func (f *ticketFilter) search() (domain.SearchTicketRequest, bool) {
	req := domain.SearchTicketRequest{
		Query:          f.query,
		AssignedUserID: f.assignee,
		TagIDs:         f.tags,
		DueDateFrom:    f.dueFrom,
		DueDateTo:      f.dueTo,
	}
	for _, s := range f.statuses {
		req.Status = append(req.Status, domain.TicketStatus(strings.ToUpper(s)))
	}
	for _, p := range f.priorities {
		req.Priority = append(req.Priority, domain.TicketPriority(strings.ToUpper(p)))
	}
	for _, t := range f.types {
		req.RequestType = append(req.RequestType, domain.TicketRequestType(strings.ToUpper(t)))
	}
	filtered := req.Query != "" || req.AssignedUserID != "" || len(req.TagIDs) > 0 ||
		req.DueDateFrom != "" || req.DueDateTo != "" ||
		len(req.Status) > 0 || len(req.Priority) > 0 || len(req.RequestType) > 0
	return req, filtered
}

func (a *App) ticketsCommand() *Command {
	var f ticketFilter
	return &Command{
		Name:    "tickets",
		Summary: "List tickets, or search them when a filter is given",
		Flags: func() *pflag.FlagSet {
			f = ticketFilter{}
			fs := pflag.NewFlagSet("tickets", pflag.ContinueOnError)
			f.bind(fs)
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			if _, err := a.enter(router.RouteTickets, nil); err != nil {
				return err
			}
			var ok bool
			if req, filtered := f.search(); filtered {
				ok = a.Tickets.SearchTickets(ctx, req, f.page, f.limit)
			} else {
				ok = a.Tickets.FetchTickets(ctx, f.page, f.limit)
			}
			if !ok {
				return a.failed(a.Tickets.Error())
			}
			snap := a.Tickets.Snapshot()
			printTicketPage(a.stdout, snap.Tickets, snap.CurrentPage, snap.TotalPages, snap.TotalCount)
			return nil
		},
	}
}

func (a *App) ticketCommand() *Command {
	return &Command{
		Name:    "ticket",
		Summary: "Show and change a single ticket",
		Subcommands: []*Command{
			a.ticketShowCommand(),
			a.ticketCreateCommand(),
			a.ticketUpdateCommand(),
			a.ticketDeleteCommand(),
			a.ticketCommentCommand(),
			a.ticketUncommentCommand(),
		},
	}
}

func (a *App) ticketShowCommand() *Command {
	return &Command{
		Name:    "show",
		Summary: "Show a ticket with its entries",
		Usage:   "helpdesk ticket show <ticket-id>",
		Run: func(ctx context.Context, args []string) error {
			id, err := ticketArg(args)
			if err != nil {
				return err
			}
			if _, err := a.enter(router.RouteTicketDetail, map[string]string{"id": id}); err != nil {
				return err
			}
			if !a.Tickets.FetchTicket(ctx, id) {
				return a.failed(a.Tickets.Error())
			}
			a.printTicket(a.Tickets.CurrentTicket())
			return nil
		},
	}
}

func (a *App) ticketCreateCommand() *Command {
	var (
		req    domain.CreateTicketRequest
		format string
	)
	return &Command{
		Name:    "create",
		Summary: "Open a ticket with an initial entry",
		Usage:   "helpdesk ticket create --title <title> --body <text> [flags]",
		Flags: func() *pflag.FlagSet {
			req = domain.CreateTicketRequest{}
			fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
			fs.StringVar(&req.Title, "title", "", "ticket title (required)")
			fs.StringVar(&req.InitialEntry.Body, "body", "", "initial entry body (required)")
			fs.StringVar(&format, "format", string(domain.FormatPlainText), "body format: PLAIN_TEXT, MARKDOWN or HTML")
			fs.StringVar((*string)(&req.Priority), "priority", "", "priority")
			fs.StringVar((*string)(&req.Status), "status", "", "initial status")
			fs.StringVar((*string)(&req.RequestType), "type", "", "request type")
			fs.StringVar(&req.AssignedUserID, "assignee", "", "assigned user id")
			fs.StringVar(&req.DueDate, "due", "", "due date (YYYY-MM-DD)")
			fs.Int64SliceVar(&req.TagIDs, "tag", nil, "tag id (repeatable)")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			if _, err := a.enter(router.RouteTicketCreate, nil); err != nil {
				return err
			}
			if strings.TrimSpace(req.Title) == "" {
				return errors.New("--title is required")
			}
			req.Priority = domain.TicketPriority(strings.ToUpper(string(req.Priority)))
			req.Status = domain.TicketStatus(strings.ToUpper(string(req.Status)))
			req.RequestType = domain.TicketRequestType(strings.ToUpper(string(req.RequestType)))
			req.InitialEntry.EntryType = domain.EntryTypeComment
			req.InitialEntry.Format = domain.ContentFormat(strings.ToUpper(format))

			created := a.Tickets.CreateTicket(ctx, req)
			if created == nil {
				return a.failed(a.Tickets.Error())
			}
			fmt.Fprintf(a.stdout, "created ticket %s\n", created.ID)
			return nil
		},
	}
}

func (a *App) ticketUpdateCommand() *Command {
	var title, status, priority, reqType, assignee, due string
	var fs *pflag.FlagSet
	return &Command{
		Name:    "update",
		Summary: "Change ticket fields; only the given flags are sent",
		Usage:   "helpdesk ticket update <ticket-id> [flags]",
		Flags: func() *pflag.FlagSet {
			fs = pflag.NewFlagSet("update", pflag.ContinueOnError)
			fs.StringVar(&title, "title", "", "new title")
			fs.StringVar(&status, "status", "", "new status")
			fs.StringVar(&priority, "priority", "", "new priority")
			fs.StringVar(&reqType, "type", "", "new request type")
			fs.StringVar(&assignee, "assignee", "", "assigned user id, empty to unassign")
			fs.StringVar(&due, "due", "", "due date (YYYY-MM-DD), empty to clear")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			id, err := ticketArg(args)
			if err != nil {
				return err
			}
			if _, err := a.enter(router.RouteTicketEdit, map[string]string{"id": id}); err != nil {
				return err
			}
			var req domain.UpdateTicketRequest
			if fs.Changed("title") {
				req.Title = &title
			}
			if fs.Changed("status") {
				v := domain.TicketStatus(strings.ToUpper(status))
				req.Status = &v
			}
			if fs.Changed("priority") {
				v := domain.TicketPriority(strings.ToUpper(priority))
				req.Priority = &v
			}
			if fs.Changed("type") {
				v := domain.TicketRequestType(strings.ToUpper(reqType))
				req.RequestType = &v
			}
			if fs.Changed("assignee") {
				req.AssignedUserID = &assignee
			}
			if fs.Changed("due") {
				req.DueDate = &due
			}
			if !a.Tickets.UpdateTicket(ctx, id, req) {
				return a.failed(a.Tickets.Error())
			}
			fmt.Fprintf(a.stdout, "updated ticket %s\n", id)
			return nil
		},
	}
}

func (a *App) ticketDeleteCommand() *Command {
	return &Command{
		Name:    "delete",
		Summary: "Delete a ticket",
		Usage:   "helpdesk ticket delete <ticket-id>",
		Run: func(ctx context.Context, args []string) error {
			id, err := ticketArg(args)
			if err != nil {
				return err
			}
			if _, err := a.enter(router.RouteTicketDetail, map[string]string{"id": id}); err != nil {
				return err
			}
			if !a.Tickets.DeleteTicket(ctx, id) {
				return a.failed(a.Tickets.Error())
			}
			fmt.Fprintf(a.stdout, "deleted ticket %s\n", id)
			return nil
		},
	}
}

func (a *App) ticketCommentCommand() *Command {
	var (
		req    domain.CreateEntryRequest
		format string
	)
	return &Command{
		Name:    "comment",
		Summary: "Add a comment entry to a ticket",
		Usage:   "helpdesk ticket comment <ticket-id> --body <text> [--format MARKDOWN] [--parent <entry-id>]",
		Flags: func() *pflag.FlagSet {
			req = domain.CreateEntryRequest{}
			fs := pflag.NewFlagSet("comment", pflag.ContinueOnError)
			fs.StringVar(&req.Body, "body", "", "comment body (required)")
			fs.StringVar(&format, "format", string(domain.FormatPlainText), "body format: PLAIN_TEXT, MARKDOWN or HTML")
			fs.Int64Var(&req.ParentEntryID, "parent", 0, "entry id this comment replies to")
			fs.Int64SliceVar(&req.TagIDs, "tag", nil, "tag id (repeatable)")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			id, err := ticketArg(args)
			if err != nil {
				return err
			}
			if _, err := a.enter(router.RouteTicketDetail, map[string]string{"id": id}); err != nil {
				return err
			}
			req.EntryType = domain.EntryTypeComment
			req.Format = domain.ContentFormat(strings.ToUpper(format))
			entry := a.Tickets.AddEntry(ctx, id, req)
			if entry == nil {
				return a.failed(a.Tickets.Error())
			}
			fmt.Fprintf(a.stdout, "added entry %d to ticket %s\n", entry.ID, id)
			return nil
		},
	}
}

func (a *App) ticketUncommentCommand() *Command {
	return &Command{
		Name:    "uncomment",
		Summary: "Delete an entry from a ticket",
		Usage:   "helpdesk ticket uncomment <ticket-id> <entry-id>",
		Run: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return errors.New("ticket id and entry id are required")
			}
			id := args[0]
			entryID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid entry id %q", args[1])
			}
			if _, err := a.enter(router.RouteTicketDetail, map[string]string{"id": id}); err != nil {
				return err
			}
			if !a.Tickets.DeleteEntry(ctx, id, entryID) {
				return a.failed(a.Tickets.Error())
			}
			fmt.Fprintf(a.stdout, "deleted entry %d from ticket %s\n", entryID, id)
			return nil
		},
	}
}

func ticketArg(args []string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", errors.New("ticket id is required")
	}
	return args[0], nil
}

func (a *App) printTicket(t *domain.TicketDetail) {
	w := a.stdout
	tw := newTable(w)
	fmt.Fprintf(tw, "id\t%s\n", t.ID)
	fmt.Fprintf(tw, "title\t%s\n", t.Title)
	fmt.Fprintf(tw, "status\t%s\n", t.Status)
	fmt.Fprintf(tw, "priority\t%s\n", t.Priority)
	fmt.Fprintf(tw, "type\t%s\n", t.RequestType)
	fmt.Fprintf(tw, "assignee\t%s\n", displayName(t.AssignedUserName))
	fmt.Fprintf(tw, "due\t%s\n", orDash(t.DueDate))
	fmt.Fprintf(tw, "created\t%s\n", t.CreatedAt)
	fmt.Fprintf(tw, "updated\t%s\n", t.UpdatedAt)
	names := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		names = append(names, tag.Name)
	}
	fmt.Fprintf(tw, "tags\t%s\n", orDash(strings.Join(names, ", ")))
	tw.Flush()

	for _, e := range t.Entries {
		header := fmt.Sprintf("#%d %s by %s at %s", e.ID, e.EntryType, displayName(e.AuthorUserName), e.CreatedAt)
		if e.ParentEntryID != 0 {
			header += fmt.Sprintf(" (reply to #%d)", e.ParentEntryID)
		}
		fmt.Fprintf(w, "\n%s\n", header)
		if body := a.Renderer.Text(e.Format, e.Body); body != "" {
			for _, line := range strings.Split(body, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
}
