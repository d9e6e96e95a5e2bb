package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

type tickingClock struct {
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newClock() *tickingClock {
	return &tickingClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func TestTicketRepository_ListNewestFirstAndPaged(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(newClock().Now)
	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		rec := &TicketRecord{TicketSummary: domain.TicketSummary{Title: title}}
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, rec.ID)
	}

	got, total, err := repo.List(ctx, nil, 1, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(got) != 2 || got[0].Title != "third" || got[1].Title != "second" {
		t.Fatalf("page 1 = %v (total %d)", got, total)
	}
	got, _, _ = repo.List(ctx, nil, 2, 2)
	if len(got) != 1 || got[0].ID != ids[0] {
		t.Fatalf("page 2 = %v", got)
	}
	got, _, _ = repo.List(ctx, nil, 5, 2)
	if len(got) != 0 {
		t.Fatalf("page beyond end = %v", got)
	}

	only, total, _ := repo.List(ctx, func(r TicketRecord) bool { return r.Title == "second" }, 1, 10)
	if total != 1 || only[0].ID != ids[1] {
		t.Fatalf("filtered = %v", only)
	}
}

func TestTicketRepository_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(newClock().Now)
	rec := &TicketRecord{TicketSummary: domain.TicketSummary{Title: "a"}}
	_ = repo.Create(ctx, rec)
	created := rec.CreatedAt

	rec.Title = "b"
	rec.CreatedAt = "bogus"
	if err := repo.Update(ctx, rec); err != nil {
		t.Fatalf("Update: %v", err)
	}
	stored, _ := repo.GetByID(ctx, rec.ID)
	if stored.Title != "b" || stored.CreatedAt != created || stored.UpdatedAt <= created {
		t.Errorf("stored = %+v", stored.TicketSummary)
	}

	if err := repo.Update(ctx, &TicketRecord{TicketSummary: domain.TicketSummary{ID: "missing"}}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing = %v", err)
	}
}

func TestTicketRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(newClock().Now)
	rec := &TicketRecord{Tags: []TagLink{{TagID: 1}}}
	_ = repo.Create(ctx, rec)

	got, _ := repo.GetByID(ctx, rec.ID)
	got.Tags[0].TagID = 99
	again, _ := repo.GetByID(ctx, rec.ID)
	if again.Tags[0].TagID != 1 {
		t.Error("caller mutation leaked into the repository")
	}
}

func TestTagLinks(t *testing.T) {
	links := AddTagLinks(nil, []int64{1, 2}, "")
	links = AddTagLinks(links, []int64{2, 3}, "component")
	if len(links) != 3 || links[1].Category != "component" || links[2].TagID != 3 {
		t.Fatalf("links = %+v", links)
	}
	links, removed := RemoveTagLink(links, 2)
	if !removed || len(links) != 2 {
		t.Fatalf("remove = %+v %v", links, removed)
	}
	if _, removed := RemoveTagLink(links, 42); removed {
		t.Error("removing an absent tag reported success")
	}
}

func TestEntryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(newClock().Now)
	for _, body := range []string{"one", "two"} {
		if err := repo.Create(ctx, &EntryRecord{Entry: domain.Entry{TicketID: "t-1", Body: body}, TagLinks: []TagLink{{TagID: 7}}}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	_ = repo.Create(ctx, &EntryRecord{Entry: domain.Entry{TicketID: "t-2", Body: "other"}})

	entries, _ := repo.ListByTicket(ctx, "t-1")
	if len(entries) != 2 || entries[0].Body != "one" || entries[1].ID != 2 {
		t.Fatalf("entries = %+v", entries)
	}

	_ = repo.RemoveTagEverywhere(ctx, 7)
	e, _ := repo.GetByID(ctx, 1)
	if len(e.TagLinks) != 0 {
		t.Errorf("tag links after removal = %+v", e.TagLinks)
	}

	_ = repo.DeleteByTicket(ctx, "t-1")
	if _, err := repo.GetByID(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("entry of deleted ticket = %v", err)
	}
	if _, err := repo.GetByID(ctx, 3); err != nil {
		t.Errorf("entry of other ticket removed: %v", err)
	}
}

func TestTagRepository_UniqueNames(t *testing.T) {
	ctx := context.Background()
	repo := NewTagRepository()
	net := &domain.Tag{Name: "Network"}
	if err := repo.Create(ctx, net); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &domain.Tag{Name: "network"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate create = %v", err)
	}
	hw := &domain.Tag{Name: "hardware"}
	_ = repo.Create(ctx, hw)
	hw.Name = "NETWORK"
	if err := repo.Update(ctx, hw); !errors.Is(err, ErrDuplicate) {
		t.Errorf("rename onto taken name = %v", err)
	}
	net.ColorCode = "#000000"
	if err := repo.Update(ctx, net); err != nil {
		t.Errorf("update keeping own name = %v", err)
	}

	tags, total, _ := repo.List(ctx, 1, 10)
	if total != 2 || tags[0].ID != net.ID || tags[0].ColorCode != "#000000" {
		t.Errorf("tags = %+v", tags)
	}
}

func TestRefreshTokenRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewRefreshTokenRepository(func() time.Time { return now })
	_ = repo.Save(ctx, RefreshToken{Token: "a", UserID: "u", ExpiresAt: now.Add(time.Hour)})
	_ = repo.Save(ctx, RefreshToken{Token: "b", UserID: "u", ExpiresAt: now.Add(2 * time.Hour)})

	if _, err := repo.Get(ctx, "a"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	now = now.Add(time.Hour)
	if _, err := repo.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired token = %v", err)
	}
	if n, _ := repo.DeleteByUser(ctx, "u"); n != 1 {
		t.Errorf("DeleteByUser removed %d, want 1", n)
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newClock().Now)
	alice := &UserRecord{UserInfo: domain.UserInfo{LoginID: "Alice", Email: "alice@example.com"}, Roles: []string{"user"}}
	if err := repo.Create(ctx, alice); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &UserRecord{UserInfo: domain.UserInfo{LoginID: "alice", Email: "x@example.com"}}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate login = %v", err)
	}
	if err := repo.Create(ctx, &UserRecord{UserInfo: domain.UserInfo{LoginID: "bob", Email: "ALICE@example.com"}}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate email = %v", err)
	}
	_ = repo.Create(ctx, &UserRecord{UserInfo: domain.UserInfo{LoginID: "carol", Email: "carol@example.com"}})

	got, err := repo.GetByLoginID(ctx, "ALICE")
	if err != nil || got.ID != alice.ID {
		t.Fatalf("GetByLoginID = %v, %v", got, err)
	}
	users, total, _ := repo.List(ctx, 1, 10)
	if total != 2 || users[0].LoginID != "Alice" || users[1].LoginID != "carol" {
		t.Errorf("users = %+v", users)
	}
}

func TestMailboxRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMailboxRepository()
	add := func(id, folder, conv, received string) {
		_ = repo.Add(ctx, MailRecord{Mailbox: "desk@example.com", Folder: folder, Email: domain.EmailDetail{
			ItemID: id, ConversationID: conv, ReceivedDate: received,
		}})
	}
	add("m1", "inbox", "c1", "2026-01-01T00:00:00Z")
	add("m2", "inbox", "c1", "2026-01-03T00:00:00Z")
	add("m3", "inbox", "c2", "2026-01-02T00:00:00Z")
	add("m4", "sentitems", "c1", "2026-01-02T12:00:00Z")

	items, total, _ := repo.List(ctx, "DESK@example.com", "Inbox", 2, 0)
	if total != 3 || len(items) != 2 || items[0].ItemID != "m2" || items[1].ItemID != "m3" {
		t.Fatalf("items = %+v (total %d)", items, total)
	}
	items, _, _ = repo.List(ctx, "desk@example.com", "inbox", 2, 10)
	if len(items) != 0 {
		t.Fatalf("offset beyond end = %+v", items)
	}

	thread, _ := repo.Thread(ctx, "desk@example.com", "c1", "m2")
	if len(thread) != 2 || thread[0].ItemID != "m1" || thread[1].ItemID != "m4" {
		t.Fatalf("thread = %+v", thread)
	}
	if _, err := repo.Get(ctx, "desk@example.com", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v", err)
	}
}
