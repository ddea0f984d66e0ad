package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/store/memory"
)

func newTestApp() (*App, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 12, 26, 20, 0, 0, 0, time.UTC))
	return NewApp(memory.NewPlayerStore(), clock), clock
}

func names(players []models.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

func TestCreatePlayer(t *testing.T) {
	app, clock := newTestApp()
	ctx := context.Background()

	roast := "always late"
	p, err := app.CreatePlayer(ctx, CreatePlayerRequest{Name: "  Alice ", Roast: &roast})
	if err != nil {
		t.Fatal(err)
	}

	want := &models.Player{
		ID:        1,
		Name:      "Alice",
		Emoji:     models.DefaultPlayerEmoji,
		IsActive:  true,
		Roast:     &roast,
		CreatedAt: clock.Now(),
		UpdatedAt: clock.Now(),
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("CreatePlayer() mismatch (-want +got):\n%s", diff)
	}

	if _, err := app.CreatePlayer(ctx, CreatePlayerRequest{Name: "   "}); !apperr.IsValidation(err) {
		t.Errorf("blank name: got %v, want validation error", err)
	}
}

func TestIDsAreNeverReused(t *testing.T) {
	app, _ := newTestApp()
	ctx := context.Background()

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		if _, err := app.CreatePlayer(ctx, CreatePlayerRequest{Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := app.DeletePlayer(ctx, 3, true); err != nil {
		t.Fatal(err)
	}

	p, err := app.CreatePlayer(ctx, CreatePlayerRequest{Name: "Dave"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 4 {
		t.Errorf("id = %d, want 4", p.ID)
	}
}

func TestSoftAndHardDelete(t *testing.T) {
	app, _ := newTestApp()
	ctx := context.Background()

	for _, name := range []string{"Alice", "Bob"} {
		if _, err := app.CreatePlayer(ctx, CreatePlayerRequest{Name: name}); err != nil {
			t.Fatal(err)
		}
	}

	deactivated, err := app.DeletePlayer(ctx, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if deactivated.IsActive {
		t.Error("soft delete left the player active")
	}

	active, err := app.ListPlayers(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Bob"}, names(active)); diff != "" {
		t.Errorf("active players mismatch (-want +got):\n%s", diff)
	}

	all, err := app.ListPlayers(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Alice", "Bob"}, names(all)); diff != "" {
		t.Errorf("all players mismatch (-want +got):\n%s", diff)
	}

	if p, err := app.DeletePlayer(ctx, 2, true); err != nil || p != nil {
		t.Fatalf("hard delete = %v, %v", p, err)
	}
	if _, err := app.GetPlayer(ctx, 2); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetPlayer after hard delete: got %v, want not found", err)
	}
	if _, err := app.DeletePlayer(ctx, 2, true); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second hard delete: got %v, want not found", err)
	}
}

func TestUpdatePlayer(t *testing.T) {
	app, clock := newTestApp()
	ctx := context.Background()

	if _, err := app.CreatePlayer(ctx, CreatePlayerRequest{Name: "Alice", Emoji: "🦊"}); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Minute)

	name := "Alicia"
	p, err := app.UpdatePlayer(ctx, 1, models.PlayerPatch{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Alicia" || p.Emoji != "🦊" {
		t.Errorf("unexpected player %+v", p)
	}
	if !p.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("updated_at = %s, want %s", p.UpdatedAt, clock.Now())
	}

	empty := " "
	tests := []struct {
		name  string
		id    int
		patch models.PlayerPatch
	}{
		{name: "zero id", id: 0, patch: models.PlayerPatch{Name: &name}},
		{name: "blank name", id: 1, patch: models.PlayerPatch{Name: &empty}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := app.UpdatePlayer(ctx, tt.id, tt.patch); !apperr.IsValidation(err) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}

	if _, err := app.UpdatePlayer(ctx, 99, models.PlayerPatch{Name: &name}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing player: got %v, want not found", err)
	}
}

func TestReplacePlayers(t *testing.T) {
	app, _ := newTestApp()
	ctx := context.Background()

	err := app.ReplacePlayers(ctx, []models.Player{
		{ID: 5, Name: "Eve", IsActive: true},
		{ID: 2, Name: "Bob", Emoji: "🐻", IsActive: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	players, err := app.ListPlayers(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Bob", "Eve"}, names(players)); diff != "" {
		t.Errorf("players mismatch (-want +got):\n%s", diff)
	}
	if players[1].Emoji != models.DefaultPlayerEmoji {
		t.Errorf("emoji default not applied: %q", players[1].Emoji)
	}

	p, err := app.CreatePlayer(ctx, CreatePlayerRequest{Name: "Frank"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 6 {
		t.Errorf("id after replace = %d, want 6", p.ID)
	}

	bad := [][]models.Player{
		{{ID: 0, Name: "Zero"}},
		{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}},
		{{ID: 1, Name: " "}},
	}
	for _, players := range bad {
		if err := app.ReplacePlayers(ctx, players); !apperr.IsValidation(err) {
			t.Errorf("ReplacePlayers(%+v) = %v, want validation error", players, err)
		}
	}
}

func TestReactivateAndCount(t *testing.T) {
	app, _ := newTestApp()
	ctx := context.Background()

	for _, name := range []string{"Alice", "Bob"} {
		if _, err := app.CreatePlayer(ctx, CreatePlayerRequest{Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := app.DeletePlayer(ctx, 1, false); err != nil {
		t.Fatal(err)
	}

	if n, err := app.ReactivateAllPlayers(ctx); err != nil || n != 2 {
		t.Fatalf("ReactivateAllPlayers() = %d, %v", n, err)
	}
	active, err := app.ListPlayers(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 2 {
		t.Errorf("active = %d, want 2", len(active))
	}

	if n, err := app.DeleteAllPlayers(ctx); err != nil || n != 2 {
		t.Fatalf("DeleteAllPlayers() = %d, %v", n, err)
	}
	if n, err := app.CountPlayers(ctx); err != nil || n != 0 {
		t.Errorf("CountPlayers() = %d, %v", n, err)
	}
}
