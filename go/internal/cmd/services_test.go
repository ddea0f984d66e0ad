package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyvote/go/internal/events"
	"github.com/mcdev12/partyvote/go/internal/store/memory"
)

func memoryStores() *Stores {
	return &Stores{
		Players:   memory.NewPlayerStore(),
		Questions: memory.NewQuestionStore(),
		Votes:     memory.NewVoteStore(),
		Session:   memory.NewSessionStore(),
		Config:    memory.NewConfigStore(),
	}
}

func TestSetupAppsWarnsOnceWithoutSecret(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	cfg := validConfig()
	cfg.storeBackend = backendMemory
	apps, err := setupApps(&cfg, memoryStores(), events.NewLogPublisher(), clockwork.NewFakeClock())
	if err != nil {
		t.Fatal(err)
	}
	if apps.Admin == nil || apps.Results == nil {
		t.Fatal("apps not wired")
	}

	if n := strings.Count(buf.String(), "no admin secret configured"); n != 1 {
		t.Errorf("warning logged %d times, want 1:\n%s", n, buf.String())
	}
}

func TestSetupAppsRejectsBadHash(t *testing.T) {
	cfg := validConfig()
	cfg.adminHashes = "not-a-hash"
	if _, err := setupApps(&cfg, memoryStores(), events.NewLogPublisher(), clockwork.NewFakeClock()); err == nil {
		t.Error("expected an error for a malformed admin secret hash")
	}
}
