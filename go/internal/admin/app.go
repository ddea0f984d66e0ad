package admin

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/session"
	"github.com/mcdev12/partyvote/go/internal/vote"
)

// Verifier checks the admin secret
type Verifier interface {
	Verify(secret string) error
}

// PlayerAdmin is the part of the player catalog admin operations use
type PlayerAdmin interface {
	ListPlayers(ctx context.Context, includeInactive bool) ([]models.Player, error)
	ReplacePlayers(ctx context.Context, players []models.Player) error
	DeleteAllPlayers(ctx context.Context) (int64, error)
	ReactivateAllPlayers(ctx context.Context) (int64, error)
	CountPlayers(ctx context.Context) (int64, error)
}

// QuestionAdmin is the part of the question catalog admin operations use
type QuestionAdmin interface {
	ListQuestions(ctx context.Context, includeInactive bool) ([]models.Question, error)
	ReplaceQuestions(ctx context.Context, questions []models.Question) error
	DeleteAllQuestions(ctx context.Context) (int64, error)
	ReactivateAllQuestions(ctx context.Context) (int64, error)
	CountQuestions(ctx context.Context) (int64, error)
}

// VoteAdmin is the part of the ledger admin operations use
type VoteAdmin interface {
	ListVotes(ctx context.Context, filter models.VoteFilter) ([]models.Vote, error)
	DeleteVotes(ctx context.Context, req vote.DeleteVotesRequest) (int64, error)
	CountVotes(ctx context.Context) (int64, error)
}

// SessionAdmin is the part of the session state machine admin operations use
type SessionAdmin interface {
	GetSession(ctx context.Context) (*session.View, error)
	NewGame(ctx context.Context, votingDurationSeconds int) (*session.View, error)
	DeleteSession(ctx context.Context) (int64, error)
	CountSessions(ctx context.Context) (int64, error)
}

// ConfigAdmin is the part of the config app admin operations use
type ConfigAdmin interface {
	GetConfig(ctx context.Context) (*models.GameConfig, error)
	ReplaceConfig(ctx context.Context, cfg models.GameConfig) (*models.GameConfig, error)
	ActivateGame(ctx context.Context) (*models.GameConfig, error)
	DeleteConfig(ctx context.Context) (int64, error)
	CountConfigs(ctx context.Context) (int64, error)
}

// App runs the admin control surface. Every destructive operation checks
// the admin secret before touching any store.
type App struct {
	verifier  Verifier
	players   PlayerAdmin
	questions QuestionAdmin
	votes     VoteAdmin
	sessions  SessionAdmin
	config    ConfigAdmin
	seed      *Seed
}

// NewApp creates a new admin App
func NewApp(
	verifier Verifier,
	players PlayerAdmin,
	questions QuestionAdmin,
	votes VoteAdmin,
	sessions SessionAdmin,
	config ConfigAdmin,
	seed *Seed,
) *App {
	return &App{
		verifier:  verifier,
		players:   players,
		questions: questions,
		votes:     votes,
		sessions:  sessions,
		config:    config,
		seed:      seed,
	}
}

// Wipe permanently deletes one collection, or all of them
func (a *App) Wipe(ctx context.Context, secret string, collection Collection) (*WipeResult, error) {
	if err := a.verifier.Verify(secret); err != nil {
		return nil, err
	}

	var targets []Collection
	switch collection {
	case CollectionPlayers, CollectionQuestions, CollectionVotes, CollectionConfig, CollectionSession:
		targets = []Collection{collection}
	case CollectionAll:
		targets = []Collection{CollectionPlayers, CollectionQuestions, CollectionVotes, CollectionConfig, CollectionSession}
	default:
		return nil, apperr.Invalid(fmt.Sprintf("unknown collection %q", collection), "collection")
	}

	res := &WipeResult{Collection: collection, Deleted: make(map[Collection]int64, len(targets))}
	for _, c := range targets {
		n, err := a.wipe(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("failed to wipe %s: %w", c, err)
		}
		res.Deleted[c] = n
		res.Total += n
	}

	log.Warn().Str("collection", string(collection)).Int64("deleted", res.Total).Msg("collections wiped")
	return res, nil
}

func (a *App) wipe(ctx context.Context, c Collection) (int64, error) {
	switch c {
	case CollectionPlayers:
		return a.players.DeleteAllPlayers(ctx)
	case CollectionQuestions:
		return a.questions.DeleteAllQuestions(ctx)
	case CollectionVotes:
		return a.votes.DeleteVotes(ctx, vote.DeleteVotesRequest{Scope: vote.DeleteScopeAll})
	case CollectionConfig:
		return a.config.DeleteConfig(ctx)
	case CollectionSession:
		return a.sessions.DeleteSession(ctx)
	}
	return 0, fmt.Errorf("unknown collection %q", c)
}

// Reseed restores default data for the target
func (a *App) Reseed(ctx context.Context, secret string, target SeedTarget) (*ReseedResult, error) {
	if err := a.verifier.Verify(secret); err != nil {
		return nil, err
	}

	res := &ReseedResult{Target: target, Seeded: make(map[Collection]int64), Cleared: []Collection{}}
	var err error
	switch target {
	case SeedPlayers:
		err = a.seedPlayers(ctx, res)
	case SeedQuestions:
		err = a.seedQuestions(ctx, res)
	case SeedConfig:
		err = a.seedConfig(ctx, res)
	case SeedSession:
		err = a.seedSession(ctx, res)
	case SeedFreshStart:
		if err = a.clearVotes(ctx, res); err == nil {
			err = a.seedSession(ctx, res)
		}
	case SeedAll:
		for _, step := range []func(context.Context, *ReseedResult) error{
			a.clearVotes, a.seedPlayers, a.seedQuestions, a.seedConfig, a.seedSession,
		} {
			if err = step(ctx, res); err != nil {
				break
			}
		}
	default:
		return nil, apperr.Invalid(fmt.Sprintf("unknown seed target %q", target), "target")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reseed %s: %w", target, err)
	}

	log.Warn().Str("target", string(target)).Interface("seeded", res.Seeded).Msg("reseeded")
	return res, nil
}

func (a *App) seedPlayers(ctx context.Context, res *ReseedResult) error {
	players := a.seed.players()
	if err := a.players.ReplacePlayers(ctx, players); err != nil {
		return err
	}
	res.Seeded[CollectionPlayers] = int64(len(players))
	return nil
}

func (a *App) seedQuestions(ctx context.Context, res *ReseedResult) error {
	questions := a.seed.questions()
	if err := a.questions.ReplaceQuestions(ctx, questions); err != nil {
		return err
	}
	res.Seeded[CollectionQuestions] = int64(len(questions))
	return nil
}

func (a *App) seedConfig(ctx context.Context, res *ReseedResult) error {
	if _, err := a.config.ReplaceConfig(ctx, a.seed.Config); err != nil {
		return err
	}
	res.Seeded[CollectionConfig] = 1
	return nil
}

func (a *App) seedSession(ctx context.Context, res *ReseedResult) error {
	if _, err := a.sessions.NewGame(ctx, a.seed.VotingDurationSeconds); err != nil {
		return err
	}
	res.Seeded[CollectionSession] = 1
	return nil
}

func (a *App) clearVotes(ctx context.Context, res *ReseedResult) error {
	if _, err := a.votes.DeleteVotes(ctx, vote.DeleteVotesRequest{Scope: vote.DeleteScopeAll}); err != nil {
		return err
	}
	res.Cleared = append(res.Cleared, CollectionVotes)
	return nil
}

// ResetVotes deletes the votes selected by req
func (a *App) ResetVotes(ctx context.Context, secret string, req vote.DeleteVotesRequest) (*ResetVotesResult, error) {
	if err := a.verifier.Verify(secret); err != nil {
		return nil, err
	}
	n, err := a.votes.DeleteVotes(ctx, req)
	if err != nil {
		return nil, err
	}
	return &ResetVotesResult{Scope: req.Scope, Deleted: n}, nil
}

// Reset runs one of the game reset actions
func (a *App) Reset(ctx context.Context, secret string, action ResetAction) (*ResetResult, error) {
	if err := a.verifier.Verify(secret); err != nil {
		return nil, err
	}

	res := &ResetResult{Action: action}
	var err error
	switch action {
	case ResetVotes:
		res.VotesDeleted, err = a.deleteAllVotes(ctx)
		res.Message = "All votes reset"
	case ResetGame:
		if res.VotesDeleted, err = a.deleteAllVotes(ctx); err == nil {
			err = a.restartGame(ctx)
		}
		res.Message = "Game reset, votes cleared and progress reset"
	case ResetAll:
		err = a.resetAll(ctx, res)
		res.Message = "Full reset complete"
	case ResetFlushQuestions:
		res.QuestionsDeleted, err = a.questions.DeleteAllQuestions(ctx)
		res.Message = "All questions deleted permanently"
	case ResetFlushPlayers:
		res.PlayersDeleted, err = a.players.DeleteAllPlayers(ctx)
		res.Message = "All players deleted permanently"
	default:
		return nil, apperr.Invalid(fmt.Sprintf("unknown reset action %q", action), "action")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", action, err)
	}

	log.Warn().Str("action", string(action)).Int64("votes_deleted", res.VotesDeleted).Msg("game reset")
	return res, nil
}

func (a *App) resetAll(ctx context.Context, res *ResetResult) error {
	var err error
	if res.VotesDeleted, err = a.deleteAllVotes(ctx); err != nil {
		return err
	}
	if res.QuestionsRestored, err = a.questions.ReactivateAllQuestions(ctx); err != nil {
		return err
	}
	if res.PlayersRestored, err = a.players.ReactivateAllPlayers(ctx); err != nil {
		return err
	}
	if _, err = a.config.ActivateGame(ctx); err != nil {
		return err
	}
	return a.restartGame(ctx)
}

func (a *App) deleteAllVotes(ctx context.Context) (int64, error) {
	return a.votes.DeleteVotes(ctx, vote.DeleteVotesRequest{Scope: vote.DeleteScopeAll})
}

// restartGame starts a new game keeping the current voting duration
func (a *App) restartGame(ctx context.Context) error {
	current, err := a.sessions.GetSession(ctx)
	if err != nil {
		return err
	}
	_, err = a.sessions.NewGame(ctx, current.VotingDurationSeconds)
	return err
}

// CollectionCounts counts the records of every collection
func (a *App) CollectionCounts(ctx context.Context) (*CollectionCounts, error) {
	counters := map[Collection]func(context.Context) (int64, error){
		CollectionPlayers:   a.players.CountPlayers,
		CollectionQuestions: a.questions.CountQuestions,
		CollectionVotes:     a.votes.CountVotes,
		CollectionConfig:    a.config.CountConfigs,
		CollectionSession:   a.sessions.CountSessions,
	}

	out := &CollectionCounts{Counts: make(map[Collection]int64, len(counters))}
	for c, count := range counters {
		n, err := count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c, err)
		}
		out.Counts[c] = n
		out.Total += n
	}
	return out, nil
}

// GameStats summarises config, catalog and ledger for the dashboard
func (a *App) GameStats(ctx context.Context) (*GameStats, error) {
	cfg, err := a.config.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	view, err := a.sessions.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	players, err := a.players.ListPlayers(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	questions, err := a.questions.ListQuestions(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	votes, err := a.votes.ListVotes(ctx, models.VoteFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	stats := &GameStats{
		Title:                cfg.Title,
		IsGameActive:         cfg.IsGameActive,
		CurrentQuestionIndex: view.CurrentQuestionIndex,
		SessionStatus:        view.Status,
		TotalVotes:           len(votes),
		TotalQuestions:       len(questions),
		TotalPlayers:         len(players),
		VotesPerQuestion:     make(map[int]int),
		VotesReceived:        make(map[int]int),
	}
	for _, p := range players {
		if p.IsActive {
			stats.ActivePlayers++
		}
	}
	for _, q := range questions {
		if q.IsActive {
			stats.ActiveQuestions++
		}
	}

	voters := make(map[int]struct{})
	clients := make(map[string]struct{})
	for _, v := range votes {
		stats.VotesPerQuestion[v.QuestionID]++
		stats.VotesReceived[v.VotedForID]++
		voters[v.VoterID] = struct{}{}
		if v.ClientSessionID != "" {
			clients[v.ClientSessionID] = struct{}{}
		}
	}
	stats.UniqueVoters = len(voters)
	stats.UniqueSessions = len(clients)
	return stats, nil
}

// VoteTracking lists who voted for whom, grouped by active question in
// progression order. questionID narrows it to one question.
func (a *App) VoteTracking(ctx context.Context, questionID *int) (*VoteTracking, error) {
	votes, err := a.votes.ListVotes(ctx, models.VoteFilter{QuestionID: questionID})
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	questions, err := a.questions.ListQuestions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	players, err := a.players.ListPlayers(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	byQuestion := make(map[int][]TrackedVote)
	for _, v := range votes {
		byQuestion[v.QuestionID] = append(byQuestion[v.QuestionID], TrackedVote{
			VoterID:      v.VoterID,
			VoterName:    v.VoterName,
			VotedForID:   v.VotedForID,
			VotedForName: v.VotedForName,
			Time:         v.CreatedAt,
		})
	}

	out := &VoteTracking{
		Questions:  make([]QuestionTracking, 0, len(questions)),
		Players:    make([]TrackedPlayer, 0, len(players)),
		TotalVotes: len(votes),
	}
	for _, q := range questions {
		tracked := byQuestion[q.ID]
		if tracked == nil {
			tracked = []TrackedVote{}
		}
		out.Questions = append(out.Questions, QuestionTracking{
			QuestionID: q.ID,
			Question:   q.Question,
			Type:       q.Type,
			Order:      q.Order,
			TotalVotes: len(tracked),
			Votes:      tracked,
		})
	}
	for _, p := range players {
		out.Players = append(out.Players, TrackedPlayer{ID: p.ID, Name: p.Name, Emoji: p.Emoji})
	}
	return out, nil
}
