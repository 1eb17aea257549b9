package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/lectern-notes/lectern/internal/crypto"
	"github.com/lectern-notes/lectern/internal/domain/model"
	"github.com/lectern-notes/lectern/internal/domain/port/driven"
)

// MaxTranscriptChars bounds the accepted transcript length.
const MaxTranscriptChars = 50000

// FallbackTitle is used when no title is supplied and the generated HTML has
// no top-level heading to infer one from.
const FallbackTitle = "Untitled Lecture"

var (
	// ErrTranscriptRequired indicates the request carried no transcript.
	ErrTranscriptRequired = errors.New("transcript is required")

	// ErrTranscriptTooLong indicates the transcript exceeds MaxTranscriptChars.
	ErrTranscriptTooLong = fmt.Errorf("transcript too long: maximum %d characters", MaxTranscriptChars)

	// ErrCredentialUnreadable indicates the stored API key ciphertext could
	// not be decrypted. This is an operator problem (key rotation or
	// misconfiguration), not a missing credential.
	ErrCredentialUnreadable = errors.New("stored API key could not be decrypted")
)

// GenerateRequest is the input to the generation pipeline.
type GenerateRequest struct {
	Transcript  string
	Title       string
	LectureDate string
	LectureURL  string
}

// GenerateResult is the outcome: the stored note plus whether it was served
// from the dedup cache instead of a fresh generation call.
type GenerateResult struct {
	Note   model.Note
	Cached bool
}

// GenerateService runs the transcript-to-notes pipeline. Each request is an
// explicit pass through the states below; all cross-request coordination
// happens through the note store's uniqueness constraint, so the service
// itself is stateless and safe for concurrent use.
type GenerateService struct {
	notes     driven.NoteStore
	creds     driven.CredentialStore
	vault     *crypto.Vault
	generator driven.Generator
	logger    *slog.Logger
}

// NewGenerateService creates a GenerateService with the required dependencies.
func NewGenerateService(
	notes driven.NoteStore,
	creds driven.CredentialStore,
	vault *crypto.Vault,
	generator driven.Generator,
	logger *slog.Logger,
) *GenerateService {
	return &GenerateService{
		notes:     notes,
		creds:     creds,
		vault:     vault,
		generator: generator,
		logger:    logger,
	}
}

// genState enumerates the pipeline states. Every state has exactly one
// handler and every handler has a single error exit, which keeps the failure
// surface auditable.
type genState int

const (
	stateValidating genState = iota
	stateDeduping
	stateResolvingCredential
	stateGenerating
	statePersisting
	stateDone
)

// genRun carries the per-request intermediates between state handlers.
type genRun struct {
	userID     string
	req        GenerateRequest
	transcript string // Normalized.
	hash       string
	apiKey     string // Decrypted, never persisted.
	notesHTML  string
	result     *GenerateResult
}

// Generate runs one request through the pipeline and returns the stored note.
// A repeated transcript from the same user returns the existing note with
// Cached=true and never re-invokes the generation service.
func (s *GenerateService) Generate(ctx context.Context, userID string, req GenerateRequest) (*GenerateResult, error) {
	run := &genRun{userID: userID, req: req}

	handlers := map[genState]func(context.Context, *genRun) (genState, error){
		stateValidating:          s.validate,
		stateDeduping:            s.dedupe,
		stateResolvingCredential: s.resolveCredential,
		stateGenerating:          s.generate,
		statePersisting:          s.persist,
	}

	for state := stateValidating; state != stateDone; {
		next, err := handlers[state](ctx, run)
		if err != nil {
			return nil, err
		}
		state = next
	}

	return run.result, nil
}

func (s *GenerateService) validate(_ context.Context, run *genRun) (genState, error) {
	if strings.TrimSpace(run.req.Transcript) == "" {
		return stateDone, ErrTranscriptRequired
	}
	if utf8.RuneCountInString(run.req.Transcript) > MaxTranscriptChars {
		return stateDone, ErrTranscriptTooLong
	}

	run.transcript = NormalizeTranscript(run.req.Transcript)
	if run.transcript == "" {
		return stateDone, ErrEmptyTranscript
	}

	return stateDeduping, nil
}

func (s *GenerateService) dedupe(ctx context.Context, run *genRun) (genState, error) {
	run.hash = FingerprintTranscript(run.transcript)

	existing, err := s.notes.FindByHash(ctx, run.userID, run.hash)
	if err != nil {
		return stateDone, err
	}
	if existing != nil {
		run.result = &GenerateResult{Note: *existing, Cached: true}
		return stateDone, nil
	}

	return stateResolvingCredential, nil
}

func (s *GenerateService) resolveCredential(ctx context.Context, run *genRun) (genState, error) {
	cred, err := s.creds.Get(ctx, run.userID)
	if err != nil {
		return stateDone, err
	}

	apiKey, err := s.vault.Decrypt(cred.EncryptedKey)
	if err != nil {
		return stateDone, fmt.Errorf("%w: %v", ErrCredentialUnreadable, err)
	}
	run.apiKey = apiKey

	return stateGenerating, nil
}

func (s *GenerateService) generate(ctx context.Context, run *genRun) (genState, error) {
	content, err := s.generator.Generate(ctx, run.transcript, run.apiKey)
	if err != nil {
		var genErr *driven.GenerationError
		if errors.As(err, &genErr) && genErr.IsAuthFailure() {
			// The upstream rejected the key; record that before surfacing.
			if markErr := s.creds.MarkInvalid(ctx, run.userID); markErr != nil {
				s.logger.Error("failed to mark credential invalid", "user_id", run.userID, "error", markErr)
			}
		}
		return stateDone, err
	}

	run.notesHTML = RenderNotesHTML(content)
	if run.notesHTML == "" {
		return stateDone, driven.ErrMalformedResponse
	}

	return statePersisting, nil
}

func (s *GenerateService) persist(ctx context.Context, run *genRun) (genState, error) {
	title := strings.TrimSpace(run.req.Title)
	if title == "" {
		title = InferTitle(run.notesHTML)
	}

	note := model.Note{
		ID:             uuid.NewString(),
		UserID:         run.userID,
		Title:          title,
		LectureDate:    run.req.LectureDate,
		TranscriptHash: run.hash,
		RawTranscript:  run.transcript,
		NotesHTML:      run.notesHTML,
		LectureURL:     run.req.LectureURL,
	}

	err := s.notes.Insert(ctx, note)
	if errors.Is(err, driven.ErrDuplicateTranscript) {
		// A concurrent request for the same transcript won the insert race;
		// converge on its note instead of erroring.
		winner, findErr := s.notes.FindByHash(ctx, run.userID, run.hash)
		if findErr != nil {
			return stateDone, findErr
		}
		if winner == nil {
			return stateDone, err
		}
		run.result = &GenerateResult{Note: *winner, Cached: true}
		return stateDone, nil
	}
	if err != nil {
		return stateDone, err
	}

	stored, err := s.notes.Get(ctx, run.userID, note.ID)
	if err != nil {
		return stateDone, err
	}

	run.result = &GenerateResult{Note: *stored, Cached: false}
	return stateDone, nil
}

var titlePattern = regexp.MustCompile(`(?i)<h1[^>]*>([^<]+)</h1>`)

// InferTitle extracts the text of the first top-level heading in the
// generated HTML, falling back to FallbackTitle when none is present.
func InferTitle(notesHTML string) string {
	if m := titlePattern.FindStringSubmatch(notesHTML); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}
	return FallbackTitle
}
