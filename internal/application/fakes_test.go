package application

import (
	"context"
	"sync"
	"time"

	"github.com/lectern-notes/lectern/internal/domain/model"
	"github.com/lectern-notes/lectern/internal/domain/port/driven"
)

// fakeNoteStore is an in-memory NoteStore enforcing the (user, hash)
// uniqueness constraint like the real repository does.
type fakeNoteStore struct {
	mu    sync.Mutex
	notes map[string]model.Note // id -> note

	insertCalls int
	failInsert  error // Forced error on next Insert, consumed once.

	// missFirstFind makes the next FindByHash miss even if a note exists,
	// simulating a concurrent writer committing after the dedup check.
	missFirstFind bool
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: map[string]model.Note{}}
}

func (f *fakeNoteStore) FindByHash(_ context.Context, userID, hash string) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missFirstFind {
		f.missFirstFind = false
		return nil, nil
	}
	for _, n := range f.notes {
		if n.UserID == userID && n.TranscriptHash == hash {
			n := n
			return &n, nil
		}
	}
	return nil, nil
}

func (f *fakeNoteStore) Insert(_ context.Context, note model.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.failInsert != nil {
		err := f.failInsert
		f.failInsert = nil
		return err
	}
	for _, n := range f.notes {
		if n.UserID == note.UserID && n.TranscriptHash == note.TranscriptHash {
			return driven.ErrDuplicateTranscript
		}
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
		note.UpdatedAt = note.CreatedAt
	}
	f.notes[note.ID] = note
	return nil
}

func (f *fakeNoteStore) Get(_ context.Context, userID, id string) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return nil, driven.ErrNoteNotFound
	}
	return &n, nil
}

func (f *fakeNoteStore) ListByUser(_ context.Context, userID string, _ driven.NoteFilter) ([]model.Note, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Note
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (f *fakeNoteStore) Update(_ context.Context, userID, id string, _ model.NoteUpdate) (*model.Note, error) {
	return f.Get(context.Background(), userID, id)
}

func (f *fakeNoteStore) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return driven.ErrNoteNotFound
	}
	delete(f.notes, id)
	return nil
}

// fakeCredentialStore is an in-memory CredentialStore.
type fakeCredentialStore struct {
	mu    sync.Mutex
	creds map[string]model.Credential
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{creds: map[string]model.Credential{}}
}

func (f *fakeCredentialStore) Get(_ context.Context, userID string) (*model.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.creds[userID]
	if !ok {
		return nil, driven.ErrNoCredential
	}
	return &c, nil
}

func (f *fakeCredentialStore) Set(_ context.Context, userID, encryptedKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds[userID] = model.Credential{
		UserID:       userID,
		EncryptedKey: encryptedKey,
		IsValid:      true,
		LastVerified: time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	return nil
}

func (f *fakeCredentialStore) MarkInvalid(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.creds[userID]; ok {
		c.IsValid = false
		f.creds[userID] = c
	}
	return nil
}

func (f *fakeCredentialStore) Delete(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.creds, userID)
	return nil
}

// fakeGenerator is a scripted Generator.
type fakeGenerator struct {
	content     string
	generateErr error
	calls       int
	gotKey      string
	gotText     string

	validateOK  bool
	validateErr error
}

func (f *fakeGenerator) Generate(_ context.Context, transcript, apiKey string) (string, error) {
	f.calls++
	f.gotText = transcript
	f.gotKey = apiKey
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.content, nil
}

func (f *fakeGenerator) ValidateKey(_ context.Context, _ string) (bool, error) {
	if f.validateErr != nil {
		return false, f.validateErr
	}
	return f.validateOK, nil
}
