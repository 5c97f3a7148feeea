// Package users covers account creation and authentication over the
// document's user collection.
package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tessera/apperrors"
	"tessera/docstore"
	"tessera/models"
	"tessera/ratelim"
	"tessera/session"
	"tessera/utils"

	"golang.org/x/crypto/bcrypt"
)

type Repo struct {
	store    *docstore.Store
	sessions *session.Manager
	limiter  *ratelim.Limiter
	now      func() time.Time
}

func New(store *docstore.Store, sessions *session.Manager) *Repo {
	return &Repo{
		store:    store,
		sessions: sessions,
		limiter:  ratelim.New(),
		now:      time.Now,
	}
}

type CreateInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	Profile   models.Profile
}

// Create registers a new user. The email must be unique across all users,
// active or not; the credential is stored as a bcrypt hash and never
// returned to the caller.
func (r *Repo) Create(ctx context.Context, in CreateInput) (models.User, error) {
	if in.Email == "" || in.Password == "" {
		return models.User{}, fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	doc := r.store.Load(ctx)
	for _, existing := range doc.Users {
		if strings.EqualFold(existing.Email, in.Email) {
			return models.User{}, fmt.Errorf("%w: email %s already registered", apperrors.ErrConflict, in.Email)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	role := in.Role
	if role == "" {
		role = models.RoleOrganizer
	}
	user := models.User{
		ID:           utils.NewID(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    r.now(),
		IsActive:     true,
		Profile:      in.Profile,
	}

	doc.Users = append(doc.Users, user)
	if err := r.store.Save(ctx, &doc); err != nil {
		return models.User{}, err
	}
	return user.Sanitized(), nil
}

// AuthResult is a plain result, not an error: failed logins are an expected
// outcome callers render, not a fault they unwrap.
type AuthResult struct {
	OK     bool
	User   models.User
	Token  string
	Reason string
}

// Authenticate matches email + password against an active user. Success
// starts a session (overwriting any prior one) and returns its token.
func (r *Repo) Authenticate(ctx context.Context, email, password string) AuthResult {
	if !r.limiter.Allow(strings.ToLower(email)) {
		return AuthResult{Reason: "too many attempts, try again later"}
	}

	doc := r.store.Load(ctx)
	for _, user := range doc.Users {
		if !strings.EqualFold(user.Email, email) || !user.IsActive {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			break
		}
		_, token, err := r.sessions.Login(ctx, user)
		if err != nil {
			return AuthResult{Reason: "could not start session"}
		}
		return AuthResult{OK: true, User: user.Sanitized(), Token: token}
	}
	return AuthResult{Reason: "invalid credentials"}
}

// Current resolves the active session to its user record, nil when no one
// is logged in or the session points at a deleted user.
func (r *Repo) Current(ctx context.Context) *models.User {
	sess := r.sessions.Current(ctx)
	if sess == nil {
		return nil
	}
	return r.GetByID(ctx, sess.UserID)
}

func (r *Repo) GetByID(ctx context.Context, id string) *models.User {
	doc := r.store.Load(ctx)
	for _, user := range doc.Users {
		if user.ID == id {
			clean := user.Sanitized()
			return &clean
		}
	}
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) *models.User {
	doc := r.store.Load(ctx)
	for _, user := range doc.Users {
		if strings.EqualFold(user.Email, email) {
			clean := user.Sanitized()
			return &clean
		}
	}
	return nil
}

// Update shallow-merges patch over the stored user. Identity and credential
// fields are not patchable through this path. Email uniqueness is NOT
// re-checked on update; that matches creation-time-only enforcement.
func (r *Repo) Update(ctx context.Context, id string, patch map[string]any) (models.User, error) {
	doc := r.store.Load(ctx)
	idx := -1
	for i, user := range doc.Users {
		if user.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.User{}, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, id)
	}

	for _, protected := range []string{"id", "createdAt", "passwordHash"} {
		delete(patch, protected)
	}
	merged, err := utils.ShallowMerge(doc.Users[idx], patch)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	merged.ID = doc.Users[idx].ID
	merged.CreatedAt = doc.Users[idx].CreatedAt
	merged.PasswordHash = doc.Users[idx].PasswordHash

	doc.Users[idx] = merged
	if err := r.store.Save(ctx, &doc); err != nil {
		return models.User{}, err
	}
	return merged.Sanitized(), nil
}
