package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"wanderlist-backend-go/internal/db"
	"wanderlist-backend-go/internal/models"
)

// TokenVerifier verifies an identity token. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// authGuard implements the AuthGuard interface.
type authGuard struct {
	verifier       TokenVerifier
	principals     db.PrincipalRepository
	concealForeign bool
	logger         *zap.Logger
	now            func() time.Time
}

// NewAuthGuard creates a new AuthGuard. When concealForeign is set, resources looked up
// by ID that belong to someone else are reported as not found, so a caller cannot probe
// for the existence of other principals' resources.
func NewAuthGuard(verifier TokenVerifier, principals db.PrincipalRepository, concealForeign bool, logger *zap.Logger) AuthGuard {
	return &authGuard{
		verifier:       verifier,
		principals:     principals,
		concealForeign: concealForeign,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (g *authGuard) ResolvePrincipal(ctx context.Context, credential string) (*models.Principal, error) {
	if credential == "" {
		return nil, ErrAuthenticationRequired
	}
	token, err := g.verifier.VerifyIDToken(ctx, credential)
	if err != nil {
		g.logger.Debug("Token verification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: invalid or expired token", ErrAuthenticationRequired)
	}
	if token == nil || token.UID == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrAuthenticationRequired)
	}

	principal, err := g.principals.GetByID(ctx, token.UID)
	if err == nil {
		return principal, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to load principal '%s': %w", token.UID, err)
	}

	principal = &models.Principal{
		ID:         token.UID,
		ExternalID: token.UID,
		CreatedAt:  g.now(),
	}
	if email, ok := token.Claims["email"].(string); ok {
		principal.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		principal.DisplayName = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		principal.PhotoURL = picture
	}

	if err := g.principals.Create(ctx, principal); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			// A concurrent first request created it; use the stored record.
			return g.principals.GetByID(ctx, token.UID)
		}
		return nil, fmt.Errorf("failed to create principal '%s': %w", token.UID, err)
	}
	g.logger.Info("Principal created", zap.String("principalId", principal.ID))
	return principal, nil
}

func (g *authGuard) RequireOwnership(principal *models.Principal, ownerID string) error {
	if principal == nil {
		return ErrAuthenticationRequired
	}
	if principal.ID != ownerID {
		return fmt.Errorf("%w: principal '%s' is not owner '%s'", ErrAuthorizationDenied, principal.ID, ownerID)
	}
	return nil
}

func (g *authGuard) RequireResourceOwnership(principal *models.Principal, ownerID, kind, id string) error {
	if principal == nil {
		return ErrAuthenticationRequired
	}
	if principal.ID == ownerID {
		return nil
	}
	if g.concealForeign {
		return fmt.Errorf("%w: %s '%s'", ErrNotFound, kind, id)
	}
	return fmt.Errorf("%w: %s '%s'", ErrAuthorizationDenied, kind, id)
}

func (g *authGuard) CanRead(principal *models.Principal, ownerID string) bool {
	return principal != nil && ownerID != "" && principal.ID == ownerID
}
