package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/rememberme/internal/identity/domain"
	rememberDomain "github.com/allisson/rememberme/internal/remember/domain"
	rememberUseCase "github.com/allisson/rememberme/internal/remember/usecase"
	sessionDomain "github.com/allisson/rememberme/internal/session/domain"
	userDomain "github.com/allisson/rememberme/internal/user/domain"
)

type identityUseCase struct {
	engine   rememberUseCase.RotationEngine
	sessions SessionStore
	users    UserStore
}

// NewIdentityUseCase creates the identity resolver.
func NewIdentityUseCase(
	engine rememberUseCase.RotationEngine,
	sessions SessionStore,
	users UserStore,
) IdentityUseCase {
	return &identityUseCase{
		engine:   engine,
		sessions: sessions,
		users:    users,
	}
}

func (uc *identityUseCase) Resolve(ctx context.Context, transport CookieTransport) (*domain.Resolution, error) {
	if sessionID := transport.SessionID(); sessionID != "" {
		resolution, err := uc.resolveSession(ctx, transport, sessionID)
		if err != nil || resolution != nil {
			return orAnonymous(resolution), err
		}
	}

	token, secret := transport.RememberedPair()
	if token == "" || secret == "" {
		return domain.Anonymous(domain.OutcomeAnonymous), nil
	}

	result, err := uc.engine.Rotate(ctx, token, secret)
	if err != nil {
		return domain.Anonymous(domain.OutcomeAnonymous), err
	}

	switch result.Outcome {
	case rememberDomain.OutcomeResolved:
		return uc.establishRemembered(ctx, transport, result)
	case rememberDomain.OutcomeSuspectedTheft:
		return uc.handleTheft(ctx, transport, result.UserID)
	default:
		return domain.Anonymous(domain.OutcomeAnonymous), nil
	}
}

// resolveSession returns nil without error when the session is gone so the caller
// falls through to the remember-me pair.
func (uc *identityUseCase) resolveSession(
	ctx context.Context,
	transport CookieTransport,
	sessionID string,
) (*domain.Resolution, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if errors.Is(err, sessionDomain.ErrSessionNotFound) {
		transport.ClearSession()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user, err := uc.users.GetByID(ctx, session.UserID)
	if errors.Is(err, userDomain.ErrUserNotFound) {
		if err := uc.sessions.Destroy(ctx, sessionID); err != nil {
			return nil, err
		}
		transport.ClearSession()
		return domain.Rejected(domain.OutcomeStaleUser, session.UserID), nil
	}
	if err != nil {
		return nil, err
	}

	return &domain.Resolution{
		Principal: domain.NewPrincipal(user, session.ID, domain.SourceSession),
		Outcome:   domain.OutcomeSession,
	}, nil
}

func (uc *identityUseCase) establishRemembered(
	ctx context.Context,
	transport CookieTransport,
	result rememberDomain.RotationResult,
) (*domain.Resolution, error) {
	user, err := uc.users.GetByID(ctx, result.UserID)
	if errors.Is(err, userDomain.ErrUserNotFound) {
		stale := domain.Rejected(domain.OutcomeStaleUser, result.UserID)
		if _, err := uc.engine.RevokeAllForUser(ctx, result.UserID); err != nil {
			return stale, err
		}
		transport.ClearRememberedPair()
		return stale, nil
	}

	// The presented pair is already consumed, so the successor is written even when the
	// rest of the flow fails.
	transport.SetRememberedPair(result.Pair)
	if err != nil {
		return domain.Anonymous(domain.OutcomeAnonymous), err
	}

	session, err := uc.sessions.Create(ctx, user.ID)
	if err != nil {
		return domain.Anonymous(domain.OutcomeAnonymous), err
	}
	transport.SetSession(session)

	return &domain.Resolution{
		Principal: domain.NewPrincipal(user, session.ID, domain.SourceRemembered),
		Outcome:   domain.OutcomeRemembered,
	}, nil
}

func (uc *identityUseCase) handleTheft(
	ctx context.Context,
	transport CookieTransport,
	userID uuid.UUID,
) (*domain.Resolution, error) {
	transport.ClearRememberedPair()
	transport.ClearSession()

	theft := domain.Rejected(domain.OutcomeSuspectedTheft, userID)
	if _, err := uc.engine.RevokeAllForUser(ctx, userID); err != nil {
		return theft, err
	}
	if _, err := uc.sessions.DestroyAllForUser(ctx, userID); err != nil {
		return theft, err
	}
	return theft, nil
}

func (uc *identityUseCase) Login(
	ctx context.Context,
	transport CookieTransport,
	input LoginInput,
) (*domain.Principal, error) {
	user, err := uc.users.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	if previous := transport.SessionID(); previous != "" {
		if err := uc.sessions.Destroy(ctx, previous); err != nil {
			return nil, err
		}
	}

	var pair *rememberDomain.Pair
	if input.Remember {
		if pair, err = uc.engine.Issue(ctx, user.ID); err != nil {
			return nil, err
		}
	} else if token, _ := transport.RememberedPair(); token != "" {
		if err := uc.engine.Revoke(ctx, token); err != nil {
			return nil, err
		}
		transport.ClearRememberedPair()
	}

	session, err := uc.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	transport.SetSession(session)
	if pair != nil {
		transport.SetRememberedPair(pair)
	}

	return domain.NewPrincipal(user, session.ID, domain.SourceLogin), nil
}

func (uc *identityUseCase) Logout(
	ctx context.Context,
	transport CookieTransport,
	principal *domain.Principal,
) error {
	if sessionID := transport.SessionID(); sessionID != "" {
		if err := uc.sessions.Destroy(ctx, sessionID); err != nil {
			return err
		}
	}

	if err := uc.revokeCredentials(ctx, transport, principal); err != nil {
		return err
	}

	transport.ClearSession()
	transport.ClearRememberedPair()
	return nil
}

func (uc *identityUseCase) LogoutEverywhere(
	ctx context.Context,
	transport CookieTransport,
	principal *domain.Principal,
) error {
	if principal == nil {
		return uc.Logout(ctx, transport, nil)
	}

	if _, err := uc.sessions.DestroyAllForUser(ctx, principal.UserID); err != nil {
		return err
	}
	return uc.Logout(ctx, transport, principal)
}

func (uc *identityUseCase) revokeCredentials(
	ctx context.Context,
	transport CookieTransport,
	principal *domain.Principal,
) error {
	if principal != nil {
		_, err := uc.engine.RevokeAllForUser(ctx, principal.UserID)
		return err
	}
	if token, _ := transport.RememberedPair(); token != "" {
		return uc.engine.Revoke(ctx, token)
	}
	return nil
}

func (uc *identityUseCase) RevokeUser(ctx context.Context, userID uuid.UUID) (*RevokeResult, error) {
	credentials, err := uc.engine.RevokeAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := uc.sessions.DestroyAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &RevokeResult{Credentials: credentials, Sessions: sessions}, nil
}

func orAnonymous(resolution *domain.Resolution) *domain.Resolution {
	if resolution == nil {
		return domain.Anonymous(domain.OutcomeAnonymous)
	}
	return resolution
}
