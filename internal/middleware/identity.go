package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"gradesync/internal/config"
	apierrors "gradesync/internal/errors"
	"gradesync/internal/infrastructure"
	"gradesync/pkg/contracts/domain"
)

type identityKey struct{}

// caller is what Identity stores in the request context
type caller struct {
	identity domain.Identity
	admin    bool
}

// Identity reads the caller from X-User-ID and X-User-Name and checks it
// against the access list. A missing or malformed ID is 401, an ID not on the
// list is 403.
func Identity(access config.AccessConfig, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) func(next http.Handler) http.Handler {
	logger = infrastructure.WithComponent(logger, "identity")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := ParseIdentity(r.Header)
			if err != nil {
				logger.DebugContext(r.Context(), "rejecting anonymous request", slog.String("error", err.Error()))
				errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
				return
			}
			if !access.IsAllowed(id.ID) {
				logger.WarnContext(r.Context(), "user not on allow-list", slog.Int64("user_id", id.ID))
				errorHandler.HandleError(w, r, apierrors.ErrForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, caller{identity: id, admin: access.IsAdmin(id.ID)})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin lets only the configured admin through. It must run after Identity.
func RequireAdmin(errorHandler *apierrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r.Context()) {
				errorHandler.HandleError(w, r, apierrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ParseIdentity builds an identity from request headers. The name header is
// split on the first space into first and last name.
func ParseIdentity(h http.Header) (domain.Identity, error) {
	raw := strings.TrimSpace(h.Get(config.HeaderUserID))
	if raw == "" {
		return domain.Identity{}, fmt.Errorf("%s header is missing", config.HeaderUserID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return domain.Identity{}, fmt.Errorf("%s header is not a positive integer: %q", config.HeaderUserID, raw)
	}

	identity := domain.Identity{
		ID:           id,
		LanguageCode: strings.TrimSpace(h.Get(config.HeaderUserLanguage)),
	}
	name := strings.Join(strings.Fields(h.Get(config.HeaderUserName)), " ")
	if first, last, ok := strings.Cut(name, " "); ok {
		identity.FirstName, identity.LastName = first, last
	} else {
		identity.FirstName = name
	}
	return identity, nil
}

// IdentityFromContext returns the caller stored by Identity
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	c, ok := ctx.Value(identityKey{}).(caller)
	return c.identity, ok
}

// IsAdmin reports whether the caller stored by Identity is the admin
func IsAdmin(ctx context.Context) bool {
	c, ok := ctx.Value(identityKey{}).(caller)
	return ok && c.admin
}

// WithIdentity stores a caller in ctx the way Identity does
func WithIdentity(ctx context.Context, id domain.Identity, admin bool) context.Context {
	return context.WithValue(ctx, identityKey{}, caller{identity: id, admin: admin})
}
