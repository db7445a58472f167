package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const (
	// HeaderUserID ID пользователя, проставляемый API gateway
	HeaderUserID = "X-User-ID"

	// HeaderUserRole роль пользователя: customer или staff
	HeaderUserRole = "X-User-Role"
)

const (
	msgMissingUserID = "требуется заголовок X-User-ID"
	msgInvalidUserID = "некорректный заголовок X-User-ID"
	msgInvalidRole   = "некорректный заголовок X-User-Role"
	msgStaffOnly     = "действие доступно только сотрудникам"
)

type actorKey struct{}

// Auth требует X-User-ID и кладёт Actor в контекст. Без X-User-Role пользователь считается клиентом.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderUserID) == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		actor, ok := parseActor(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// OptionalAuth кладёт Actor в контекст, если X-User-ID передан; иначе запрос гостевой
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderUserID) == "" {
			next.ServeHTTP(w, r)
			return
		}

		actor, ok := parseActor(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// StaffOnly пропускает только сотрудников. Ставится после Auth.
func StaffOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		if !actor.IsStaff() {
			handlers.RespondForbidden(w, msgStaffOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithActor кладёт Actor в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor достаёт Actor из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// GetUserID достаёт ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	if !ok {
		return 0, false
	}
	return actor.UserID, true
}

func parseActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
	if err != nil || userID <= 0 {
		handlers.RespondUnauthorized(w, msgInvalidUserID)
		return domain.Actor{}, false
	}

	role := domain.RoleCustomer
	if raw := r.Header.Get(HeaderUserRole); raw != "" {
		role, err = domain.ParseActorRole(raw)
		if err != nil {
			handlers.RespondUnauthorized(w, msgInvalidRole)
			return domain.Actor{}, false
		}
	}

	return domain.Actor{UserID: userID, Role: role}, true
}
