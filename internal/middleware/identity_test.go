package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradesync/internal/config"
	apierrors "gradesync/internal/errors"
	"gradesync/internal/shared/testutil"
	"gradesync/pkg/contracts/domain"
)

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		display string
		want    domain.Identity
		wantErr bool
	}{
		{name: "full name", id: "42", display: "Anna  Petrova", want: domain.Identity{ID: 42, FirstName: "Anna", LastName: "Petrova"}},
		{name: "first name only", id: " 7 ", display: "Bob", want: domain.Identity{ID: 7, FirstName: "Bob"}},
		{name: "no name", id: "9", want: domain.Identity{ID: 9}},
		{name: "missing id", display: "Bob", wantErr: true},
		{name: "not a number", id: "abc", wantErr: true},
		{name: "negative", id: "-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			h.Set(config.HeaderUserID, tt.id)
			h.Set(config.HeaderUserName, tt.display)

			got, err := ParseIdentity(h)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func identityChain(access config.AccessConfig, final http.Handler) http.Handler {
	eh := apierrors.NewErrorHandler(testutil.DiscardLogger(), false)
	return Identity(access, eh, testutil.DiscardLogger())(final)
}

func TestIdentityGate(t *testing.T) {
	access := config.AccessConfig{AllowedUserIDs: []int64{10, 11}, AdminID: 99}

	var got domain.Identity
	var admin bool
	h := identityChain(access, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		admin = IsAdmin(r.Context())
	}))

	do := func(id string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/grades", nil)
		if id != "" {
			req.Header.Set(config.HeaderUserID, id)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do(""))
	assert.Equal(t, http.StatusForbidden, do("12"))

	assert.Equal(t, http.StatusOK, do("10"))
	assert.Equal(t, int64(10), got.ID)
	assert.False(t, admin)

	assert.Equal(t, http.StatusOK, do("99"))
	assert.True(t, admin)
}

func TestIdentityEmptyAllowListAdmitsOnlyAdmin(t *testing.T) {
	h := identityChain(config.AccessConfig{AdminID: 5}, http.HandlerFunc(okHandler))

	for id, want := range map[string]int{"5": http.StatusOK, "6": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(config.HeaderUserID, id)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "user %s", id)
	}
}

func TestRequireAdmin(t *testing.T) {
	eh := apierrors.NewErrorHandler(testutil.DiscardLogger(), false)
	h := RequireAdmin(eh)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(WithIdentity(req.Context(), domain.Identity{ID: 1}, false)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(WithIdentity(req.Context(), domain.Identity{ID: 1}, true)))
	assert.Equal(t, http.StatusOK, rec.Code)
}
