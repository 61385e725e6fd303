package tests

import (
	"net/http"
	"testing"

	. "github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core/user"
	testutil "github.com/darasahq/darasa/tests"
)

func Test_userApi_login(t *testing.T) {
	testutil.CreateUser(t, usrRepo, "Login User", "log1nuser", "login@test.cd", "Sup3rS3cret!", user.MemberRoles, true)
	testutil.CreateUser(t, usrRepo, "Lazy User", "lazyuser", "lazy@test.cd", "Sup3rS3cret!", user.MemberRoles, false)

	tests := []httpTest{
		{
			name: "Valid credentials", body: []byte(`{"username": "log1nuser", "password": "Sup3rS3cret!"}`),
			wantCode: http.StatusOK,
		},
		{
			name: "Login by email", body: []byte(`{"username": "login@test.cd", "password": "Sup3rS3cret!"}`),
			wantCode: http.StatusOK,
		},
		{
			name: "Wrong password", body: []byte(`{"username": "log1nuser", "password": "nope"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "Unknown user", body: []byte(`{"username": "ghost", "password": "nope"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "Deactivated account", body: []byte(`{"username": "lazyuser", "password": "Sup3rS3cret!"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "Missing fields", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)
			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Fatalf("code = %v; wantCode %v: %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var res LoginResponse
				decodeBody(t, rec, &res)
				if res.Token == "" {
					t.Error("expected a token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_me(t *testing.T) {
	member := testutil.CreateUser(t, usrRepo, "Me User", "me-user", "me@test.cd", "", user.MemberRoles, true)

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/users/me")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("Own profile", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/me", getToken(t, member))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, member)}, rec)
	})
}

func Test_userApi_query(t *testing.T) {
	member := testutil.CreateUser(t, usrRepo, "Plain Member", "plainmember", "plain@test.cd", "", user.MemberRoles, true)
	admin := testutil.CreateUser(t, usrRepo, "Query Admin", "queryadmin", "queryadmin@test.cd", "", user.AdminRoles, true)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, member),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
		{name: "Admin allowed", token: getToken(t, admin), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users", tt.token)
			app.ServeHTTP(rec, req)
			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Fatalf("code = %v; wantCode %v: %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var users []user.User
				decodeBody(t, rec, &users)
				if len(users) == 0 {
					t.Error("expected at least one user")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_passwordReset(t *testing.T) {
	testutil.CreateUser(t, usrRepo, "Forgetful", "forgetful", "forgetful@test.cd", "0ldPassw0rd!", user.MemberRoles, true)

	t.Run("Request always succeeds", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/password-reset", []byte(`{"email": "ghost@test.cd"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusOK)
		}
	})

	t.Run("Bad confirm token", func(t *testing.T) {
		body := []byte(`{"uid": "bogus", "token": "bogus", "password": "NewPassw0rd!", "password_confirm": "NewPassw0rd!"}`)
		req, rec := newRequest(http.MethodPost, "/v1/users/password-reset-confirm", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid token"}),
		}, rec)
	})
}
