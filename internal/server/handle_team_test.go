package server

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	setupHunt(t, r, "trial")

	tests := []struct {
		name string
		req  RegisterRequest
		want string
	}{
		{
			name: "missing name",
			req: RegisterRequest{
				Password: "pw", PasswordVerify: "pw",
				Members: []MemberInput{{Name: "Sam", Email: "sam@example.com"}},
			},
			want: "team name is required",
		},
		{
			name: "password mismatch",
			req: RegisterRequest{
				Name: "Mismatch", Password: "pw", PasswordVerify: "other",
				Members: []MemberInput{{Name: "Sam", Email: "sam@example.com"}},
			},
			want: "passwords do not match",
		},
		{
			name: "no members",
			req:  RegisterRequest{Name: "Empty", Password: "pw", PasswordVerify: "pw"},
			want: "team must have at least one member",
		},
		{
			name: "bad email",
			req: RegisterRequest{
				Name: "BadMail", Password: "pw", PasswordVerify: "pw",
				Members: []MemberInput{{Name: "Sam", Email: "not-an-email"}},
			},
			want: "invalid member email address",
		},
		{
			name: "too many members",
			req: RegisterRequest{
				Name: "Crowd", Password: "pw", PasswordVerify: "pw",
				Members: []MemberInput{
					{Name: "A", Email: "a@example.com"},
					{Name: "B", Email: "b@example.com"},
					{Name: "C", Email: "c@example.com"},
					{Name: "D", Email: "d@example.com"},
					{Name: "E", Email: "e@example.com"},
				},
			},
			want: "too many members for this hunt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/trial/register", tt.req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			var resp ErrorResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if resp.Error != tt.want {
				t.Errorf("error = %q, want %q", resp.Error, tt.want)
			}
		})
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	r, _ := newTestRouter(t)
	setupHunt(t, r, "trial")
	registerTeam(t, r, "trial", "Taken")

	w := doJSON(t, r, http.MethodPost, "/api/trial/register", RegisterRequest{
		Name: "Taken", Password: "pw", PasswordVerify: "pw",
		Members: []MemberInput{{Name: "Sam", Email: "sam@example.com"}},
	})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestSigninAndGetTeam(t *testing.T) {
	r, _ := newTestRouter(t)
	setupHunt(t, r, "trial")
	registerTeam(t, r, "trial", "Returning")

	w := doJSON(t, r, http.MethodPost, "/api/trial/signin", SigninRequest{
		Name: "Returning", Password: "secret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signin: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	cookie := sessionCookie(t, w, teamCookieName)

	w = doJSON(t, r, http.MethodGet, "/api/trial/team", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("get team: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var team TeamResponse
	json.NewDecoder(w.Body).Decode(&team)
	if team.Name != "Returning" {
		t.Errorf("team name = %q, want Returning", team.Name)
	}
	if team.Guesses != 100 {
		t.Errorf("guesses = %d, want 100", team.Guesses)
	}
	if len(team.Members) != 1 || team.Members[0].Email != "sam@example.com" {
		t.Errorf("unexpected members: %v", team.Members)
	}
}

func TestSigninWrongPassword(t *testing.T) {
	r, _ := newTestRouter(t)
	setupHunt(t, r, "trial")
	registerTeam(t, r, "trial", "Careful")

	w := doJSON(t, r, http.MethodPost, "/api/trial/signin", SigninRequest{
		Name: "Careful", Password: "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestSignoutInvalidatesSession(t *testing.T) {
	r, _ := newTestRouter(t)
	setupHunt(t, r, "trial")
	cookie := registerTeam(t, r, "trial", "Leaving")

	w := doJSON(t, r, http.MethodPost, "/api/trial/signout", nil, cookie)
	if w.Code != http.StatusNoContent {
		t.Fatalf("signout: expected 204, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/trial/team", nil, cookie)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("after signout: expected 401, got %d", w.Code)
	}
}

func TestUpdateTeamReplacesMembers(t *testing.T) {
	r, _ := newTestRouter(t)
	setupHunt(t, r, "trial")
	cookie := registerTeam(t, r, "trial", "Shifting")

	w := doJSON(t, r, http.MethodPut, "/api/trial/team", UpdateTeamRequest{
		Members: []MemberInput{
			{Name: "New One", Email: "one@example.com"},
			{Name: "New Two", Email: "two@example.com"},
		},
	}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var team TeamResponse
	json.NewDecoder(w.Body).Decode(&team)
	if len(team.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(team.Members))
	}
	if team.Members[0].Email != "one@example.com" {
		t.Errorf("unexpected members: %v", team.Members)
	}
}

func TestTeamSessionBoundToHunt(t *testing.T) {
	r, _ := newTestRouter(t)
	setupHunt(t, r, "first")
	setupHunt(t, r, "second")
	cookie := registerTeam(t, r, "first", "Wanderers")

	// A session from one hunt does not work against another.
	w := doJSON(t, r, http.MethodGet, "/api/second/team", nil, cookie)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 across hunts, got %d", w.Code)
	}
}
