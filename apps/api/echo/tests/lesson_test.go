package tests

import (
	"net/http"
	"testing"

	. "github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core/lesson"
	"github.com/darasahq/darasa/core/user"
	testutil "github.com/darasahq/darasa/tests"
)

func Test_lessonApi_list(t *testing.T) {
	member := testutil.CreateUser(t, usrRepo, "Lister", "lister", "lister@test.cd", "", user.MemberRoles, true)
	subscribe(member)
	broke := testutil.CreateUser(t, usrRepo, "Broke", "broke1", "broke@test.cd", "", user.MemberRoles, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin1", "admin1@test.cd", "", user.AdminRoles, true)

	wantList := LessonListResponse{
		Lessons: []LessonListItem{
			{ID: lesson.DeriveID(1), Index: 1, Part: "part-1", Title: "Lesson 1", Accessible: true},
			{ID: lesson.DeriveID(2), Index: 2, Part: "part-1", Title: "Lesson 2", Accessible: true},
			{ID: lesson.DeriveID(3), Index: 3, Part: "part-2", Title: "Lesson 3", Accessible: true},
			{ID: lesson.DeriveID(4), Index: 4, Part: "part-2", Title: "Lesson 4"},
			{ID: lesson.DeriveID(5), Index: 5, Part: "part-3", Title: "Lesson 5"},
		},
		NextAvailableID: lesson.DeriveID(3),
	}

	tests := []httpTest{
		{name: "Auth required", path: "/v1/lessons", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Subscription required", path: "/v1/lessons", token: getToken(t, broke),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errNoSubscription),
		},
		{
			name: "Member sees starter window + drip target", path: "/v1/lessons", token: getToken(t, member),
			wantCode: http.StatusOK, wantData: marchallObj(t, wantList),
		},
		{
			name: "Admin bypasses subscription", path: "/v1/lessons", token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, wantList),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_lessonApi_retrieve(t *testing.T) {
	member := testutil.CreateUser(t, usrRepo, "Viewer", "viewer", "viewer@test.cd", "", user.MemberRoles, true)
	subscribe(member)
	token := getToken(t, member)

	lesson1 := LessonDetailResponse{ID: lesson.DeriveID(1), Index: 1, Part: "part-1", Title: "Lesson 1"}
	locked5 := LessonRedirectResponse{Locked: true, Redirect: "/v1/lessons/" + lesson.DeriveID(3)}

	tests := []httpTest{
		{
			name: "Accessible lesson", path: "/v1/lessons/" + lesson.DeriveID(1), token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, lesson1),
		},
		{
			name: "Legacy numeric identifier", path: "/v1/lessons/1", token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, lesson1),
		},
		{
			name: "Beyond the drip target", path: "/v1/lessons/" + lesson.DeriveID(5), token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, locked5),
		},
		{
			name: "Unknown lesson", path: "/v1/lessons/nope", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_lessonApi_complete(t *testing.T) {
	member := testutil.CreateUser(t, usrRepo, "Finisher", "finisher", "finisher@test.cd", "", user.MemberRoles, true)
	subscribe(member)
	token := getToken(t, member)

	completePath := func(id string) string { return "/v1/lessons/" + id + "/complete" }
	result := func(state lesson.CompletionState, index int, part string) lesson.CompletionResult {
		return lesson.CompletionResult{State: state, LessonID: lesson.DeriveID(index), Index: index, Part: part}
	}

	tests := []httpTest{
		{
			name: "Complete the drip target", path: completePath(lesson.DeriveID(3)), token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, result(lesson.StateCompleted, 3, "part-2")),
		},
		{
			name: "Replay is idempotent", path: completePath(lesson.DeriveID(3)), token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, result(lesson.StateAlreadyCompleted, 3, "part-2")),
		},
		{
			name: "Second non-starter lesson hits the daily limit", path: completePath(lesson.DeriveID(4)), token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, result(lesson.StateDailyLimitReached, 4, "part-2")),
		},
		{
			name: "Starter lesson ignores the spent quota", path: completePath(lesson.DeriveID(1)), token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, result(lesson.StateCompleted, 1, "part-1")),
		},
		{
			name: "Invalid identifier", path: completePath("abc"), token: token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"lesson_id": "invalid lesson identifier"}),
		},
		{
			name: "Unknown lesson", path: completePath(lesson.DeriveID(42)), token: token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"lesson_id": "unknown lesson"}),
		},
		{
			name: "Drip target moved on", method: http.MethodGet, path: "/v1/lessons/" + lesson.DeriveID(4), token: token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, LessonDetailResponse{ID: lesson.DeriveID(4), Index: 4, Part: "part-2", Title: "Lesson 4"}),
		},
		{
			name: "Locked lesson reports the spent quota", method: http.MethodGet, path: "/v1/lessons/" + lesson.DeriveID(5), token: token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, LessonRedirectResponse{LimitReached: true, Redirect: "/v1/lessons/" + lesson.DeriveID(4)}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.method == "" {
				tt.method = http.MethodPost
			}
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
