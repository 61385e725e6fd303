package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/lesson"
)

const (
	lastLessonCookie = "last_lesson"
	openPartCookie   = "open_part"
)

type lessonApi struct {
	svc *lesson.Service
}

func registerLessonAPI(g *echo.Group, jwt, subscription echo.MiddlewareFunc, svc *lesson.Service) {
	api := lessonApi{svc: svc}

	lg := g.Group("/lessons", jwt, subscription)
	lg.GET("", api.list)
	lg.GET("/:id", api.retrieve)
	lg.POST("/:id/complete", api.complete)
}

// Handlers

func (api *lessonApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	snap, err := api.svc.Snapshot(ctx.Request().Context(), claims.Subject, time.Now())
	if err != nil {
		return errors.Wrap(err, "loading eligibility snapshot")
	}

	cat := api.svc.Catalog()
	items := make([]LessonListItem, 0, cat.Len())
	for _, l := range cat.All() {
		items = append(items, LessonListItem{
			ID:             l.ID,
			Index:          l.Index,
			Part:           l.Part,
			Title:          l.Title,
			RequiresRating: l.RequiresRating,
			Accessible:     snap.Accessible(l.ID),
			Completed:      snap.Completed(l.ID),
		})
	}

	return ctx.JSON(http.StatusOK, LessonListResponse{
		Lessons:           items,
		NextAvailableID:   snap.NextAvailableID,
		DailyLimitReached: snap.DailyQuotaSpent,
	})
}

func (api *lessonApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	desc, ok := api.svc.Catalog().Get(lesson.Normalize(ctx.Param("id")))
	if !ok {
		return errHttpNotFound
	}

	snap, err := api.svc.Snapshot(ctx.Request().Context(), claims.Subject, time.Now())
	if err != nil {
		return errors.Wrap(err, "loading eligibility snapshot")
	}

	// a lesson out of reach is not an error: the client is redirected to
	// the next available one instead
	if !snap.Accessible(desc.ID) {
		res := LessonRedirectResponse{Redirect: "/v1/lessons/" + snap.NextAvailableID}
		if snap.DailyQuotaSpent {
			res.LimitReached = true
		} else {
			res.Locked = true
		}
		return ctx.JSON(http.StatusOK, res)
	}

	setLessonCookies(ctx, desc)

	return ctx.JSON(http.StatusOK, LessonDetailResponse{
		ID:             desc.ID,
		Index:          desc.Index,
		Part:           desc.Part,
		Title:          desc.Title,
		Body:           desc.Body,
		RequiresRating: desc.RequiresRating,
		Completed:      snap.Completed(desc.ID),
	})
}

func (api *lessonApi) complete(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	res, err := api.svc.Complete(ctx.Request().Context(), claims.Subject, claims.TeamID, ctx.Param("id"), time.Now())
	if err != nil {
		return errors.Wrap(err, "completing lesson")
	}

	if desc, ok := api.svc.Catalog().Get(res.LessonID); ok {
		setLessonCookies(ctx, desc)
	}
	return ctx.JSON(http.StatusOK, res)
}

func setLessonCookies(ctx echo.Context, desc lesson.Descriptor) {
	ctx.SetCookie(&http.Cookie{Name: lastLessonCookie, Value: desc.ID, Path: "/"})
	ctx.SetCookie(&http.Cookie{Name: openPartCookie, Value: desc.Part, Path: "/"})
}

type (
	LessonListItem struct {
		ID             string `json:"id"`
		Index          int    `json:"index"`
		Part           string `json:"part"`
		Title          string `json:"title"`
		RequiresRating bool   `json:"requires_rating"`
		Accessible     bool   `json:"accessible"`
		Completed      bool   `json:"completed"`
	}

	LessonListResponse struct {
		Lessons           []LessonListItem `json:"lessons"`
		NextAvailableID   string           `json:"next_available_id"`
		DailyLimitReached bool             `json:"daily_limit_reached"`
	}

	LessonDetailResponse struct {
		ID             string `json:"id"`
		Index          int    `json:"index"`
		Part           string `json:"part"`
		Title          string `json:"title"`
		Body           string `json:"body"`
		RequiresRating bool   `json:"requires_rating"`
		Completed      bool   `json:"completed"`
	}

	LessonRedirectResponse struct {
		Locked       bool   `json:"locked,omitempty"`
		LimitReached bool   `json:"limit_reached,omitempty"`
		Redirect     string `json:"redirect"`
	}
)
