package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/challenge"
)

type challengeApi struct {
	svc *challenge.Service
}

func registerChallengeAPI(g *echo.Group, jwt, subscription echo.MiddlewareFunc, svc *challenge.Service) {
	api := challengeApi{svc: svc}

	cg := g.Group("/challenges", jwt, subscription)
	cg.GET("/:id", api.retrieve)
	cg.POST("/:id/days/:day/complete", api.completeDay)
}

// Handlers

func (api *challengeApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	desc, prog, err := api.svc.View(ctx.Request().Context(), claims.Subject, ctx.Param("id"), time.Now())
	if err != nil {
		return errors.Wrap(err, "viewing challenge")
	}

	return ctx.JSON(http.StatusOK, newChallengeResponse(desc, prog))
}

func (api *challengeApi) completeDay(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	day, err := strconv.Atoi(ctx.Param("day"))
	if err != nil {
		return errHttpNotFound
	}

	prog, err := api.svc.CompleteDay(ctx.Request().Context(), claims.Subject, ctx.Param("id"), day, time.Now())
	if err != nil {
		return errors.Wrap(err, "completing challenge day")
	}

	desc, _ := api.svc.Catalog().Get(prog.ChallengeID)
	return ctx.JSON(http.StatusOK, newChallengeResponse(desc, prog))
}

type ChallengeResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Days             int        `json:"days"`
	StartDate        *time.Time `json:"start_date"`
	AvailableDays    int        `json:"available_days"`
	LastCompletedDay int        `json:"last_completed_day"`
}

func newChallengeResponse(desc challenge.Descriptor, prog challenge.Progress) ChallengeResponse {
	available := challenge.AvailableDays(prog.StartDate, time.Now())
	if available > desc.Days {
		// an unlocked horizon never exceeds the challenge length on display
		available = desc.Days
	}
	return ChallengeResponse{
		ID:               desc.ID,
		Title:            desc.Title,
		Days:             desc.Days,
		StartDate:        prog.StartDate,
		AvailableDays:    available,
		LastCompletedDay: prog.LastCompletedDay,
	}
}
