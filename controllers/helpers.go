package controllers

import (
	"net/http"
	"salonbook-backend/auth"
	"salonbook-backend/services"
	"salonbook-backend/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondServiceError maps business errors to their status codes. Anything else is
// logged and reported as a 500 without details.
func respondServiceError(c *gin.Context, log *zap.Logger, err error) {
	e, ok := services.AsError(err)
	if !ok {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	switch e.Kind {
	case services.KindValidation:
		utils.RespondWithFieldErrors(c, http.StatusBadRequest, e.Message, e.Fields)
	case services.KindForbidden:
		utils.RespondWithError(c, http.StatusForbidden, e.Message)
	case services.KindConflict:
		utils.RespondWithConflict(c, http.StatusConflict, e.Code, e.Message)
	case services.KindNotFound:
		utils.RespondWithError(c, http.StatusNotFound, e.Message)
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func bindJSON(c *gin.Context, input interface{}) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		utils.RespondWithFieldErrors(c, http.StatusBadRequest, "Invalid input", utils.BindingErrors(err))
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// salonActor returns the actor of a salon-scoped route.
func salonActor(c *gin.Context) (*auth.Actor, bool) {
	actor := auth.ActorFrom(c)
	if actor == nil || !actor.HasSalon() {
		utils.RespondWithError(c, http.StatusForbidden, "This action requires a salon account")
		return nil, false
	}
	return actor, true
}

// fieldErrors collects per-field parse failures of request values.
type fieldErrors map[string]string

func (f fieldErrors) parse(name string, value *string) *time.Time {
	if value == nil {
		return nil
	}
	t, err := utils.ParseWallClock(*value)
	if err != nil {
		f[name] = "must be YYYY-MM-DD HH:MM[:SS]"
		return nil
	}
	return &t
}

func (f fieldErrors) parseDate(name string, value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := utils.ParseDate(value)
	if err != nil {
		f[name] = "must be YYYY-MM-DD"
		return nil
	}
	return &t
}

func (f fieldErrors) respond(c *gin.Context) bool {
	if len(f) == 0 {
		return false
	}
	utils.RespondWithFieldErrors(c, http.StatusBadRequest, "Invalid input", f)
	return true
}

func parseIDs(fields fieldErrors, name string, values []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			fields[name] = "must contain valid ids"
			return nil
		}
		ids = append(ids, id)
	}
	return ids
}

// uuidOf parses a value already checked by the uuid binding tag.
func uuidOf(value string) uuid.UUID {
	return uuid.MustParse(value)
}
