package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/n4u77i/reminderApp/internal/dto"
	"github.com/n4u77i/reminderApp/internal/service"
)

// Names of the body fields the create endpoint understands. Anything else in
// the body passes through to the stored record.
const (
	fieldEmail        = "email"
	fieldPhoneNumber  = "phoneNumber"
	fieldReminder     = "reminder"
	fieldReminderDate = "reminderDate"
)

type ReminderController struct {
	svc *service.ReminderService
}

func NewReminderController(svc *service.ReminderService) *ReminderController {
	return &ReminderController{svc: svc}
}

// CreateReminder handles POST /reminders. The body is an open JSON object;
// validation of the known fields happens in the service so the endpoint and
// any future caller agree on the rules.
func (ct *ReminderController) CreateReminder(c *gin.Context) {
	defer c.Request.Body.Close()

	body := make(map[string]any)
	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()

	if err := decoder.Decode(&body); err != nil {
		reminderLogger.Error("invalid request body", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": "request body must be a JSON object",
		})
		return
	}

	input, err := inputFromBody(body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	out, err := ct.svc.Create(c.Request.Context(), input)

	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": ve.Error(),
			})
			return
		}
		reminderLogger.Error("failed to create reminder", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"message": "failed to create reminder",
		})
		return
	}

	c.JSON(http.StatusOK, out)
}

// GetReminders handles GET /reminders/:userId, returning the user's reminders
// ordered by due time. ?order=desc reverses the order.
func (ct *ReminderController) GetReminders(c *gin.Context) {
	userId := c.Param("userId")

	var ops dto.ListOps
	if err := c.ShouldBindWith(&ops, binding.Query); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := make([]ErrMsg, len(ve))

			for i, fe := range ve {
				out[i] = ErrMsg{
					Message: getErrorMsg(fe),
					Field:   fe.Field(),
				}
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"errors": out,
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": "failed to validate query parameters",
		})
		return
	}

	reminders, err := ct.svc.ListByOwner(c.Request.Context(), userId, &ops)

	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": ve.Error(),
			})
			return
		}
		reminderLogger.Error("failed to list reminders", slog.String("owner", userId), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"message": "failed to get reminders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": reminders,
	})
}

// inputFromBody splits the open body into the known create fields and the
// passthrough extras. Numbers arrive as json.Number so millisecond timestamps
// keep their precision. A known field carrying the wrong JSON type is an
// error, not an extra: silently dropping it would surface later as a
// misleading missing-field message.
func inputFromBody(body map[string]any) (*dto.CreateReminderInput, error) {
	input := &dto.CreateReminderInput{Extra: make(map[string]any)}

	for k, v := range body {
		switch k {
		case fieldEmail, fieldPhoneNumber, fieldReminder:
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be a string", k)
			}
			switch k {
			case fieldEmail:
				input.Email = s
			case fieldPhoneNumber:
				input.PhoneNumber = s
			case fieldReminder:
				input.Message = s
			}
		case fieldReminderDate:
			n, ok := v.(json.Number)
			if !ok {
				return nil, fmt.Errorf("%s must be a number", k)
			}
			ms, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("%s must be a whole number of milliseconds", k)
			}
			input.DueTimeMillis = ms
		default:
			input.Extra[k] = v
		}
	}

	return input, nil
}
