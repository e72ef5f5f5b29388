package controllers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"contactus-backend/contact"
	"contactus-backend/database"
	"contactus-backend/middlewares"
	"contactus-backend/models"
	"contactus-backend/notify"
	"contactus-backend/utils"
)

const (
	msgSubmitted   = "Contact form submitted successfully"
	msgInvalidData = "Invalid data"
	notifyTimeout  = 15 * time.Second
)

type ContactController struct {
	svc      *contact.Service
	store    database.ContactStore
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewContactController(store database.ContactStore, notifier notify.Notifier, logger *slog.Logger) *ContactController {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &ContactController{
		svc:      contact.NewService(store),
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit handles POST /api/contact.
func (h *ContactController) Submit(c *fiber.Ctx) error {
	data, err := parseSubmission(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res := h.svc.Submit(c.UserContext(), data)
	switch res.Outcome {
	case contact.Accepted:
		h.notify(*res.Submission)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": msgSubmitted,
			"id":      res.Submission.ID,
		})
	case contact.Rejected:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": msgInvalidData,
			"errors":  res.Errors,
		})
	default:
		h.logger.Error("error processing contact form",
			slog.String("request_id", middlewares.RequestID(c)),
			slog.String("kind", string(res.Fault)),
			slog.Any("error", res.Err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": middlewares.GenericFailureMessage,
		})
	}
}

// parseSubmission decodes a JSON body as-is, or a urlencoded form into a
// string map. The result is handed to the validator untyped.
func parseSubmission(c *fiber.Ctx) (any, error) {
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationForm) {
		data := make(map[string]any)
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			data[string(k)] = string(v)
		})
		return data, nil
	}
	var data any
	if err := c.BodyParser(&data); err != nil {
		return nil, err
	}
	return data, nil
}

func (h *ContactController) notify(sub models.ContactSubmission) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := h.notifier.Notify(ctx, sub); err != nil {
			h.logger.Warn("contact notification failed",
				slog.Uint64("contact_id", sub.ID),
				slog.Any("error", err),
			)
		}
	}()
}

// ListContacts handles GET /api/admin/contacts.
func (h *ContactController) ListContacts(c *fiber.Ctx) error {
	from, err := utils.ParseTimeParam(c.Query("from"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	to, err := utils.ParseEndTimeParam(c.Query("to"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	q := database.ContactQuery{
		Subject: c.Query("subject"),
		Search:  c.Query("q"),
		From:    from,
		To:      to,
		Limit:   utils.ParseIntDefault(c.Query("limit"), database.DefaultListLimit),
		Offset:  utils.ParseIntDefault(c.Query("offset"), 0),
	}.Normalize()

	contacts, total, err := h.store.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"contacts": contacts,
		"total":    total,
		"limit":    q.Limit,
		"offset":   q.Offset,
		"message":  "success",
	})
}

// GetContact handles GET /api/admin/contacts/:id.
func (h *ContactController) GetContact(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid contact id")
	}

	sub, err := h.store.Get(c.UserContext(), id)
	if errors.Is(err, database.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "contact not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(sub)
}
