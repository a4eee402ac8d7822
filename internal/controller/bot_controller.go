package controller

import (
	"mallfinder-be/internal/dto"
	"mallfinder-be/internal/pkg/serverutils"
	"mallfinder-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBotController interface {
	RegisterRoutes(r fiber.Router)
	Update(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type botController struct {
	dialogService service.IDialogService
	botToken      string
}

func NewBotController(dialogService service.IDialogService, botToken string) IBotController {
	return &botController{
		dialogService: dialogService,
		botToken:      botToken,
	}
}

func (c *botController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/bot/v1")
	h.Use(serverutils.BotAuthMiddleware(c.botToken))
	h.Post("update", c.Update)
	h.Post("callback", c.Callback)
}

// Update handles a free-text message from the gateway.
func (c *botController) Update(ctx *fiber.Ctx) error {
	var req dto.UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.dialogService.HandleMessage(ctx.Context(), req.UserID, req.Text)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

// Callback handles an inline-button press from the gateway.
func (c *botController) Callback(ctx *fiber.Ctx) error {
	var req dto.CallbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.dialogService.HandleCallback(ctx.Context(), req.UserID, req.CallbackData)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
