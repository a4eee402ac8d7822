package controller

import (
	"mallfinder-be/internal/pkg/logger"
	"mallfinder-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetLogs(ctx *fiber.Ctx) error
	GetActivityLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	sysLogger logger.ILogger
	actLogger logger.ILogger
}

func NewAdminController(sysLogger, actLogger logger.ILogger) IAdminController {
	return &adminController{
		sysLogger: sysLogger,
		actLogger: actLogger,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("logs", c.GetLogs)
	h.Get("activity-logs", c.GetActivityLogs)
}

// GetLogs pages through the technical log file, newest first.
func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	return c.serveLogs(ctx, c.sysLogger)
}

// GetActivityLogs pages through the pseudonymized user-activity log.
func (c *adminController) GetActivityLogs(ctx *fiber.Ctx) error {
	return c.serveLogs(ctx, c.actLogger)
}

func (c *adminController) serveLogs(ctx *fiber.Ctx, l logger.ILogger) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("offset", 0)
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := l.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Logs", entries))
}
