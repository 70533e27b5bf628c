package controller

import (
	"api-page-gen/internal/pkg/logger"
	"api-page-gen/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type ILogController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
}

type logController struct {
	logger logger.ILogger
}

func NewLogController(sysLogger logger.ILogger) ILogController {
	return &logController{
		logger: sysLogger,
	}
}

func (c *logController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/logs/v1")
	h.Get("", c.Index)
}

func (c *logController) Index(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("offset", 0)

	logs, err := c.logger.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get logs", logs))
}
