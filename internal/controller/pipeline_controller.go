package controller

import (
	"errors"

	"api-page-gen/internal/dto"
	"api-page-gen/internal/history"
	"api-page-gen/internal/pkg/serverutils"
	"api-page-gen/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPipelineController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	Run(ctx *fiber.Ctx) error
	Runs(ctx *fiber.Ctx) error
	RunDetail(ctx *fiber.Ctx) error
}

type pipelineController struct {
	pipelineService service.IPipelineService
}

func NewPipelineController(pipelineService service.IPipelineService) IPipelineController {
	return &pipelineController{
		pipelineService: pipelineService,
	}
}

func (c *pipelineController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)

	h := r.Group("/pipeline/v1")
	h.Post("run", c.Run)
	h.Get("runs", c.Runs)
	h.Get("runs/:id", c.RunDetail)
}

func (c *pipelineController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("ok", nil))
}

func (c *pipelineController) Run(ctx *fiber.Ctx) error {
	var req dto.RunRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.pipelineService.Run(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run pipeline", res))
}

func (c *pipelineController) Runs(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.pipelineService.Runs(ctx.Context(), limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list runs", res))
}

func (c *pipelineController) RunDetail(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	run, records, err := c.pipelineService.RunDetail(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "run not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get run", fiber.Map{
		"run":     run,
		"records": records,
	}))
}
