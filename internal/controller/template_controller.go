package controller

import (
	"api-page-gen/internal/pkg/serverutils"
	"api-page-gen/internal/service"
	"api-page-gen/pkg/template"

	"github.com/gofiber/fiber/v2"
)

type ITemplateController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
}

type templateController struct {
	pipelineService service.IPipelineService
}

func NewTemplateController(pipelineService service.IPipelineService) ITemplateController {
	return &templateController{
		pipelineService: pipelineService,
	}
}

func (c *templateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/template/v1")
	h.Get("", c.Show)
	h.Put("", c.Update)
}

func (c *templateController) Show(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get template", c.pipelineService.Template()))
}

func (c *templateController) Update(ctx *fiber.Ctx) error {
	var def template.Definition
	if err := ctx.BodyParser(&def); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := c.pipelineService.SetTemplate(&def); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update template", &def))
}
