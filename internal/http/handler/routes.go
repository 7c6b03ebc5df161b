package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LocialWang/coze-word-upload-plugin/internal/service"
)

// RegisterRoutes attaches the HTTP surface to the Fiber app. openapiYAMLPath
// points at the pre-authored schema file served on /openapi.yaml.
func RegisterRoutes(app *fiber.App, svc service.DocumentService, openapiYAMLPath string) {
	app.Post("/upload-word", UploadDocument(svc))
	app.Get("/get-document/:fileId", GetDocument(svc))
	app.Get("/documents", ListDocuments(svc))
	app.Delete("/delete-document/:fileId", DeleteDocument(svc))

	app.Get("/health", HealthCheck())
	app.Get("/healthz", Healthz())
	app.Get("/legal", LegalInfo())

	app.Get("/openapi.json", OpenAPIJSON())
	app.Get("/openapi.yaml", OpenAPIYAML(openapiYAMLPath))
	app.Get("/docs", Docs())
}
