package handler

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/LocialWang/coze-word-upload-plugin/internal/logger"
	"github.com/LocialWang/coze-word-upload-plugin/internal/openapi"
	"github.com/LocialWang/coze-word-upload-plugin/internal/service"
)

// UploadDocument accepts a multipart upload in the "document" field, runs it
// through the service and returns the full stored record.
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("document")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeFileRequired, "attach a Word document in the \"document\" field")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeFileOpenError, "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := svc.Upload(c.UserContext(), f, fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
		if err != nil {
			logger.Log.Warn("upload rejected",
				zap.String("filename", fh.Filename),
				zap.Int64("size", fh.Size),
				zap.Error(err))
			return writeServiceError(c, err)
		}

		logger.Log.Info("document uploaded",
			zap.String("file_id", doc.ID),
			zap.String("filename", doc.Filename),
			zap.Int("word_count", doc.WordCount))
		return writeData(c, "Word document uploaded successfully", doc)
	}
}

// GetDocument returns one record by its path identifier.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Get(c.UserContext(), c.Params("fileId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeData(c, "", doc)
	}
}

// ListDocuments returns summaries of every stored document, without content.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summaries, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeData(c, "", summaries)
	}
}

// DeleteDocument removes the stored file and record for the path identifier.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("fileId")
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		logger.Log.Info("document deleted", zap.String("file_id", id))
		return writeData(c, "document deleted", nil)
	}
}

// HealthCheck is a liveness probe: static status plus the current timestamp.
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"message":   "word document upload plugin is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Healthz is a bare liveness probe for orchestrators.
func Healthz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// LegalInfo serves the static terms-of-service text.
func LegalInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "Word Document Upload Plugin",
			"version": "1.0.0",
			"terms":   "This plugin processes documents only; uploaded content is not stored permanently.",
			"privacy": "No personal information is collected or retained.",
			"contact": "support@example.com",
		})
	}
}

// OpenAPIJSON serves the API description with the server URL rewritten to the
// scheme and host of the inbound request.
func OpenAPIJSON() fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := openapi.Document(requestBaseURL(c))
		if err != nil {
			logger.Log.Error("serve openapi.json", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, CodeInternalError, "internal server error")
		}
		return c.JSON(doc)
	}
}

// OpenAPIYAML serves the pre-authored YAML schema verbatim from disk.
func OpenAPIYAML(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := os.Stat(path); err != nil {
			logger.Log.Error("openapi.yaml unavailable", zap.String("path", path), zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, CodeInternalError, "unable to serve the YAML API specification")
		}
		c.Type("yaml")
		return c.SendFile(path)
	}
}

// Docs serves a minimal Swagger UI page backed by /openapi.yaml.
func Docs() fiber.Handler {
	const page = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
	return func(c *fiber.Ctx) error {
		return c.Type("html").SendString(page)
	}
}

// requestBaseURL reconstructs the inbound request's origin, honoring
// X-Forwarded-Proto behind proxies.
func requestBaseURL(c *fiber.Ctx) string {
	scheme := c.Protocol()
	if proto := c.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Hostname()
}
