package api

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/finwise/statement-extractor/internal/extract"
	"github.com/finwise/statement-extractor/internal/models"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// ExtractResponse is the JSON body of /api/extract.
type ExtractResponse struct {
	RequestID    string                `json:"requestId"`
	Success      bool                  `json:"success"`
	Message      string                `json:"message,omitempty"`
	Error        string                `json:"error,omitempty"`
	Transactions []models.Transaction  `json:"transactions"`
	Statement    *models.BankStatement `json:"statement,omitempty"`
	Count        int                   `json:"count"`
	TotalDebit   float64               `json:"totalDebit"`
	TotalCredit  float64               `json:"totalCredit"`
}

// Handler exposes the extraction pipeline over HTTP.
type Handler struct {
	Extractor *extract.Service
	Log       *logrus.Logger
}

// Register sets up the API routes on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/extract", h.HandleExtract)
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
	})
}

// HandleExtract accepts either a multipart PDF upload (field "file") or raw
// statement text (field "text", the paste path) and returns the extraction
// result. Failures are JSON result objects, never 5xx crashes.
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	log := h.logger().WithField("requestId", requestID)

	if text := strings.TrimSpace(c.FormValue("text")); text != "" {
		log.WithField("chars", len(text)).Info("extracting from pasted text")
		return respond(c, requestID, h.Extractor.ExtractText(text))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, requestID, fiber.StatusBadRequest, "No file uploaded. Use form field 'file' or 'text'.")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return fail(c, requestID, fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return fail(c, requestID, fiber.StatusBadRequest, fmt.Sprintf("Failed to read upload: %v", err))
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return fail(c, requestID, fiber.StatusInternalServerError, "Failed to create temp file.")
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return fail(c, requestID, fiber.StatusInternalServerError, "Failed to save uploaded file.")
	}
	tmp.Close()

	log.WithField("file", fileHeader.Filename).Info("extracting from uploaded document")
	return respond(c, requestID, h.Extractor.ExtractFile(tmp.Name()))
}

func respond(c *fiber.Ctx, requestID string, res *models.ExtractionResult) error {
	txns := res.Transactions
	if txns == nil {
		txns = []models.Transaction{}
	}

	var totalDebit, totalCredit float64
	for _, txn := range txns {
		if txn.Amount < 0 {
			totalDebit += -txn.Amount
		} else {
			totalCredit += txn.Amount
		}
	}

	status := fiber.StatusOK
	if !res.Success {
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(ExtractResponse{
		RequestID:    requestID,
		Success:      res.Success,
		Message:      res.Message,
		Error:        res.Error,
		Transactions: txns,
		Statement:    res.Statement,
		Count:        len(txns),
		TotalDebit:   totalDebit,
		TotalCredit:  totalCredit,
	})
}

func fail(c *fiber.Ctx, requestID string, status int, msg string) error {
	return c.Status(status).JSON(ExtractResponse{
		RequestID:    requestID,
		Success:      false,
		Error:        msg,
		Transactions: []models.Transaction{},
	})
}

func (h *Handler) logger() *logrus.Logger {
	if h.Log != nil {
		return h.Log
	}
	return logrus.StandardLogger()
}
