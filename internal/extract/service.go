package extract

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/finwise/statement-extractor/internal/models"
	"github.com/finwise/statement-extractor/internal/textsource"
)

// Service is the public extraction boundary. It never panics through to the
// caller; failures come back as result objects.
type Service struct {
	Text *textsource.Service
	Log  *logrus.Logger
}

// NewService wires the extraction pipeline behind a text-acquisition service.
func NewService(text *textsource.Service, log *logrus.Logger) *Service {
	return &Service{Text: text, Log: log}
}

// ExtractFile acquires text for a document and extracts transactions from it.
// A failing text-acquisition collaborator is the one genuinely fatal error.
func (s *Service) ExtractFile(path string) *models.ExtractionResult {
	text, err := s.Text.DocumentText(path)
	if err != nil {
		return failure(fmt.Sprintf("text acquisition failed: %v", err))
	}
	return s.ExtractText(text)
}

// ExtractText runs extraction over an already-acquired text blob (the paste
// path). When the Kotak marker is present the fixed-layout parser runs first
// and its header metadata is attached; otherwise, or when it yields nothing,
// the heuristic extractor takes over.
func (s *Service) ExtractText(text string) (res *models.ExtractionResult) {
	log := s.logger()
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("extraction panicked")
			res = failure(fmt.Sprintf("internal extraction error: %v", r))
		}
	}()

	if IsKotakStatement(text) {
		st, err := (&KotakParser{Log: s.Log}).Parse(text)
		if err == nil && len(st.Transactions) > 0 {
			return &models.ExtractionResult{
				Success:      true,
				Message:      fmt.Sprintf("parsed %d transactions from statement", len(st.Transactions)),
				Transactions: st.Transactions,
				Statement:    st,
			}
		}
		if err != nil {
			log.WithError(err).Warn("statement parser failed, falling back to heuristic extraction")
		}
	}

	txns := (&Extractor{Log: s.Log}).Extract(text)
	if txns == nil {
		txns = []models.Transaction{}
	}
	msg := fmt.Sprintf("extracted %d transactions", len(txns))
	if len(txns) == 0 {
		msg = "no transactions found"
	}
	return &models.ExtractionResult{
		Success:      true,
		Message:      msg,
		Transactions: txns,
	}
}

// unsupportedFormatMessage is the user-facing text for the format gate; API
// and CLI callers surface it verbatim.
const unsupportedFormatMessage = "Unsupported bank statement format"

// ExtractStatement is the explicit fixed-format path: the format gate is hard
// and there is no heuristic fallback.
func (s *Service) ExtractStatement(text string) *models.ExtractionResult {
	st, err := (&KotakParser{Log: s.Log}).Parse(text)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return failure(unsupportedFormatMessage)
		}
		return failure(err.Error())
	}
	msg := fmt.Sprintf("parsed %d transactions from statement", len(st.Transactions))
	if len(st.Transactions) == 0 {
		msg = "no transactions found"
	}
	return &models.ExtractionResult{
		Success:      true,
		Message:      msg,
		Transactions: st.Transactions,
		Statement:    st,
	}
}

func (s *Service) logger() *logrus.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logrus.StandardLogger()
}

func failure(errMsg string) *models.ExtractionResult {
	return &models.ExtractionResult{
		Success:      false,
		Message:      "extraction failed",
		Error:        errMsg,
		Transactions: []models.Transaction{},
	}
}
