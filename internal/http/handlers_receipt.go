package http

import (
	"io"
	"log/slog"
	"net/http"

	"spendsmart/internal/receipt"
)

// maxReceiptBytes caps uploaded receipt images at 10 MiB.
const maxReceiptBytes = 10 << 20

type receiptResponse struct {
	Amount *string  `json:"amount"`
	Date   *string  `json:"date"`
	Lines  []string `json:"lines"`
}

// handleReceipt accepts a receipt image, runs text recognition and extracts
// the total and purchase date. Absent fields come back null; a receipt with
// neither is still a successful scan.
func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if s.recognizer == nil {
		writeError(w, http.StatusServiceUnavailable, "receipt scanning is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptBytes)
	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with an 'image' field")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'image' field")
		return
	}
	defer file.Close()

	img, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read image")
		return
	}

	lines, err := s.recognizer.RecognizeText(r.Context(), img)
	if err != nil {
		slog.ErrorContext(r.Context(), "Text recognition failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, "could not recognize text in image")
		return
	}

	fields := receipt.Extract(lines)
	resp := receiptResponse{Lines: lines}
	if fields.Amount != nil {
		amount := fields.Amount.Decimal()
		resp.Amount = &amount
	}
	if fields.Date != nil {
		date := fields.Date.Format(jsonDateLayout)
		resp.Date = &date
	}
	writeJSON(w, http.StatusOK, resp)
}
