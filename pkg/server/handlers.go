package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/coolbeans/regparser/pkg/amendment"
	"github.com/coolbeans/regparser/pkg/grammar"
	"github.com/coolbeans/regparser/pkg/label"
	"github.com/coolbeans/regparser/pkg/notice"
)

var partNumber = regexp.MustCompile(`^\d+$`)

type parseInstructionRequest struct {
	Text    string   `json:"text"`
	Context []string `json:"context"`
}

type parseInstructionResponse struct {
	Amendments []amendment.Amendment `json:"amendments"`
	Context    []string              `json:"context"`
	Skipped    []grammar.Span        `json:"skipped"`
	ListErrors []string              `json:"list_errors,omitempty"`
}

func (s *Server) handleParseInstruction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var request parseInstructionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(request.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	analysis, err := s.parser.Analyze(request.Text, label.New(request.Context...))
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, grammar.ErrInputTooLong) {
			status = http.StatusRequestEntityTooLarge
		}
		jsonError(w, err.Error(), status)
		return
	}

	if wantsCSV(r) {
		writeCSV(w, analysis.Amendments)
		return
	}

	response := parseInstructionResponse{
		Amendments: analysis.Amendments,
		Context:    append([]string{}, analysis.Context...),
		Skipped:    analysis.Skipped,
	}
	if response.Amendments == nil {
		response.Amendments = []amendment.Amendment{}
	}
	if response.Skipped == nil {
		response.Skipped = []grammar.Span{}
	}
	for _, listError := range analysis.ListErrors {
		response.ListErrors = append(response.ListErrors, listError.Error())
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleParseNotice(w http.ResponseWriter, r *http.Request) {
	cfrPart := r.URL.Query().Get("cfr_part")
	if !partNumber.MatchString(cfrPart) {
		jsonError(w, "cfr_part must be a part number", http.StatusBadRequest)
		return
	}
	cfrTitle := s.cfrTitle
	if value := r.URL.Query().Get("cfr_title"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			jsonError(w, "cfr_title must be a positive number", http.StatusBadRequest)
			return
		}
		cfrTitle = parsed
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		jsonError(w, "failed to read body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	if len(body) == 0 {
		jsonError(w, "notice XML is required", http.StatusBadRequest)
		return
	}

	doc := &notice.Document{DocumentNumber: r.URL.Query().Get("document_number")}
	built, err := s.builder.Build(cfrTitle, cfrPart, doc, body)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if wantsCSV(r) {
		writeCSV(w, built.Amendments)
		return
	}
	writeJSON(w, http.StatusOK, built)
}

// wantsCSV reports whether the client asked for CSV over JSON.
func wantsCSV(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/csv")
}

func writeCSV(w http.ResponseWriter, amendments []amendment.Amendment) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := amendment.EncodeCSV(w, amendments); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
