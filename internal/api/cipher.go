package api

import (
	"net/http"

	"github.com/RowanDark/monocrack/internal/cipher"
	"github.com/RowanDark/monocrack/internal/crack"
	"github.com/RowanDark/monocrack/internal/lang"
	"github.com/RowanDark/monocrack/internal/logging"
)

// CipherOperationRequest represents a request to execute a cipher operation
type CipherOperationRequest struct {
	Operation string                 `json:"operation"`
	Input     string                 `json:"input"`
	Config    map[string]interface{} `json:"config,omitempty"`
}

// CipherOperationResponse represents the result of a cipher operation
type CipherOperationResponse struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// CipherPipelineRequest represents a request to execute a pipeline of operations
type CipherPipelineRequest struct {
	Input      string                   `json:"input"`
	Operations []cipher.OperationConfig `json:"operations"`
	Reverse    bool                     `json:"reverse,omitempty"`
}

// CipherDetectRequest represents a request to classify a ciphertext
type CipherDetectRequest struct {
	Input    string `json:"input"`
	Language string `json:"language,omitempty"`
}

// CipherDetectResponse represents the detection result
type CipherDetectResponse struct {
	Detections []cipher.DetectionResult `json:"detections"`
}

// OperationInfo describes a registered operation.
type OperationInfo struct {
	Name        string               `json:"name"`
	Type        cipher.OperationType `json:"type"`
	Description string               `json:"description"`
	Reverse     string               `json:"reverse,omitempty"`
}

// LanguageInfo describes a registered language.
type LanguageInfo struct {
	Name        string  `json:"name"`
	Alphabet    string  `json:"alphabet"`
	ExpectedIC  float64 `json:"expected_ic"`
	NgramOrders []int   `json:"ngram_orders"`
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	infos := make([]LanguageInfo, 0)
	for _, name := range lang.Names() {
		m, ok := lang.Lookup(name)
		if !ok {
			continue
		}
		infos = append(infos, LanguageInfo{
			Name:        m.Name(),
			Alphabet:    m.Alphabet().String(),
			ExpectedIC:  m.ExpectedIC(),
			NgramOrders: m.NgramOrders(),
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"languages": infos, "default": lang.DefaultLanguage})
}

func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var ops []cipher.Operation
	if t := r.URL.Query().Get("type"); t != "" {
		ops = cipher.ListOperationsByType(cipher.OperationType(t))
	} else {
		ops = cipher.ListOperations()
	}
	infos := make([]OperationInfo, 0, len(ops))
	for _, op := range ops {
		info := OperationInfo{Name: op.Name(), Type: op.Type(), Description: op.Description()}
		if rev, ok := op.Reverse(); ok {
			info.Reverse = rev.Name()
		}
		infos = append(infos, info)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"operations": infos})
}

// handleCipherExecute handles execution of a single cipher operation
func (s *Server) handleCipherExecute(w http.ResponseWriter, r *http.Request) {
	var req CipherOperationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Operation == "" {
		http.Error(w, "operation field is required", http.StatusBadRequest)
		return
	}

	op, exists := cipher.GetOperation(req.Operation)
	if !exists {
		s.writeJSON(w, http.StatusBadRequest, CipherOperationResponse{
			Error: "unknown operation: " + req.Operation,
		})
		return
	}

	ctx := r.Context()
	params := req.Config
	if params == nil {
		params = make(map[string]interface{})
	}

	result, err := op.Execute(ctx, []byte(req.Input), params)
	_ = s.logger.Emit(logging.Event{
		EventType: logging.EventOperationRun,
		Metadata:  map[string]any{"operation": req.Operation, "ok": err == nil},
	})
	if err != nil {
		if writeContextError(w, ctx) {
			return
		}
		s.writeJSON(w, statusForError(err), CipherOperationResponse{
			Error: err.Error(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, CipherOperationResponse{
		Output: string(result),
	})
}

// handleCipherPipeline handles execution of a pipeline of operations
func (s *Server) handleCipherPipeline(w http.ResponseWriter, r *http.Request) {
	var req CipherPipelineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Operations) == 0 {
		http.Error(w, "operations field is required and must not be empty", http.StatusBadRequest)
		return
	}

	pipeline := &cipher.Pipeline{Operations: req.Operations, Reversible: req.Reverse}
	if req.Reverse {
		reversed, err := pipeline.Reverse()
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, CipherOperationResponse{Error: err.Error()})
			return
		}
		pipeline = reversed
	}

	ctx := r.Context()
	result, err := pipeline.Execute(ctx, []byte(req.Input))
	_ = s.logger.Emit(logging.Event{
		EventType: logging.EventPipelineRun,
		Metadata:  map[string]any{"steps": len(pipeline.Operations), "reverse": req.Reverse, "ok": err == nil},
	})
	if err != nil {
		if writeContextError(w, ctx) {
			return
		}
		s.writeJSON(w, statusForError(err), CipherOperationResponse{
			Error: err.Error(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, CipherOperationResponse{
		Output: string(result),
	})
}

// handleCipherDetect ranks the cipher families that could have produced the input
func (s *Server) handleCipherDetect(w http.ResponseWriter, r *http.Request) {
	var req CipherDetectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Input == "" {
		http.Error(w, "input field is required", http.StatusBadRequest)
		return
	}
	model, ok := lang.Lookup(req.Language)
	if !ok {
		http.Error(w, "unknown language: "+req.Language, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	detections, err := crack.NewDetector(model).Detect(ctx, []byte(req.Input))
	_ = s.logger.Emit(logging.Event{
		EventType: logging.EventDetectionRun,
		Metadata:  map[string]any{"language": model.Name(), "results": len(detections)},
	})
	if err != nil {
		if writeContextError(w, ctx) {
			return
		}
		s.writeJSON(w, statusForError(err), map[string]interface{}{
			"error":      err.Error(),
			"detections": []cipher.DetectionResult{},
		})
		return
	}
	if detections == nil {
		detections = []cipher.DetectionResult{}
	}

	s.writeJSON(w, http.StatusOK, CipherDetectResponse{
		Detections: detections,
	})
}
