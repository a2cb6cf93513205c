package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/weirdtraffic/internal/backend"
)

const maxBodyBytes = 16 << 20

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// errInvalidJSON marks a body that could not be decoded.
var errInvalidJSON = errors.New("invalid JSON body")

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errInvalidJSON
	}
	return validatorInstance().Struct(v)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req backend.GenerateRequest
	if err := decode(r, &req); err != nil {
		if errors.Is(err, errInvalidJSON) {
			respondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		respondError(w, http.StatusBadRequest, "Missing prompt")
		return
	}

	resp, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		s.log.Error().Err(err).Msg("generate failed")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req backend.DetectRequest
	if err := decode(r, &req); err != nil {
		if errors.Is(err, errInvalidJSON) {
			respondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		respondError(w, http.StatusBadRequest, "Missing prompt or imageBase64")
		return
	}

	s.log.Debug().Str("prompt", req.Prompt).Int("image_bytes", len(req.ImageBase64)).Msg("detect request")

	resp, err := s.det.Detect(r.Context(), req)
	if err != nil {
		s.log.Error().Err(err).Msg("detect failed")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"message": message})
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		code = http.StatusInternalServerError
		body = []byte(`{"message":"Internal Server Error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
