package serve

import (
	"encoding/json"
	"net/http"

	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/pkg/log"
)

// HealthResponse は /health の応答
type HealthResponse struct {
	Status string `json:"status"`
}

// PredictionResponse は /predict の応答
type PredictionResponse struct {
	PredictedPrice float64 `json:"predicted_price"`
	ModelVersion   string  `json:"model_version"`
}

// ErrorResponse はエラー時の応答
type ErrorResponse struct {
	Error           string   `json:"error"`
	Code            string   `json:"code"`
	MissingFeatures []string `json:"missing_features,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "UP"})
}

func (s *Server) handleModelInfo(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.scorer.Metadata())
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "request body must be a JSON object: " + err.Error(),
			Code:  log.ErrorInvalidInput,
		})
		return
	}

	price, err := s.scorer.PredictOne(r.Context(), body)
	if err != nil {
		s.writePredictError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PredictionResponse{
		PredictedPrice: price,
		ModelVersion:   s.scorer.Metadata().ModelVersion,
	})
}

func (s *Server) writePredictError(w http.ResponseWriter, err error) {
	var (
		missing *errors.MissingFeaturesError
		valErr  *errors.ValueError
	)
	switch {
	case errors.As(err, &missing):
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:           missing.Error(),
			Code:            log.ErrorInvalidInput,
			MissingFeatures: missing.Missing,
		})
	case errors.As(err, &valErr):
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: valErr.Error(), Code: log.ErrorInvalidInput})
	default:
		code := errorCode(err)
		s.logger.Error("Prediction failed", err, log.ErrorCodeKey, code)
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "prediction failed", Code: code})
	}
}

// errorCode はログと応答に載せるエラーコードを返す
func errorCode(err error) string {
	var (
		notFitted *errors.NotFittedError
		dimErr    *errors.DimensionError
	)
	switch {
	case errors.As(err, &notFitted):
		return log.ErrorNotFitted
	case errors.As(err, &dimErr):
		return log.ErrorDimensionMismatch
	case errors.Is(err, errors.ErrEmptyData):
		return log.ErrorEmptyData
	case errors.Is(err, errors.ErrSingularMatrix):
		return log.ErrorSingularMatrix
	default:
		return "INTERNAL"
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to write response", err)
	}
}
