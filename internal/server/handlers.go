package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/coordinator"
	"github.com/jonathan/interview-coach/internal/jobs"
	"github.com/jonathan/interview-coach/internal/types"
)

// evaluateRequest is the POST /v1/answers/evaluate body. The optional
// session ID links the result into stored progress.
type evaluateRequest struct {
	SessionID string       `json:"session_id,omitempty"`
	Answer    types.Answer `json:"answer"`
}

// evaluateResponse mirrors coordinator.Evaluation for the wire.
type evaluateResponse struct {
	AnswerID string                     `json:"answer_id"`
	Partial  bool                       `json:"partial"`
	Feedback *types.SynthesizedFeedback `json:"feedback,omitempty"`
	Content  *types.ContentReport       `json:"content_report,omitempty"`
	Delivery *types.DeliveryReport      `json:"delivery_report,omitempty"`
	Failure  *failurePayload            `json:"failure,omitempty"`
}

type failurePayload struct {
	Branch string `json:"branch"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	// Answers submitted as a bare recording get transcribed before the
	// dual analysis launches.
	if s.transcriber != nil {
		if err := s.transcriber.Fill(r.Context(), &req.Answer); err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	evaluation, err := s.evaluator.Evaluate(r.Context(), &req.Answer)
	if err != nil {
		var total *coordinator.TotalFailure
		if errors.As(err, &total) {
			s.jsonResponse(w, http.StatusBadGateway, map[string]any{
				"error":     "analysis_failed",
				"answer_id": total.AnswerID,
				"content":   failurePayload{Branch: total.Content.Branch, Code: string(total.Content.Code), Detail: detail(total.Content.Err)},
				"delivery":  failurePayload{Branch: total.Delivery.Branch, Code: string(total.Delivery.Code), Detail: detail(total.Delivery.Err)},
			})
			return
		}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp := evaluateResponse{
		AnswerID: evaluation.AnswerID,
		Partial:  evaluation.Partial(),
		Feedback: evaluation.Feedback,
		Content:  evaluation.Content,
		Delivery: evaluation.Delivery,
	}
	if evaluation.Failure != nil {
		resp.Failure = &failurePayload{
			Branch: evaluation.Failure.Branch,
			Code:   string(evaluation.Failure.Code),
			Detail: detail(evaluation.Failure.Err),
		}
	}

	s.persistEvaluation(r, req.SessionID, evaluation)
	s.jsonResponse(w, http.StatusOK, resp)
}

// persistEvaluation stores the result when a session is named and a store
// is configured. Persistence failures are logged, never surfaced: the
// caller already has the feedback.
func (s *Server) persistEvaluation(r *http.Request, sessionID string, evaluation *coordinator.Evaluation) {
	if s.store == nil || sessionID == "" {
		return
	}

	id, err := uuid.Parse(sessionID)
	if err != nil {
		s.logger.Warn("ignoring malformed session id", zap.String("session_id", sessionID))
		return
	}

	ctx := r.Context()
	if evaluation.Partial() {
		var surviving any
		if evaluation.Content != nil {
			surviving = evaluation.Content
		} else {
			surviving = evaluation.Delivery
		}
		err = s.store.SavePartial(ctx, id, evaluation.AnswerID, string(evaluation.Failure.Code), surviving)
	} else {
		err = s.store.SaveFeedback(ctx, id, evaluation.Feedback)
	}
	if err != nil {
		s.logger.Warn("failed to persist evaluation",
			zap.String("session_id", sessionID),
			zap.String("answer_id", evaluation.AnswerID),
			zap.Error(err),
		)
	}
}

type analyzeJobRequest struct {
	Posting string `json:"posting"`
}

func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	if s.jobs == nil {
		s.errorResponse(w, http.StatusNotImplemented, "job analysis is not configured")
		return
	}

	var req analyzeJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Posting) == "" {
		s.errorResponse(w, http.StatusBadRequest, "posting text is required")
		return
	}

	info, err := s.jobs.Analyze(r.Context(), req.Posting)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, info)
}

type generateQuestionRequest struct {
	Job        json.RawMessage `json:"job"`
	Competency string          `json:"competency"`
}

func (s *Server) handleGenerateQuestion(w http.ResponseWriter, r *http.Request) {
	if s.questions == nil {
		s.errorResponse(w, http.StatusNotImplemented, "question generation is not configured")
		return
	}

	var req generateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var job jobs.JobInfo
	if err := json.Unmarshal(req.Job, &job); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid job profile: "+err.Error())
		return
	}

	competency := types.CompetencyTag(req.Competency)
	if !competency.IsValid() {
		s.errorResponse(w, http.StatusBadRequest, "unknown competency: "+req.Competency)
		return
	}

	question, err := s.questions.Generate(r.Context(), &job, competency)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, question)
}

type createSessionRequest struct {
	JobTitle string `json:"job_title"`
	Industry string `json:"industry"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotImplemented, "session persistence is not configured")
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	industry := types.Industry(req.Industry)
	if !industry.IsValid() {
		s.errorResponse(w, http.StatusBadRequest, "unsupported industry: "+req.Industry)
		return
	}

	id, err := s.store.CreateSession(r.Context(), req.JobTitle, industry)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"session_id": id.String()})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotImplemented, "session persistence is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}

	progress, err := s.store.GetProgress(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"session_id": id.String(),
		"progress":   progress,
	})
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotImplemented, "session persistence is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}

	feedback, err := s.store.ListFeedback(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"session_id": id.String(),
		"feedback":   feedback,
	})
}

func detail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
