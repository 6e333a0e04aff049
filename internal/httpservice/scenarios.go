package httpservice

import (
	"encoding/json"
	"net/http"
)

// Scenario endpoints: the REST surface the rest of the platform calls when
// something notification-worthy happens. Each one maps to exactly one
// orchestrator method.

type deliveredResponse struct {
	Delivered int `json:"delivered"`
}

type courseCreatedRequest struct {
	CourseID   int64  `json:"course_id"`
	CourseName string `json:"course_name"`
}

func (s *Service) courseCreated() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req courseCreatedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		delivered := s.services.Notifier.AnnounceCourseCreated(r.Context(), req.CourseID, req.CourseName)
		s.writer.WriteSuccess(w, "", deliveredResponse{Delivered: delivered})
	}
}

type materialUploadedRequest struct {
	CourseID     int64  `json:"course_id"`
	MaterialName string `json:"material_name"`
}

func (s *Service) materialUploaded() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req materialUploadedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		delivered := s.services.Notifier.AnnounceMaterialUploaded(r.Context(), req.CourseID, req.MaterialName)
		s.writer.WriteSuccess(w, "", deliveredResponse{Delivered: delivered})
	}
}

type assignmentCreatedRequest struct {
	CourseID int64  `json:"course_id"`
	Title    string `json:"title"`
}

func (s *Service) assignmentCreated() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assignmentCreatedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		delivered := s.services.Notifier.AnnounceAssignmentCreated(r.Context(), req.CourseID, req.Title)
		s.writer.WriteSuccess(w, "", deliveredResponse{Delivered: delivered})
	}
}

type assignmentGradedRequest struct {
	StudentID int64  `json:"student_id"`
	Title     string `json:"title"`
	Grade     string `json:"grade"`
}

func (s *Service) assignmentGraded() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assignmentGradedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		delivered := s.services.Notifier.AnnounceAssignmentGraded(r.Context(), req.StudentID, req.Title, req.Grade)
		s.writer.WriteSuccess(w, "", deliveredResponse{Delivered: delivered})
	}
}

type assignmentSubmittedRequest struct {
	CourseID  int64  `json:"course_id"`
	StudentID int64  `json:"student_id"`
	Title     string `json:"title"`
}

func (s *Service) assignmentSubmitted() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assignmentSubmittedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		delivered := s.services.Notifier.AnnounceAssignmentSubmitted(r.Context(), req.CourseID, req.StudentID, req.Title)
		s.writer.WriteSuccess(w, "", deliveredResponse{Delivered: delivered})
	}
}

type studentEnrolledRequest struct {
	CourseID    int64  `json:"course_id"`
	StudentID   int64  `json:"student_id"`
	StudentName string `json:"student_name"`
}

func (s *Service) studentEnrolled() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req studentEnrolledRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		delivered := s.services.Notifier.AnnounceStudentEnrolled(r.Context(), req.CourseID, req.StudentID, req.StudentName)
		s.writer.WriteSuccess(w, "", deliveredResponse{Delivered: delivered})
	}
}
