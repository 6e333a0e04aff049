package httpservice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Arten331/observability/logger"
	"github.com/eduplatform/notifier/internal/domain/notification"
	"github.com/eduplatform/notifier/internal/domain/subscriber"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var errBadID = errors.New("identifier must be a positive integer")

func (s *Service) liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, request *http.Request) {
		s.writer.WriteSuccess(w, "OK", nil)
	}
}

func (s *Service) readiness() http.HandlerFunc {
	return func(w http.ResponseWriter, request *http.Request) {
		s.writer.WriteSuccess(w, "OK", nil)
	}
}

func (s *Service) prometheus() http.HandlerFunc {
	if s.services.Metrics != nil {
		logger.L().Info("custom prometheus registry handler enabled")

		return s.services.Metrics.Handler()
	}

	logger.L().Info("default prometheus registry enabled")

	return func(w http.ResponseWriter, r *http.Request) {
		promhttp.HandlerFor(
			prometheus.DefaultGatherer,
			promhttp.HandlerOpts{},
		).ServeHTTP(w, r)
	}
}

func (s *Service) stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writer.WriteSuccess(w, "", s.services.Dispatcher.Stats())
	}
}

func urlID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}

	return id, nil
}

type registerUserRequest struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func (s *Service) registerUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		err := s.services.Notifier.RegisterUser(req.UserID, req.Name, req.Role)
		if errors.Is(err, subscriber.ErrEmptyRole) {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		if err != nil {
			s.writer.WriteError(w, err, http.StatusInternalServerError)

			return
		}

		s.writer.WriteSuccess(w, "registered", nil)
	}
}

func (s *Service) unregisterUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := urlID(r, "userID")
		if err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		s.services.Notifier.UnregisterUser(userID)
		s.writer.WriteSuccess(w, "unregistered", nil)
	}
}

func (s *Service) userCourses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := urlID(r, "userID")
		if err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		s.writer.WriteSuccess(w, "", s.services.Dispatcher.UserSubscribedCourses(userID))
	}
}

type subscriberResponse struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func (s *Service) courseSubscribers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, err := urlID(r, "courseID")
		if err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		subs := s.services.Dispatcher.CourseObservers(courseID)
		resp := make([]subscriberResponse, 0, len(subs))

		for _, sub := range subs {
			resp = append(resp, subscriberResponse{UserID: sub.ID(), Name: sub.Name(), Role: sub.Role()})
		}

		s.writer.WriteSuccess(w, "", resp)
	}
}

type subscribeStudentRequest struct {
	StudentID int64  `json:"student_id"`
	Name      string `json:"name"`
}

func (s *Service) subscribeStudent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, err := urlID(r, "courseID")
		if err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		var req subscribeStudentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		if err := s.services.Notifier.SubscribeStudentToCourse(req.StudentID, req.Name, courseID); err != nil {
			s.writer.WriteError(w, err, http.StatusInternalServerError)

			return
		}

		s.writer.WriteSuccess(w, "subscribed", nil)
	}
}

func (s *Service) unsubscribeStudent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, err := urlID(r, "courseID")
		if err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		userID, err := urlID(r, "userID")
		if err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		s.services.Notifier.UnsubscribeStudentFromCourse(userID, courseID)
		s.writer.WriteSuccess(w, "unsubscribed", nil)
	}
}

func (s *Service) subscribeAllStudents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, err := urlID(r, "courseID")
		if err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		subscribed, err := s.services.Notifier.SubscribeAllStudentsToCourse(r.Context(), courseID)
		if err != nil {
			s.writer.WriteError(w, err, http.StatusInternalServerError)

			return
		}

		s.writer.WriteSuccess(w, "subscribed", map[string]int{"students": subscribed})
	}
}

type assignTeacherRequest struct {
	TeacherID int64 `json:"teacher_id"`
}

func (s *Service) assignTeacher() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, err := urlID(r, "courseID")
		if err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		var req assignTeacherRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		s.services.Notifier.RegisterCourseTeacher(courseID, req.TeacherID)
		s.writer.WriteSuccess(w, "assigned", nil)
	}
}

type notificationResponse struct {
	ID          int64  `json:"id"`
	RecipientID int64  `json:"recipient_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

func toNotificationResponses(records []notification.Record) []notificationResponse {
	resp := make([]notificationResponse, 0, len(records))

	for _, rec := range records {
		resp = append(resp, notificationResponse{
			ID:          rec.ID,
			RecipientID: rec.RecipientID,
			Subject:     rec.Subject,
			Body:        rec.Body,
			Status:      string(rec.Status),
			CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
		})
	}

	return resp
}

func (s *Service) listNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := urlID(r, "userID")
		if err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		records, err := s.services.Notifications.ListByRecipient(r.Context(), userID)
		if err != nil {
			s.writer.WriteError(w, err, http.StatusInternalServerError)

			return
		}

		s.writer.WriteSuccess(w, "", toNotificationResponses(records))
	}
}

func (s *Service) listUnreadNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := urlID(r, "userID")
		if err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		records, err := s.services.Notifications.ListUnread(r.Context(), userID)
		if err != nil {
			s.writer.WriteError(w, err, http.StatusInternalServerError)

			return
		}

		s.writer.WriteSuccess(w, "", toNotificationResponses(records))
	}
}

func (s *Service) markRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "notificationID")
		if err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		err = s.services.Notifications.MarkRead(r.Context(), id)
		if errors.Is(err, notification.ErrRecordNotFound) {
			s.writer.WriteError(w, err, http.StatusNotFound)

			return
		}

		if err != nil {
			s.writer.WriteError(w, err, http.StatusInternalServerError)

			return
		}

		s.writer.WriteSuccess(w, "read", nil)
	}
}

func (s *Service) markAllRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := urlID(r, "userID")
		if err != nil {
			s.writer.WriteError(w, err, http.StatusBadRequest)

			return
		}

		if err := s.services.Notifications.MarkAllRead(r.Context(), userID); err != nil {
			s.writer.WriteError(w, err, http.StatusInternalServerError)

			return
		}

		s.writer.WriteSuccess(w, "read", nil)
	}
}
