package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"coursegen/internal/config"
	"coursegen/internal/courses"
	"coursegen/internal/fileutil"
	"coursegen/internal/jobs"
	"coursegen/internal/logging"
	"coursegen/internal/services"
	"coursegen/internal/textutil"
)

const maxUploadBytes = 2 << 30

// videoExtensions is the upload allow-list, matched case-insensitively.
var videoExtensions = map[string]struct{}{
	".mp4": {},
	".mov": {},
	".avi": {},
	".wmv": {},
}

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.APIBind)
	if bind == "" {
		return nil, nil
	}

	mux := http.NewServeMux()
	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux.HandleFunc("/upload-video/", srv.handleUpload)
	mux.HandleFunc("/video/", srv.handleVideo)
	mux.HandleFunc("/course/", srv.handleCourse)
	mux.HandleFunc("/api", srv.handleRoot)
	mux.HandleFunc("/api/status", authMiddleware(cfg.APIToken, srv.handleStatus))
	mux.HandleFunc("/api/jobs", authMiddleware(cfg.APIToken, srv.handleJobs))
	if dir := strings.TrimSpace(cfg.StaticDir); dir != "" {
		mux.Handle("/", http.FileServer(http.Dir(dir)))
	}

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

type uploadResponse struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
}

func (s *apiServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer func() { _ = file.Close() }()

	filename := textutil.SanitizeFilename(header.Filename)
	if filename == "" {
		s.writeError(w, http.StatusBadRequest, "No selected file")
		return
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := videoExtensions[ext]; !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid video file format")
		return
	}

	mode, ok := jobs.ParseMode(r.FormValue("mode"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid generation mode")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = textutil.TitleFromFilename(filename)
	}

	id := uuid.NewString()
	destPath := filepath.Join(s.daemon.cfg.UploadDir, id+"_"+filename)
	if err := fileutil.WriteStream(destPath, file); err != nil {
		s.log().Error("failed to store upload", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	job, err := s.daemon.store.NewJob(r.Context(), id, title, filename, destPath, mode)
	if err != nil {
		_ = os.Remove(destPath)
		s.log().Error("failed to create job", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to register video")
		return
	}

	s.log().Info("video uploaded",
		logging.String(logging.FieldJobID, job.ID),
		logging.String("filename", filename),
		logging.String("mode", string(mode)))

	// The pipeline claims the job asynchronously; report it as processing
	// so clients can start polling immediately.
	s.writeJSON(w, http.StatusOK, uploadResponse{
		VideoID: job.ID,
		Title:   job.Title,
		Status:  string(jobs.StatusProcessing),
	})
}

type videoResponse struct {
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Mode      string `json:"mode"`
	CourseID  string `json:"course_id,omitempty"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (s *apiServer) handleVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/video/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "Video not found")
		return
	}
	job, err := s.daemon.store.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		s.writeError(w, http.StatusNotFound, "Video not found")
		return
	}
	s.writeJSON(w, http.StatusOK, videoResponse{
		VideoID:   job.ID,
		Title:     job.Title,
		Status:    string(job.Status),
		Mode:      string(job.Mode),
		CourseID:  job.CourseID,
		Error:     job.ErrorMessage,
		CreatedAt: job.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: job.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

func (s *apiServer) handleCourse(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/course/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "Course not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		course, err := s.daemon.courseStore.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				s.writeError(w, http.StatusNotFound, "Course not found")
				return
			}
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, course)
	case http.MethodPut:
		var course courses.Course
		decoder := json.NewDecoder(r.Body)
		if err := decoder.Decode(&course); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid course payload")
			return
		}
		if err := course.Validate(); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.daemon.courseStore.Replace(r.Context(), id, &course); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				s.writeError(w, http.StatusNotFound, "Course not found")
				return
			}
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"message": "Course updated successfully"})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Video to Course Generator API"})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Status(r.Context()))
}

func (s *apiServer) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var statuses []jobs.Status
	for _, value := range r.URL.Query()["status"] {
		status, ok := jobs.ParseStatus(value)
		if !ok {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", value))
			return
		}
		statuses = append(statuses, status)
	}
	list, err := s.daemon.store.List(r.Context(), statuses...)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	items := make([]videoResponse, 0, len(list))
	for _, job := range list {
		items = append(items, videoResponse{
			VideoID:   job.ID,
			Title:     job.Title,
			Status:    string(job.Status),
			Mode:      string(job.Mode),
			CourseID:  job.CourseID,
			Error:     job.ErrorMessage,
			CreatedAt: job.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt: job.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	s.writeJSON(w, http.StatusOK, map[string][]videoResponse{"jobs": items})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
