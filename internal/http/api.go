package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"participant-registry/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	participants service.ParticipantService
	corsOrigin   string
	logger       *logrus.Logger
}

func NewHandler(participants service.ParticipantService, corsOrigin string, logger *logrus.Logger) *Handler {
	return &Handler{
		participants: participants,
		corsOrigin:   corsOrigin,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{h.corsOrigin}
	corsConfig.AllowMethods = []string{http.MethodPost, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	// The front end expects pre-flight to answer 200, not the default 204.
	corsConfig.OptionsResponseStatusCode = http.StatusOK
	router.Use(cors.New(corsConfig))

	// Non-POST methods on known paths get the structured error, not a bare 405.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusOK, statusResponse{Status: "error", Message: "Invalid request method."})
	})

	router.POST("/signup", h.signup)
	router.POST("/login", h.login)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type signupRequest struct {
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	Email      string `json:"email"`
	Department string `json:"department"`
	StudentID  string `json:"student_id"`
	Password   string `json:"password"`
}

type loginRequest struct {
	StudentID string `json:"student_id"`
	Password  string `json:"password"`
}

type loginResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	StudentID  string `json:"student_id"`
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// A malformed body degrades to empty fields, same as the original contract.
		req = signupRequest{}
	}

	_, err := h.participants.Register(c.Request.Context(), service.Registration{
		StudentID:  req.StudentID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Department: req.Department,
		Password:   req.Password,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, statusResponse{Status: "success", Message: "Signup successful!"})
	case errors.Is(err, service.ErrMissingFields):
		c.JSON(http.StatusOK, statusResponse{Status: "error", Message: "All fields are required."})
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusOK, statusResponse{Status: "error", Message: "Email or Student ID already exists."})
	default:
		h.logger.WithError(err).Error("signup failed")
		c.JSON(http.StatusOK, statusResponse{Status: "error", Message: "Database error: " + err.Error()})
	}
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = loginRequest{}
	}

	p, err := h.participants.Authenticate(c.Request.Context(), req.StudentID, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, loginResponse{
			Status:     "success",
			Message:    "Login successful!",
			StudentID:  p.StudentID,
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			Email:      p.Email,
			Department: p.Department,
		})
	case errors.Is(err, service.ErrMissingCredentials):
		c.JSON(http.StatusOK, statusResponse{Status: "error", Message: "Student ID and password are required."})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusOK, statusResponse{Status: "error", Message: "User not found."})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusOK, statusResponse{Status: "error", Message: "Invalid Student ID or password."})
	default:
		h.logger.WithError(err).Error("login failed")
		c.JSON(http.StatusOK, statusResponse{Status: "error", Message: "Database error: " + err.Error()})
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		}).Info("request handled")
	}
}
