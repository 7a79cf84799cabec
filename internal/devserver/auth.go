package devserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/semanticallynull/campusride/internal/middleware"
)

// maxUploadSize bounds student ID images.
const maxUploadSize = 8 << 20

type registerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

func (s *Server) registerHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide valid registration details"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		internalError(c, "failed to hash password", err)
		return
	}

	user, err := s.accounts.create(strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName),
		strings.TrimSpace(req.Email), hash)
	if errors.Is(err, ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
		return
	}
	if err != nil {
		internalError(c, "failed to create account", err)
		return
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		internalError(c, "failed to issue token", err)
		return
	}

	middleware.GetLogger(c).InfoContext(c, "account registered", "userId", user.ID)
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"token": token}})
}

func (s *Server) loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	user, hash, err := s.accounts.credentials(strings.TrimSpace(req.Email))
	if err == nil {
		err = bcrypt.CompareHashAndPassword(hash, []byte(req.Password))
	}
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		internalError(c, "failed to issue token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"token": token, "user": user}})
}

// forgotPasswordHandler never reveals whether the email is registered. No
// mail is sent.
func (s *Server) forgotPasswordHandler(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	if user, _, err := s.accounts.credentials(strings.TrimSpace(req.Email)); err == nil {
		middleware.GetLogger(c).InfoContext(c, "password reset requested", "userId", user.ID)
	}
	c.JSON(http.StatusOK, gin.H{"message": "If that email is registered, a reset link has been sent."})
}

// uploadHandler accepts the student ID image from the multipart field
// "image" and assigns the account a student ID.
func (s *Server) uploadHandler(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No image uploaded"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		internalError(c, "failed to open upload", err)
		return
	}
	defer f.Close()
	n, err := io.Copy(io.Discard, f)
	if err != nil {
		internalError(c, "failed to read upload", err)
		return
	}
	if n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Uploaded image is empty"})
		return
	}

	studentID := fmt.Sprintf("STU-%d-%s", time.Now().Year(), strings.ToUpper(uuid.NewString()[:6]))
	err = s.accounts.update(id, func(a *account) error {
		a.studentID = studentID
		return nil
	})
	if errors.Is(err, ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		internalError(c, "failed to store student id", err)
		return
	}

	middleware.GetLogger(c).InfoContext(c, "student id uploaded",
		"userId", id, "filename", fh.Filename, "size", n)
	c.JSON(http.StatusOK, gin.H{"message": "Student ID saved", "studentId": studentID})
}

func (s *Server) issueToken(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.cfg.Issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{s.cfg.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
}
