package handlers

import (
	"errors"
	"log"
	"net/http"

	"pulse/internal/db"
	"pulse/internal/models"
	"pulse/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		jsonError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			jsonError(c, http.StatusConflict, "Username or email already registered")
			return
		}
		log.Printf("Error creating user: %v", err)
		jsonError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		jsonError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !utils.CheckPasswordHash(input.Password, user.Password) {
		jsonError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, CurrentUser(c))
}
