package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/odsregistry/internal/common"
	"github.com/dmitrijs2005/odsregistry/internal/logging"
	"github.com/dmitrijs2005/odsregistry/internal/server/auth"
	"github.com/dmitrijs2005/odsregistry/internal/server/models"
	"github.com/dmitrijs2005/odsregistry/internal/server/services"
)

type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
}

type CompanyService interface {
	Register(ctx context.Context, in services.RegisterCompanyInput) (*models.Company, error)
	List(ctx context.Context) ([]models.CompanyListing, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type handlers struct {
	users     UserService
	companies CompanyService
	issuer    auth.Issuer
	log       logging.Logger
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registeredUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// bindJSON decodes and validates the request body. Failures wrap
// common.ErrValidation.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

func (h *handlers) register(c *gin.Context) {
	var req credentialsRequest
	if err := bindJSON(c, &req); err != nil {
		h.log.Debug(c.Request.Context(), "rejected request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": msgRegisterError})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"message": msgEmailTaken})
		case errors.Is(err, common.ErrorInternal):
			h.log.Error(c.Request.Context(), "register failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
		default:
			h.log.Error(c.Request.Context(), "register failed", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"message": msgRegisterError})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": msgRegistered,
		"result":  registeredUser{ID: user.ID, Email: user.Email},
	})
}

func (h *handlers) login(c *gin.Context) {
	var req credentialsRequest
	if err := bindJSON(c, &req); err != nil {
		h.log.Debug(c.Request.Context(), "rejected request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": msgLoginError})
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": msgUserNotFound})
		case errors.Is(err, common.ErrorUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"message": msgWrongPassword})
		case errors.Is(err, common.ErrorInternal):
			h.log.Error(ctx, "login failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
		default:
			h.log.Error(ctx, "login failed", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"message": msgLoginError})
		}
		return
	}

	token, err := h.issuer.Issue(c, auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		h.log.Error(ctx, "issue proof failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
		return
	}

	if token != "" {
		c.JSON(http.StatusOK, gin.H{"message": msgLoggedIn, "token": token})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgLoggedIn, "login": true})
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.issuer.Revoke(c); err != nil {
		h.log.Error(c.Request.Context(), "logout failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgLoggedOut})
}

func (h *handlers) whoami(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "email": id.Email})
}

type registerCompanyRequest struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact" binding:"required"`
	Address string `json:"address" binding:"required"`
	CNPJ    string `json:"cnpj" binding:"required"`
	Area    string `json:"area" binding:"required"`
	Email   string `json:"email"`
	ODS     string `json:"ods" binding:"required"`
}

func (h *handlers) registerCompany(c *gin.Context) {
	var req registerCompanyRequest
	if err := bindJSON(c, &req); err != nil {
		h.log.Debug(c.Request.Context(), "rejected request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
		return
	}

	email := req.Email
	if email == "" {
		if id, ok := identityFrom(c); ok {
			email = id.Email
		}
	}

	ctx := c.Request.Context()
	_, err := h.companies.Register(ctx, services.RegisterCompanyInput{
		Name:    req.Name,
		Contact: req.Contact,
		Address: req.Address,
		CNPJ:    req.CNPJ,
		Sector:  req.Area,
		Email:   email,
		ODS:     req.ODS,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": msgCompanyUserAbsent})
		case errors.Is(err, common.ErrAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"message": msgCNPJTaken})
		default:
			h.log.Error(ctx, "register company failed", "cnpj", req.CNPJ, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": msgCompanyError})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgCompanyRegistered})
}

func (h *handlers) listCompanies(c *gin.Context) {
	list, err := h.companies.List(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "list companies failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgListCompanies})
		return
	}
	if list == nil {
		list = []models.CompanyListing{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) listCategories(c *gin.Context) {
	list, err := h.companies.ListCategories(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "list categories failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgListCategories})
		return
	}
	if list == nil {
		list = []models.Category{}
	}
	c.JSON(http.StatusOK, list)
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
