package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin exchanges admin credentials for a bearer token.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := h.authSvc(c).Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"token":      res.Token,
		"token_type": "Bearer",
		"expires_in": int(h.Auth.Issuer.TTL().Seconds()),
		"admin":      res.Admin,
	})
}
