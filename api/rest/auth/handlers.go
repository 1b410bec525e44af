package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"codeberg.org/taskflow/server/internal/auth"
	"codeberg.org/taskflow/server/internal/errors"
	"codeberg.org/taskflow/server/internal/idp"
	"codeberg.org/taskflow/server/internal/logger"
	"codeberg.org/taskflow/server/internal/sessions"
	"github.com/gin-gonic/gin"
)

type SessionIssuer interface {
	AuthorizationURL(state string) string
	CompleteLogin(ctx context.Context, code, state, expectedState string) (*sessions.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*sessions.RefreshResult, error)
}

// LoginHandler godoc
// @Summary Start sign-in
// @Description Redirects to the identity provider with a fresh anti-forgery state
// @Tags auth
// @Success 302 {string} string "Redirect to identity provider"
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [get]
func LoginHandler(issuer SessionIssuer, states *auth.StateStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := states.Begin(c.Writer, c.Request)
		if err != nil {
			errors.InternalError(c, "failed to start sign-in", err)
			return
		}

		c.Redirect(http.StatusFound, issuer.AuthorizationURL(state))
	}
}

// CallbackHandler godoc
// @Summary OAuth callback
// @Description Identity provider callback. Returns the user and a token pair
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "Anti-forgery state"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /auth/callback [get]
func CallbackHandler(issuer SessionIssuer, states *auth.StateStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := states.Expected(c.Request)

		// the state is single use whatever the outcome
		if err := states.Clear(c.Writer, c.Request); err != nil {
			logger.ErrorErr(err, "failed to clear oauth state cookie")
		}

		if providerErr := c.Query("error"); providerErr != "" {
			errors.BadRequest(c, "identity provider returned an error",
				fmt.Errorf("%s: %s", providerErr, c.Query("error_description")))
			return
		}

		result, err := issuer.CompleteLogin(c.Request.Context(), c.Query("code"), c.Query("state"), expected)
		if err != nil {
			respondLoginError(c, err)
			return
		}

		logger.FromContext(c.Request.Context()).Info("user signed in", "user_id", result.User.ID)

		c.JSON(http.StatusOK, LoginResponse{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			TokenType:    tokenTypeBearer,
			ExpiresIn:    int64(result.ExpiresIn.Seconds()),
			User:         result.User,
		})
	}
}

func respondLoginError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, sessions.ErrStateMismatch):
		logger.Warn("oauth state mismatch", "ip", c.ClientIP())
		errors.Unauthorized(c, "invalid sign-in state")
	case stderrors.Is(err, sessions.ErrMissingCode):
		errors.BadRequest(c, "authorization code is required", nil)
	case stderrors.Is(err, idp.ErrCodeRejected):
		errors.Unauthorized(c, "authorization code was rejected")
	case stderrors.Is(err, idp.ErrExchangeFailed),
		stderrors.Is(err, idp.ErrProfileFetchFailed),
		stderrors.Is(err, idp.ErrProfileIncomplete):
		errors.BadGateway(c, "identity provider unavailable", err)
	default:
		errors.InternalError(c, "sign-in failed", err)
	}
}

// RefreshHandler godoc
// @Summary Refresh access token
// @Description Issues a new access token for a valid refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} RefreshResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func RefreshHandler(issuer SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
			errors.BadRequest(c, "invalid request body", err)
			return
		}

		result, err := issuer.Refresh(c.Request.Context(), req.RefreshToken)
		if err != nil {
			switch {
			case stderrors.Is(err, sessions.ErrMissingRefreshToken):
				errors.BadRequest(c, "refresh_token is required", nil)
			case stderrors.Is(err, auth.ErrExpired):
				errors.Unauthorized(c, "refresh token expired")
			case stderrors.Is(err, sessions.ErrInvalidRefreshToken),
				stderrors.Is(err, sessions.ErrUserNotFound):
				errors.Unauthorized(c, "invalid refresh token")
			default:
				errors.InternalError(c, "failed to refresh token", err)
			}
			return
		}

		c.JSON(http.StatusOK, RefreshResponse{
			AccessToken: result.AccessToken,
			TokenType:   tokenTypeBearer,
			ExpiresIn:   int64(result.ExpiresIn.Seconds()),
		})
	}
}

// LogoutHandler godoc
// @Summary Logout
// @Description Clears the sign-in cookie. Issued tokens stay valid until they expire
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/logout [get]
func LogoutHandler(states *auth.StateStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := states.Clear(c.Writer, c.Request); err != nil {
			logger.ErrorErr(err, "failed to clear oauth state cookie")
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
	}
}
