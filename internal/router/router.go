// Package router wires the HTTP endpoints of the Brainly API to the service
// layer and the authentication middleware.
package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brainly-app/brainly/internal/auth"
	"github.com/brainly-app/brainly/internal/authenticator"
	"github.com/brainly-app/brainly/internal/gzippedhttp"
	"github.com/brainly-app/brainly/internal/logger"
	"github.com/brainly-app/brainly/internal/models"
	"github.com/brainly-app/brainly/internal/service"
)

// Router holds the dependencies of the HTTP handlers.
type Router struct {
	service   *service.Service
	validator *validator.Validate
}

// New builds the chi mux with all API routes, logging/gzip middleware and
// the auth gate on protected routes.
func New(svc *service.Service, theAuthenticator authenticator.Authenticator) http.Handler {
	myRouter := &Router{
		service:   svc,
		validator: validator.New(),
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.UngzipJSONAndTextHTMLRequest,
		gzippedhttp.GzipResponse,
	)

	router.Get(`/ping`, myRouter.GetPing)

	router.Route(`/api/v1`, func(router chi.Router) {
		router.Post(`/signup`, myRouter.PostSignup)
		router.Post(`/signin`, myRouter.PostSignin)
		router.Get(`/brain/{shareLink}`, myRouter.GetBrainShareLink)

		router.Group(func(router chi.Router) {
			router.Use(theAuthenticator.AuthenticateUser)
			router.Post(`/content`, myRouter.PostContent)
			router.Get(`/content`, myRouter.GetContent)
			router.Delete(`/content`, myRouter.DeleteContent)
			router.Post(`/brain/share`, myRouter.PostBrainShare)
		})
	})

	return router
}

// GetPing handles GET /ping, reporting the health of the storage layer.
func (r *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := r.service.Ping(request.Context()); err != nil {
		logger.Log.Debugln("Error calling the `service.Ping()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	response.WriteHeader(http.StatusOK)
}

// PostSignup handles POST /api/v1/signup.
// Validation failures are reported with status 200 and an "Invalid Format"
// message, matching the wire behavior clients already depend on.
func (r *Router) PostSignup(response http.ResponseWriter, request *http.Request) {
	var signupRequest models.SignupRequest
	if err := json.NewDecoder(request.Body).Decode(&signupRequest); err != nil {
		writeJSON(response, http.StatusOK, models.InvalidFormatResponse{
			Message: "Invalid Format",
			Error:   err.Error(),
		})

		return
	}

	if err := r.validator.Struct(signupRequest); err != nil {
		writeJSON(response, http.StatusOK, models.InvalidFormatResponse{
			Message: "Invalid Format",
			Error:   err.Error(),
		})

		return
	}

	err := r.service.SignUp(request.Context(), signupRequest.Email, signupRequest.Password, signupRequest.Username)
	if errors.Is(err, service.ErrUserExists) {
		writeJSON(response, http.StatusForbidden, models.MessageResponse{Message: "User already exists"})

		return
	}
	if err != nil {
		logger.Log.Debugln("Error calling the `service.SignUp()`: ", zap.Error(err))
		writeInternalError(response)

		return
	}

	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Signed up!"})
}

// PostSignin handles POST /api/v1/signin.
// A wrong password is reported with status 200, an unknown user with 403;
// both quirks are preserved for wire compatibility.
func (r *Router) PostSignin(response http.ResponseWriter, request *http.Request) {
	var signinRequest models.SigninRequest
	if err := json.NewDecoder(request.Body).Decode(&signinRequest); err != nil {
		writeInternalError(response)

		return
	}

	token, err := r.service.SignIn(request.Context(), signinRequest.Email, signinRequest.Password)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(response, http.StatusForbidden, models.MessageResponse{Message: "User does not exist"})

	case errors.Is(err, service.ErrWrongPassword):
		writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Password is Incorrect"})

	case err != nil:
		logger.Log.Debugln("Error calling the `service.SignIn()`: ", zap.Error(err))
		writeInternalError(response)

	default:
		writeJSON(response, http.StatusOK, models.SigninResponse{Token: token})
	}
}

// PostContent handles POST /api/v1/content (protected).
func (r *Router) PostContent(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeInternalError(response)

		return
	}

	var contentRequest models.AddContentRequest
	if err := json.NewDecoder(request.Body).Decode(&contentRequest); err != nil {
		writeInternalError(response)

		return
	}

	err := r.service.AddContent(request.Context(), userID, contentRequest.Link, contentRequest.Title, contentRequest.Type)
	if err != nil {
		logger.Log.Debugln("Error calling the `service.AddContent()`: ", zap.Error(err))
		writeInternalError(response)

		return
	}

	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Content Added"})
}

// GetContent handles GET /api/v1/content (protected).
func (r *Router) GetContent(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeInternalError(response)

		return
	}

	content, err := r.service.GetUserContent(request.Context(), userID)
	if err != nil {
		logger.Log.Debugln("Error calling the `service.GetUserContent()`: ", zap.Error(err))
		writeInternalError(response)

		return
	}

	writeJSON(response, http.StatusOK, models.ContentListResponse{Content: content})
}

// DeleteContent handles DELETE /api/v1/content (protected).
// The deletion is ownership-scoped; a non-matching ID is a no-op and still
// reported as deleted.
func (r *Router) DeleteContent(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeInternalError(response)

		return
	}

	var deleteRequest models.DeleteContentRequest
	if err := json.NewDecoder(request.Body).Decode(&deleteRequest); err != nil {
		writeInternalError(response)

		return
	}

	if err := r.service.DeleteContent(request.Context(), userID, deleteRequest.ContentID); err != nil {
		logger.Log.Debugln("Error calling the `service.DeleteContent()`: ", zap.Error(err))
		writeInternalError(response)

		return
	}

	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Deleted"})
}

// PostBrainShare handles POST /api/v1/brain/share (protected).
// The share field must be truthy; its value is not otherwise used.
func (r *Router) PostBrainShare(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeInternalError(response)

		return
	}

	var shareRequest models.ShareRequest
	if err := json.NewDecoder(request.Body).Decode(&shareRequest); err != nil {
		writeInternalError(response)

		return
	}

	if !isTruthy(shareRequest.Share) {
		writeJSON(response, http.StatusBadRequest, models.MessageResponse{Message: "Share parameter is required"})

		return
	}

	hash, err := r.service.CreateShareLink(request.Context(), userID)
	if err != nil {
		logger.Log.Debugln("Error calling the `service.CreateShareLink()`: ", zap.Error(err))
		writeJSON(response, http.StatusInternalServerError, models.MessageResponse{Message: "Error creating share link"})

		return
	}

	writeJSON(response, http.StatusOK, models.ShareResponse{Link: hash})
}

// GetBrainShareLink handles GET /api/v1/brain/{shareLink} (public).
func (r *Router) GetBrainShareLink(response http.ResponseWriter, request *http.Request) {
	hash := chi.URLParam(request, "shareLink")

	sharedBrain, err := r.service.GetSharedBrain(request.Context(), hash)
	switch {
	case errors.Is(err, service.ErrShareLinkNotFound):
		writeJSON(response, http.StatusNotFound, models.MessageResponse{Message: "Share link is invalid or sharing is disabled"})

	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(response, http.StatusNotFound, models.MessageResponse{Message: "User not found"})

	case err != nil:
		logger.Log.Debugln("Error calling the `service.GetSharedBrain()`: ", zap.Error(err))
		writeJSON(response, http.StatusInternalServerError, models.MessageResponse{Message: "Error retrieving shared content"})

	default:
		writeJSON(response, http.StatusOK, sharedBrain)
	}
}

// isTruthy mirrors the truthiness semantics the share endpoint has always
// had: JSON false, null, 0 and "" are falsy, everything else is truthy.
func isTruthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	default:
		return true
	}
}

func writeJSON(response http.ResponseWriter, statusCode int, payload any) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(statusCode)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("Error encoding the response: ", zap.Error(err))
	}
}

func writeInternalError(response http.ResponseWriter) {
	writeJSON(response, http.StatusInternalServerError, models.MessageResponse{Message: "Internal server error"})
}
