package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"userhub/internal/httputil"
	"userhub/internal/user"
	"userhub/internal/validate"
)

// Handler wires the /users endpoints: decode, validate, call the
// service, render. All business decisions live in the validators and the
// service.
type Handler struct {
	service      *Service
	validators   *Validators
	isProduction bool
}

func NewHandler(service *Service, validators *Validators, isProduction bool) *Handler {
	return &Handler{service: service, validators: validators, isProduction: isProduction}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.RespondError(w, r, err, h.isProduction)
}

// validated decodes the request and runs it through the schema, rendering
// any failure itself. The second return value reports whether the caller
// should continue.
func (h *Handler) validated(w http.ResponseWriter, r *http.Request, schema *validate.Schema) (*validate.Request, bool) {
	req, err := validate.NewRequest(r)
	if err != nil {
		h.respondError(w, r, err)
		return nil, false
	}
	if err := schema.Run(r.Context(), req); err != nil {
		h.respondError(w, r, err)
		return nil, false
	}
	return req, true
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.validated(w, r, h.validators.Register())
	if !ok {
		return
	}

	dateOfBirth, err := validate.ParseISO8601(req.String("date_of_birth"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	pair, err := h.service.Register(r.Context(), RegisterParams{
		Name:        req.String("name"),
		Email:       req.String("email"),
		DateOfBirth: dateOfBirth,
		Password:    req.String("password"),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondResult(w, MsgRegisterSuccess, pair, http.StatusCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.validated(w, r, h.validators.Login())
	if !ok {
		return
	}

	pair, err := h.service.Login(r.Context(), UserFromRequest(req))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondResult(w, MsgLoginSuccess, pair, http.StatusOK)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	req, ok := h.validated(w, r, h.validators.RefreshToken())
	if !ok {
		return
	}

	if err := h.service.Logout(r.Context(), req.String("refresh_token")); err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondMessage(w, MsgLogoutSuccess, http.StatusOK)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	req, ok := h.validated(w, r, h.validators.RefreshToken())
	if !ok {
		return
	}

	payload := PayloadFromRequest(req, KeyDecodedRefreshToken)
	pair, err := h.service.Refresh(r.Context(), req.String("refresh_token"), payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondResult(w, MsgRefreshTokenSuccess, pair, http.StatusOK)
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	req, ok := h.validated(w, r, h.validators.VerifyEmail())
	if !ok {
		return
	}

	payload := PayloadFromRequest(req, KeyDecodedEmailVerifyToken)
	pair, message, err := h.service.VerifyEmail(r.Context(), payload.UserID, req.String("email_verify_token"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if pair == nil {
		httputil.RespondMessage(w, message, http.StatusOK)
		return
	}

	httputil.RespondResult(w, message, pair, http.StatusOK)
}

func (h *Handler) ResendVerifyEmail(w http.ResponseWriter, r *http.Request) {
	payload := PayloadFromContext(r.Context())

	message, err := h.service.ResendVerifyEmail(r.Context(), payload.UserID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondMessage(w, message, http.StatusOK)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := h.validated(w, r, h.validators.ForgotPassword())
	if !ok {
		return
	}

	message, err := h.service.ForgotPassword(r.Context(), UserFromRequest(req))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondMessage(w, message, http.StatusOK)
}

func (h *Handler) VerifyForgotPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := h.validated(w, r, h.validators.VerifyForgotPassword())
	if !ok {
		return
	}

	payload := PayloadFromRequest(req, KeyDecodedForgotPasswordToken)
	message, err := h.service.VerifyForgotPasswordToken(r.Context(), payload.UserID, req.String("forgot_password_token"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondMessage(w, message, http.StatusOK)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := h.validated(w, r, h.validators.ResetPassword())
	if !ok {
		return
	}

	payload := PayloadFromRequest(req, KeyDecodedForgotPasswordToken)
	pair, message, err := h.service.ResetPassword(
		r.Context(), payload.UserID, req.String("forgot_password_token"), req.String("password"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if pair == nil {
		httputil.RespondMessage(w, message, http.StatusOK)
		return
	}

	httputil.RespondResult(w, message, pair, http.StatusOK)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	payload := PayloadFromContext(r.Context())

	me, err := h.service.GetMe(r.Context(), payload.UserID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondResult(w, MsgGetMeSuccess, me, http.StatusOK)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	req, ok := h.validated(w, r, h.validators.UpdateMe())
	if !ok {
		return
	}

	patch, err := patchFromRequest(req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	payload := PayloadFromContext(r.Context())
	me, err := h.service.UpdateMe(r.Context(), payload.UserID, patch)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondResult(w, MsgUpdateMeSuccess, me, http.StatusOK)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	req, err := validate.NewRequest(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	req.SetParam("username", chi.URLParam(r, "username"))
	if err := h.validators.GetProfile().Run(r.Context(), req); err != nil {
		h.respondError(w, r, err)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), req.String("username"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondResult(w, MsgGetUserProfileSuccess, profile, http.StatusOK)
}

func patchFromRequest(req *validate.Request) (user.Patch, error) {
	var patch user.Patch

	setString := func(name string, dst **string) {
		if req.Has(name) {
			s := req.String(name)
			*dst = &s
		}
	}
	setString("name", &patch.Name)
	setString("bio", &patch.Bio)
	setString("location", &patch.Location)
	setString("website", &patch.Website)
	setString("username", &patch.Username)
	setString("avatar", &patch.Avatar)
	setString("cover_photo", &patch.CoverPhoto)

	if req.Has("date_of_birth") {
		dateOfBirth, err := validate.ParseISO8601(req.String("date_of_birth"))
		if err != nil {
			return user.Patch{}, err
		}
		patch.DateOfBirth = &dateOfBirth
	}

	return patch, nil
}
